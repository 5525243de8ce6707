package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"finorbit/internal/cache"
	"finorbit/internal/chart"
	"finorbit/internal/format"
	"finorbit/internal/log"
	"finorbit/internal/middleware/ratelimit"
	"finorbit/internal/middleware/security"
	"finorbit/internal/middleware/trace"
	"finorbit/internal/pages"
	"finorbit/internal/payload"
	"finorbit/internal/table"
	appweb "finorbit/web"
)

// Dependencies are the collaborators of a Server. Zero values get defaults.
type Dependencies struct {
	Store     *payload.Store
	Registry  *pages.Registry
	Formatter *format.Formatter
	Logger    *log.Logger

	SessionTTL time.Duration
	SessionMax int
	RateLimit  ratelimit.Config
	Headers    *security.HeadersConfig
	// TrustedProxies are the CIDRs whose forwarding headers are believed.
	TrustedProxies []string
	Now            func() time.Time
}

// Server is the dashboard HTTP server.
type Server struct {
	http.Server
	templates *template.Template
	store     *payload.Store
	registry  *pages.Registry
	format    *format.Formatter
	charts    *chart.Factory
	logger    *log.Logger
	now       func() time.Time

	sessions *cache.LRU[*table.Session]
	caches   *cache.Manager
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	screen   *security.Screen
	clientIP *security.ClientIP

	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates.
func NewServer(addr string, deps Dependencies) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("payload store is required")
	}
	if deps.Registry == nil {
		deps.Registry = pages.Default()
	}
	if deps.Formatter == nil {
		deps.Formatter = format.Default()
	}
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = 30 * time.Minute
	}
	if deps.SessionMax <= 0 {
		deps.SessionMax = 1000
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.TrustedProxies == nil {
		deps.TrustedProxies = security.DefaultTrustedProxies
	}
	headers := security.DefaultHeadersConfig()
	if deps.Headers != nil {
		headers = *deps.Headers
	}

	clientIP, err := security.NewClientIP(deps.TrustedProxies...)
	if err != nil {
		return nil, err
	}
	t, err := ParseTemplates(deps.Formatter)
	if err != nil {
		return nil, err
	}

	logger := deps.Logger.WithComponent(log.ComponentHTTP)
	s := &Server{
		templates: t,
		store:     deps.Store,
		registry:  deps.Registry,
		format:    deps.Formatter,
		charts:    chart.NewFactory(deps.Formatter),
		logger:    logger,
		now:       deps.Now,
		sessions:  cache.NewLRU[*table.Session](deps.SessionMax, deps.SessionTTL),
		caches:    cache.NewManager(deps.Logger),
		limiter:   ratelimit.NewLimiter(deps.RateLimit, deps.Logger),
		clientIP:  clientIP,
		started:   deps.Now(),
	}
	s.tracer = trace.NewMiddleware(deps.Logger, clientIP.Resolve)
	s.screen = security.NewScreen(deps.Logger, clientIP.Resolve)
	s.caches.Register("table_sessions", s.sessions)
	s.caches.Register("rate_limit_clients", s.limiter.Clients())

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		return nil, err
	}

	var handler http.Handler = mux
	handler = s.limiter.Middleware(clientIP.Resolve, s.handleRateLimited, http.MethodPost)(handler)
	handler = security.NewHeadersMiddleware(headers).Middleware(handler)
	handler = s.screen.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return err
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	// Rendering a page with a table opens a session, so those views share
	// the table events' budget.
	limitPage := s.limiter.Middleware(s.clientIP.Resolve, s.handleRateLimited)
	for _, m := range s.registry.Modules() {
		pattern := "GET " + m.Path()
		if m.Path() == "/" {
			pattern = "GET /{$}"
		}
		var h http.Handler = s.handlePage(m)
		if _, ok := m.(pages.TableSource); ok {
			h = limitPage(h)
		}
		mux.Handle(pattern, h)
	}

	mux.HandleFunc("POST /ui/tables/{page}/{table}/{session}/sort", s.handleTableSort)
	mux.HandleFunc("POST /ui/tables/{page}/{table}/{session}/filter", s.handleTableFilter)
	mux.HandleFunc("POST /ui/tables/{page}/{table}/{session}/categories/toggle-all", s.handleTableToggleAll)
	mux.HandleFunc("POST /ui/tables/{page}/{table}/{session}/categories", s.handleTableCategory)
	mux.HandleFunc("POST /ui/tables/{page}/{table}/{session}/page", s.handleTablePage)

	mux.HandleFunc("GET /api/charts/{page}/{chart}", s.handleChartConfig)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return nil
}

// Caches exposes the cache manager so the caller can run periodic sweeps.
func (s *Server) Caches() *cache.Manager {
	return s.caches
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(http.StatusTooManyRequests, "Too many requests, please slow down.").
		TriggerErrorNotification("Too many requests, please slow down.").
		Write(w)
}
