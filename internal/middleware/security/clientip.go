package security

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync/atomic"

	"finorbit/internal/log"
)

// DefaultTrustedProxies are the networks allowed to set forwarding headers.
var DefaultTrustedProxies = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"::1/128",
}

// ClientIP resolves the client address of a request, trusting
// X-Forwarded-For and X-Real-IP only from known proxies.
type ClientIP struct {
	trusted []netip.Prefix
}

func NewClientIP(trustedCIDRs ...string) (*ClientIP, error) {
	c := &ClientIP{}
	for _, cidr := range trustedCIDRs {
		p, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
		}
		c.trusted = append(c.trusted, p)
	}
	return c, nil
}

// Resolve returns the client IP of r.
func (c *ClientIP) Resolve(r *http.Request) string {
	direct, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		direct = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(direct)
	if err != nil || !c.isTrusted(addr) {
		return direct
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if fwd, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return fwd.String()
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if fwd, err := netip.ParseAddr(xri); err == nil {
			return fwd.String()
		}
	}
	return direct
}

func (c *ClientIP) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

var probePatterns = []string{
	"../", "..\\", ".env", ".git", ".ssh", "wp-admin", "phpmyadmin",
	"etc/passwd", "<script", "union select",
}

// Screen rejects requests that probe for files or inject markup: path
// traversal, dotfiles, well-known admin panels, and tracing methods.
type Screen struct {
	logger   *log.Logger
	clientIP func(*http.Request) string
	rejected atomic.Int64
}

func NewScreen(logger *log.Logger, clientIP func(*http.Request) string) *Screen {
	return &Screen{logger: logger.WithComponent(log.ComponentSecurity), clientIP: clientIP}
}

// Suspicious reports whether r looks like a probe.
func Suspicious(r *http.Request) bool {
	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", "CONNECT":
		return true
	}
	if len(r.URL.String()) > 2048 {
		return true
	}
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	for _, p := range probePatterns {
		if strings.Contains(path, p) || strings.Contains(query, p) {
			return true
		}
	}
	return false
}

func (s *Screen) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Suspicious(r) {
			s.rejected.Add(1)
			s.logger.WarnContext(r.Context(), "suspicious request rejected",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.clientIP(r))
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Rejected returns how many requests were turned away.
func (s *Screen) Rejected() int64 {
	return s.rejected.Load()
}
