package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"finorbit/internal/log"
	"finorbit/internal/middleware/trace"
	"finorbit/internal/pages"
	"finorbit/internal/payload"
)

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Title  string
	Path   string
	Active bool
}

// pageData is what every page template receives.
type pageData struct {
	*pages.Page
	Nav       []NavLink
	RequestID string
	Year      int
}

func (s *Server) handlePage(m pages.Module) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := s.RenderPage(r.Context(), &buf, m.Name(), r.URL.Query().Get("focus")); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeHTML(w, &buf)
	}
}

// RenderPage writes the complete HTML of page to w. Table sessions the
// page opens are kept for the HTMX events that follow.
func (s *Server) RenderPage(ctx context.Context, w io.Writer, name, focus string) error {
	p, err := s.buildPage(ctx, name, focus, &sessionOpener{sessions: s.sessions})
	if err != nil {
		return err
	}
	data := pageData{
		Page:      p,
		Nav:       s.nav(p.Name),
		RequestID: trace.RequestID(ctx),
		Year:      s.now().Year(),
	}
	if err := s.templates.ExecuteTemplate(w, p.Template, data); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "page template failed",
			log.FieldTemplate, p.Template,
			log.FieldError, err)
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// buildPage runs the page module over the page's payload. A page without
// a document renders with every widget skipped.
func (s *Server) buildPage(ctx context.Context, name, focus string, tables pages.TableOpener) (*pages.Page, error) {
	m, err := s.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	bundle, err := s.store.Bundle(m.Name())
	if errors.Is(err, payload.ErrUnknownPage) {
		log.FromContext(ctx).DebugContext(ctx, "no document for page", log.FieldPage, m.Name())
		bundle, err = payload.Bundle{}, nil
	}
	if err != nil {
		return nil, err
	}

	env := pages.Env{
		Bundle: bundle,
		Charts: s.charts,
		Format: s.format,
		Focus:  focus,
		Tables: tables,
		Logger: log.FromContext(ctx).WithComponent(log.ComponentPages),
		Now:    s.now,
	}
	p, err := m.Build(env)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", m.Name(), err)
	}
	return p, nil
}

func (s *Server) nav(active string) []NavLink {
	modules := s.registry.Modules()
	links := make([]NavLink, len(modules))
	for i, m := range modules {
		links[i] = NavLink{Title: m.Title(), Path: m.Path(), Active: m.Name() == active}
	}
	return links
}
