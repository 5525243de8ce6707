package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"finorbit/internal/cache"
	"finorbit/internal/log"
	"finorbit/internal/pages"
	"finorbit/internal/payload"
	"finorbit/internal/table"
)

// sessionOpener registers the table sessions opened by a page render.
type sessionOpener struct {
	sessions cache.Cache[*table.Session]
}

func (o *sessionOpener) Open(page, tableID string, rows []*table.Row, opts ...table.Option) *table.Session {
	sess := table.NewSession(uuid.NewString(), page, rows, opts...)
	sess.Table = tableID
	o.sessions.Set(sessionKey(page, tableID, sess.ID), sess)
	return sess
}

func sessionKey(page, tableID, id string) string {
	return strings.Join([]string{page, tableID, id}, "/")
}

// session returns the live table session, rebuilding it from the page
// payload when it expired. restored reports a rebuild.
func (s *Server) session(ctx context.Context, page, tableID, id string) (sess *table.Session, restored bool, err error) {
	if !validSessionID(id) {
		return nil, false, fmt.Errorf("%w: %q", errBadSession, id)
	}
	sess, created, err := s.sessions.GetOrCreate(sessionKey(page, tableID, id), func() (*table.Session, error) {
		return s.restoreSession(ctx, page, tableID, id)
	})
	if err != nil {
		return nil, false, err
	}
	return sess, created, nil
}

func (s *Server) restoreSession(ctx context.Context, page, tableID, id string) (*table.Session, error) {
	m, err := s.registry.Lookup(page)
	if err != nil {
		return nil, err
	}
	src, ok := m.(pages.TableSource)
	if !ok {
		return nil, fmt.Errorf("%w: page %s has no tables", payload.ErrMissing, page)
	}
	bundle, err := s.store.Bundle(page)
	if err != nil {
		return nil, err
	}
	rows, opts, err := src.TableRows(pages.Env{Bundle: bundle, Format: s.format}, tableID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: table %s", payload.ErrMissing, tableID)
	}

	log.FromContext(ctx).InfoContext(ctx, "table session restored",
		log.NewFields().WithTable(page, id, len(rows)).ToSlice()...)
	sess := table.NewSession(id, page, rows, opts...)
	sess.Table = tableID
	return sess, nil
}
