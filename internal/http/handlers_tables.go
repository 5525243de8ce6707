package http

import (
	"bytes"
	"net/http"

	"finorbit/internal/log"
	"finorbit/internal/table"
)

// tableEvent resolves the session of a table event, applies it and sends
// the re-rendered table partial.
func (s *Server) tableEvent(w http.ResponseWriter, r *http.Request, op string, apply func(*table.Session) (table.View, error)) {
	ctx := r.Context()
	page, tableID, id := r.PathValue("page"), r.PathValue("table"), r.PathValue("session")

	sess, restored, err := s.session(ctx, page, tableID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := apply(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "transactions_table", view); err != nil {
		s.writeError(w, r, err)
		return
	}

	log.FromContext(ctx).DebugContext(ctx, "table event",
		log.NewFields().
			WithOperation(op).
			WithTable(page, id, view.Info.Total).
			WithPageNumber(view.Current).
			ToSlice()...)

	resp := NewHTMXResponse().BodyHTML(buf.Bytes()).TriggerTableUpdated(view)
	if restored {
		resp.TriggerSessionRestored()
	}
	resp.Write(w)
}

func (s *Server) handleTableSort(w http.ResponseWriter, r *http.Request) {
	column, err := ParseSortColumn(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "sort requested", log.FieldColumn, string(column))
	s.tableEvent(w, r, log.OpSort, func(sess *table.Session) (table.View, error) {
		return sess.Sort(column)
	})
}

// handleTableFilter serves both the search box and the category form. A
// search-only submit keeps the ticked categories.
func (s *Server) handleTableFilter(w http.ResponseWriter, r *http.Request) {
	params, err := ParseFilterParams(r)
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	s.tableEvent(w, r, log.OpFilter, func(sess *table.Session) (table.View, error) {
		if params.Categories == nil {
			return sess.Search(params.Search), nil
		}
		return sess.Filter(params.Categories, params.Search), nil
	})
}

func (s *Server) handleTableToggleAll(w http.ResponseWriter, r *http.Request) {
	s.tableEvent(w, r, log.OpToggle, func(sess *table.Session) (table.View, error) {
		return sess.ToggleAll(), nil
	})
}

func (s *Server) handleTableCategory(w http.ResponseWriter, r *http.Request) {
	name, checked, err := ParseCategoryToggle(r)
	if err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	s.tableEvent(w, r, log.OpFilter, func(sess *table.Session) (table.View, error) {
		return sess.SetCategory(name, checked), nil
	})
}

func (s *Server) handleTablePage(w http.ResponseWriter, r *http.Request) {
	n, ok := ParsePageNumber(r)
	if !ok {
		s.writeError(w, r, badRequest(errBadPageNumber))
		return
	}
	s.tableEvent(w, r, log.OpPaginate, func(sess *table.Session) (table.View, error) {
		return sess.ChangePage(n), nil
	})
}
