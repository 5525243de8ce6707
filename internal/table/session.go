package table

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Session is one rendered transaction table: the engine plus the filter
// controls feeding it. Events run to completion under the session mutex.
type Session struct {
	ID   string
	Page string
	// Table is the table's element ID within the page.
	Table string

	mu         sync.Mutex
	engine     *Engine
	categories *CategorySet
	search     string
}

// NewSession initializes a table over rows.
func NewSession(id, page string, rows []*Row, opts ...Option) *Session {
	return &Session{
		ID:         id,
		Page:       page,
		engine:     New(rows, opts...),
		categories: NewCategorySet(rows),
	}
}

func (s *Session) Sort(column Column) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Sort(column); err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// SetCategory ticks or unticks one category and refilters.
func (s *Session) SetCategory(name string, checked bool) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categories.Set(name, checked) {
		s.refilter()
	}
	return s.view()
}

func (s *Session) ToggleAll() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories.ToggleAll()
	s.refilter()
	return s.view()
}

// Search replaces the search term and refilters.
func (s *Session) Search(term string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
	s.refilter()
	return s.view()
}

// Filter replaces both the ticked categories and the search term, as sent
// by a full filter form submit.
func (s *Session) Filter(active []string, term string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := make(map[string]bool, len(active))
	for _, name := range active {
		keep[name] = true
	}
	for _, name := range s.categories.Names() {
		s.categories.Set(name, keep[name])
	}
	s.search = term
	s.refilter()
	return s.view()
}

func (s *Session) ChangePage(n int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.ChangePage(n)
	return s.view()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) refilter() {
	s.engine.Filter(s.categories.Active(), s.search)
}

// View is an immutable snapshot of the table for rendering.
type View struct {
	SessionID  string
	Page       string
	Table      string
	Rows       []*Row
	Total      decimal.Decimal
	TotalClass string
	Info       PaginationInfo
	Pages      []PageLink
	Current    int
	PageCount  int
	Sort       map[Column]SortIndicator
	Categories []CategoryOption
	AllChecked bool
	Search     string
}

func (s *Session) view() View {
	sortState := make(map[Column]SortIndicator, len(Columns))
	for _, c := range Columns {
		sortState[c] = s.engine.SortIndicator(c)
	}
	return View{
		SessionID:  s.ID,
		Page:       s.Page,
		Table:      s.Table,
		Rows:       append([]*Row(nil), s.engine.Visible()...),
		Total:      s.engine.Total(),
		TotalClass: s.engine.TotalClass(),
		Info:       s.engine.Info(),
		Pages:      s.engine.Pages(),
		Current:    s.engine.CurrentPage(),
		PageCount:  s.engine.PageCount(),
		Sort:       sortState,
		Categories: s.categories.Options(),
		AllChecked: s.categories.AllChecked(),
		Search:     s.search,
	}
}
