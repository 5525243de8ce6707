package table

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RowsPerPage is the transaction table page size.
const RowsPerPage = 10

// Engine holds the table state: every row in payload order, the filtered
// and sorted subset, the current page and the sort column. It is not safe
// for concurrent use; Session serializes access.
type Engine struct {
	all      []*Row
	filtered []*Row
	page     int
	perPage  int

	sortColumn Column
	ascending  bool

	collator *collate.Collator
	fold     cases.Caser
}

// Option configures an Engine.
type Option func(*Engine)

// WithRowsPerPage overrides the page size.
func WithRowsPerPage(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.perPage = n
		}
	}
}

// WithLanguage sets the collation used by the category column.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) {
		e.collator = collate.New(tag, collate.IgnoreCase)
	}
}

// New initializes the engine: every row visible in input order, page 1,
// no sort.
func New(rows []*Row, opts ...Option) *Engine {
	e := &Engine{
		all:      rows,
		filtered: slices.Clone(rows),
		page:     1,
		perPage:  RowsPerPage,
		collator: collate.New(language.German, collate.IgnoreCase),
		fold:     cases.Fold(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sort sorts by column. Sorting the current column again flips the
// direction; a new column starts ascending. Returns to page 1.
func (e *Engine) Sort(column Column) error {
	if _, err := ParseColumn(string(column)); err != nil {
		return err
	}
	if e.sortColumn == column {
		e.ascending = !e.ascending
	} else {
		e.sortColumn = column
		e.ascending = true
	}
	e.applySort()
	e.page = 1
	return nil
}

// Filter keeps the rows whose category is in active and whose text
// contains search, case-insensitively. An active sort is reapplied with its
// current direction. Returns to page 1.
func (e *Engine) Filter(active []string, search string) {
	allowed := make(map[string]struct{}, len(active))
	for _, c := range active {
		allowed[strings.TrimSpace(c)] = struct{}{}
	}
	term := e.fold.String(strings.TrimSpace(search))

	e.filtered = e.filtered[:0]
	for _, r := range e.all {
		if _, ok := allowed[strings.TrimSpace(r.Category)]; !ok {
			continue
		}
		if term != "" && !strings.Contains(e.fold.String(r.Text), term) {
			continue
		}
		e.filtered = append(e.filtered, r)
	}
	if e.sortColumn != "" {
		e.applySort()
	}
	e.page = 1
}

// ChangePage moves to page n, clamped into [1, PageCount()], and returns
// the page actually shown.
func (e *Engine) ChangePage(n int) int {
	last := max(e.PageCount(), 1)
	e.page = min(max(n, 1), last)
	return e.page
}

func (e *Engine) applySort() {
	cmp := e.comparator(e.sortColumn)
	if !e.ascending {
		asc := cmp
		cmp = func(a, b *Row) int { return asc(b, a) }
	}
	slices.SortStableFunc(e.filtered, cmp)
}

func (e *Engine) comparator(column Column) func(a, b *Row) int {
	switch column {
	case ColumnDate:
		return func(a, b *Row) int { return a.Date.Compare(b.Date) }
	case ColumnAmount:
		return func(a, b *Row) int { return a.Amount.Cmp(b.Amount) }
	default:
		return func(a, b *Row) int { return e.collator.CompareString(a.Category, b.Category) }
	}
}

// PageCount is ceil(len(filtered) / page size).
func (e *Engine) PageCount() int {
	return (len(e.filtered) + e.perPage - 1) / e.perPage
}

func (e *Engine) CurrentPage() int {
	return e.page
}

func (e *Engine) RowsPerPage() int {
	return e.perPage
}

// All returns every row in payload order.
func (e *Engine) All() []*Row {
	return e.all
}

// Filtered returns the filtered rows in display order.
func (e *Engine) Filtered() []*Row {
	return e.filtered
}

// Visible returns the rows of the current page in display order.
func (e *Engine) Visible() []*Row {
	start, end := e.bounds()
	return e.filtered[start:end]
}

func (e *Engine) bounds() (int, int) {
	start := min((e.page-1)*e.perPage, len(e.filtered))
	end := min(start+e.perPage, len(e.filtered))
	return start, end
}

// Total sums the amount of every filtered row, not only the visible page.
func (e *Engine) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range e.filtered {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// TotalClass is the CSS class of the total cell.
func (e *Engine) TotalClass() string {
	if e.Total().IsNegative() {
		return "text-danger"
	}
	return "text-success"
}

// SortState returns the sort column ("" when unsorted) and direction.
func (e *Engine) SortState() (Column, bool) {
	return e.sortColumn, e.ascending
}

func (e *Engine) SortIndicator(column Column) SortIndicator {
	switch {
	case e.sortColumn != column:
		return SortNone
	case e.ascending:
		return SortAsc
	default:
		return SortDesc
	}
}

// PaginationInfo is the "Showing X to Y of Z" line.
type PaginationInfo struct {
	From  int
	To    int
	Total int
}

func (p PaginationInfo) String() string {
	return fmt.Sprintf("Showing %d to %d of %d", p.From, p.To, p.Total)
}

func (e *Engine) Info() PaginationInfo {
	start, end := e.bounds()
	info := PaginationInfo{To: end, Total: len(e.filtered)}
	if info.Total > 0 {
		info.From = start + 1
	}
	return info
}

// PageLink is one pagination control.
type PageLink struct {
	Number int
	Active bool
}

// Pages returns the pagination controls; none for a single page.
func (e *Engine) Pages() []PageLink {
	n := e.PageCount()
	if n <= 1 {
		return nil
	}
	links := make([]PageLink, n)
	for i := range links {
		links[i] = PageLink{Number: i + 1, Active: i+1 == e.page}
	}
	return links
}
