// Package pages wires each dashboard page to its payload: it decodes the
// page's blobs, builds the charts through the chart factory and opens the
// table sessions the page renders.
package pages

import (
	"errors"
	"fmt"
	"time"

	"finorbit/internal/chart"
	"finorbit/internal/format"
	"finorbit/internal/log"
	"finorbit/internal/payload"
	"finorbit/internal/table"
)

var ErrUnknownPage = errors.New("unknown page")

// Names of the page modules; also the payload document names.
const (
	PageHome           = "home"
	PageSummary        = "summary"
	PageInvestments    = "investments"
	PageHoldingsReport = "holdings-report"
	PageFinanceReport  = "finance-report"
)

// TableOpener creates the table session a page renders.
type TableOpener interface {
	Open(page, tableID string, rows []*table.Row, opts ...table.Option) *table.Session
}

// Env is everything a module needs to build one page render.
type Env struct {
	Bundle payload.Bundle
	Charts *chart.Factory
	Format *format.Formatter
	// Focus is a legend label to pre-highlight, from the ?focus= parameter.
	Focus  string
	Tables TableOpener
	Logger *log.Logger
	Now    func() time.Time
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Page is one built page, ready for its template.
type Page struct {
	Name     string
	Title    string
	Path     string
	Template string
	// Charts are keyed by chart ID. Skipped widgets are absent.
	Charts map[string]chart.Renderer
	Data   any
}

func (p *Page) addChart(r chart.Renderer) {
	if p.Charts == nil {
		p.Charts = make(map[string]chart.Renderer)
	}
	p.Charts[r.ChartID()] = r
}

// Module builds one page.
type Module interface {
	Name() string
	Title() string
	Path() string
	Build(env Env) (*Page, error)
}

// TableSource is implemented by modules that render a table session; it
// rebuilds the rows of an expired session from env.Bundle, formatting the
// search text with env.Format like the first render did.
type TableSource interface {
	TableRows(env Env, tableID string) ([]*table.Row, []table.Option, error)
}

func newPage(m Module) *Page {
	return &Page{
		Name:     m.Name(),
		Title:    m.Title(),
		Path:     m.Path(),
		Template: m.Name() + "_page",
	}
}

// Registry looks modules up by name and path.
type Registry struct {
	modules []Module
	byName  map[string]Module
	byPath  map[string]Module
}

func NewRegistry(modules ...Module) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]Module, len(modules)),
		byPath: make(map[string]Module, len(modules)),
	}
	for _, m := range modules {
		if _, dup := r.byName[m.Name()]; dup {
			return nil, fmt.Errorf("duplicate page %q", m.Name())
		}
		if _, dup := r.byPath[m.Path()]; dup {
			return nil, fmt.Errorf("duplicate page path %q", m.Path())
		}
		r.byName[m.Name()] = m
		r.byPath[m.Path()] = m
		r.modules = append(r.modules, m)
	}
	return r, nil
}

// Default registers every dashboard page.
func Default() *Registry {
	r, err := NewRegistry(Home{}, Summary{}, Investments{}, FinanceReport{}, HoldingsReport{})
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(name string) (Module, error) {
	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	return m, nil
}

func (r *Registry) ByPath(path string) (Module, bool) {
	m, ok := r.byPath[path]
	return m, ok
}

// Modules returns the modules in navigation order.
func (r *Registry) Modules() []Module {
	return r.modules
}

// decode reads an optional blob. A missing blob reports false with no
// error; a malformed one is an error.
func decode(b payload.Bundle, id string, v any) (bool, error) {
	err := b.Decode(id, v)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, payload.ErrMissing):
		return false, nil
	default:
		return false, err
	}
}

// decodePair reads two blobs that only make sense together, such as the
// labels and values of a chart. Either one missing skips both.
func decodePair(b payload.Bundle, firstID string, first any, secondID string, second any) (bool, error) {
	if !b.Has(firstID) || !b.Has(secondID) {
		return false, nil
	}
	if err := b.Decode(firstID, first); err != nil {
		return false, err
	}
	if err := b.Decode(secondID, second); err != nil {
		return false, err
	}
	return true, nil
}

// donut builds a donut from a labels/values blob pair and applies the
// page focus. Returns nil when the pair is absent.
func donut(env Env, target chart.DonutTarget, labelsID, valuesID string, colors []string) (*chart.Donut, error) {
	var (
		labels []string
		values []float64
	)
	ok, err := decodePair(env.Bundle, labelsID, &labels, valuesID, &values)
	if err != nil || !ok {
		return nil, err
	}
	d, err := env.Charts.NewDonut(target, labels, values, colors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payload.ErrMalformedPayload, err)
	}
	if d != nil && env.Focus != "" {
		d.Focus(env.Focus)
	}
	return d, nil
}

// stackedBar builds the bar-labels/bar-datasets chart shared by the
// investments and holdings pages.
func stackedBar(env Env, target chart.CanvasTarget) (*chart.StackedBar, error) {
	var (
		labels   []string
		datasets []chart.Dataset
	)
	ok, err := decodePair(env.Bundle, "bar-labels", &labels, "bar-datasets", &datasets)
	if err != nil || !ok {
		return nil, err
	}
	return env.Charts.NewStackedBar(target, labels, datasets)
}
