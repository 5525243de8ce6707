package http

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"finorbit/internal/chart"
	"finorbit/internal/format"
	"finorbit/internal/table"
	appweb "finorbit/web"
)

// ParseTemplates parses the embedded templates with the dashboard funcs.
func ParseTemplates(f *format.Formatter) (*template.Template, error) {
	t, err := template.New("finorbit").Funcs(templateFuncs(f)).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func templateFuncs(f *format.Formatter) template.FuncMap {
	return template.FuncMap{
		"chartConfig":     chartConfig,
		"jsonAttr":        jsonAttr,
		"currency":        f.Currency,
		"currencyDecimal": f.CurrencyDecimal,
		"percent":         f.Percentage,
		"number":          f.Number,
		"date":            func(t time.Time) string { return t.Format(table.DateLayout) },
		"amountClass":     amountClass,
		"tableURL":        tableURL,
		"categoryVals":    categoryVals,
		"sortIcon":        sortIcon,
		"ariaSort":        ariaSort,
		"donutCard":       func(title string, d *chart.Donut) donutCardView { return donutCardView{title, d} },
		"canvasCard":      func(title string, r chart.Renderer) canvasCardView { return canvasCardView{title, r.ChartID()} },
	}
}

type donutCardView struct {
	Title string
	Donut *chart.Donut
}

type canvasCardView struct {
	Title   string
	ChartID string
}

// chartConfig embeds a chart configuration in a JSON script block.
// json.Marshal escapes <, > and &, so the output cannot close the block.
func chartConfig(r chart.Renderer) (template.JS, error) {
	b, err := chart.MarshalConfig(r)
	if err != nil {
		return "", fmt.Errorf("chart %s: %w", r.ChartID(), err)
	}
	return template.JS(b), nil
}

// jsonAttr renders v for a data-* attribute; the template escapes it.
func jsonAttr(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func amountClass(d decimal.Decimal) string {
	if d.IsNegative() {
		return "text-danger"
	}
	return "text-success"
}

// tableURL is the endpoint of a table event for the session in v.
func tableURL(v table.View, action string) string {
	return fmt.Sprintf("/ui/tables/%s/%s/%s/%s",
		url.PathEscape(v.Page), url.PathEscape(v.Table), url.PathEscape(v.SessionID), action)
}

// categoryVals is the hx-vals payload of a category checkbox: the name and
// the state the checkbox switches to.
func categoryVals(c table.CategoryOption) (string, error) {
	return jsonAttr(map[string]string{
		"category": c.Name,
		"checked":  strconv.FormatBool(!c.Checked),
	})
}

func sortIcon(state map[table.Column]table.SortIndicator, column string) string {
	switch state[table.Column(column)] {
	case table.SortAsc:
		return "bi-sort-up"
	case table.SortDesc:
		return "bi-sort-down"
	default:
		return "bi-arrow-down-up"
	}
}

func ariaSort(state map[table.Column]table.SortIndicator, column string) string {
	switch state[table.Column(column)] {
	case table.SortAsc:
		return "ascending"
	case table.SortDesc:
		return "descending"
	default:
		return "none"
	}
}
