package http

import (
	"net/http"
	"strconv"
	"strings"

	"finorbit/internal/table"
)

// FilterParams is a submitted filter form.
type FilterParams struct {
	// Categories is nil when the form only carried the search box.
	Categories []string
	Search     string
}

// ParseFilterParams reads the category checkboxes and the search box. The
// category dropdown posts a categories_submitted marker so an empty
// selection can be told apart from a search-only submit.
func ParseFilterParams(r *http.Request) (FilterParams, error) {
	if err := r.ParseForm(); err != nil {
		return FilterParams{}, err
	}
	p := FilterParams{Search: sanitizeInput(r.Form.Get("search"))}
	if r.Form.Has("categories_submitted") {
		p.Categories = make([]string, 0, len(r.Form["category"]))
		for _, c := range r.Form["category"] {
			p.Categories = append(p.Categories, sanitizeInput(c))
		}
	}
	return p, nil
}

// ParseCategoryToggle reads a single category checkbox change. The
// category field must be present but may be blank.
func ParseCategoryToggle(r *http.Request) (string, bool, error) {
	if err := r.ParseForm(); err != nil {
		return "", false, err
	}
	if !r.Form.Has("category") {
		return "", false, errMissingCategory
	}
	return sanitizeInput(r.Form.Get("category")), ParseChecked(r), nil
}

// ParseChecked reads a checkbox state: "on", "true" or "1" mean checked,
// anything else (including absence) unchecked.
func ParseChecked(r *http.Request) bool {
	v := strings.TrimSpace(r.FormValue("checked"))
	if v == "on" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// ParsePageNumber reads the n parameter of a page change.
func ParsePageNumber(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue("n")))
	return n, err == nil
}

// ParseSortColumn reads the column parameter of a sort.
func ParseSortColumn(r *http.Request) (table.Column, error) {
	return table.ParseColumn(r.FormValue("column"))
}

// sanitizeInput trims whitespace and drops control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
