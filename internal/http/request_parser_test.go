package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestParseFilterParams(t *testing.T) {
	tests := []struct {
		name           string
		form           url.Values
		wantCategories []string
		wantSearch     string
	}{
		{
			name:       "search only",
			form:       url.Values{"search": {"  lidl "}},
			wantSearch: "lidl",
		},
		{
			name:           "categories submitted",
			form:           url.Values{"categories_submitted": {"1"}, "category": {"Food", " Rent", ""}},
			wantCategories: []string{"Food", "Rent", ""},
		},
		{
			name:           "nothing checked",
			form:           url.Values{"categories_submitted": {"1"}},
			wantCategories: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseFilterParams(formRequest(tt.form))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Search != tt.wantSearch {
				t.Errorf("Search = %q, want %q", p.Search, tt.wantSearch)
			}
			if (p.Categories == nil) != (tt.wantCategories == nil) {
				t.Fatalf("Categories = %#v, want %#v", p.Categories, tt.wantCategories)
			}
			if strings.Join(p.Categories, ",") != strings.Join(tt.wantCategories, ",") {
				t.Errorf("Categories = %v, want %v", p.Categories, tt.wantCategories)
			}
		})
	}
}

func TestParseCategoryToggle(t *testing.T) {
	name, checked, err := ParseCategoryToggle(formRequest(url.Values{"category": {" "}, "checked": {"true"}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "" || !checked {
		t.Errorf("got %q %v, want blank category checked", name, checked)
	}

	name, checked, err = ParseCategoryToggle(formRequest(url.Values{"category": {"toggle-all"}}))
	if err != nil || name != "toggle-all" || checked {
		t.Errorf("got %q %v %v", name, checked, err)
	}

	if _, _, err := ParseCategoryToggle(formRequest(url.Values{"checked": {"on"}})); err == nil {
		t.Error("expected an error without a category field")
	}
}

func TestParseChecked(t *testing.T) {
	for value, want := range map[string]bool{"on": true, "true": true, "1": true, "false": false, "": false, "yes": false} {
		if got := ParseChecked(formRequest(url.Values{"checked": {value}})); got != want {
			t.Errorf("ParseChecked(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestParsePageNumber(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/?n=3", nil)
	if n, ok := ParsePageNumber(r); !ok || n != 3 {
		t.Errorf("got %d %v", n, ok)
	}
	r = httptest.NewRequest(http.MethodPost, "/?n=x", nil)
	if _, ok := ParsePageNumber(r); ok {
		t.Error("expected failure")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput(" a\x00b\tc "); got != "ab\tc" {
		t.Errorf("sanitizeInput = %q", got)
	}
}
