package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finorbit/internal/table"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		Body([]byte("test")).
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if got := w.Header().Get("HX-Trigger"); got != "" {
		t.Errorf("unexpected HX-Trigger %q", got)
	}
}

func TestHTMXResponseBuilder_TableUpdated(t *testing.T) {
	rows := make([]*table.Row, 12)
	for i := range rows {
		rows[i] = &table.Row{ID: "r", Category: "A"}
	}
	view := table.NewSession("abc", "summary", rows).View()

	w := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerTableUpdated(view).
		TriggerSessionRestored().
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	for _, part := range []string{
		`"table:updated"`,
		`"session":"abc"`,
		`"pages":2`,
		`"rows":12`,
		`"total":"0.00"`,
		`"show-notification"`,
		`"type":"info"`,
	} {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestErrorResponse_EscapesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	BadRequestError(`<script>alert("x")</script>`).Write(w)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "<script>") {
		t.Errorf("message not escaped: %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}
