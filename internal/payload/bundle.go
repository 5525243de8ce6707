// Package payload provides the pre-built page documents. A document is a
// bundle of JSON blobs keyed by the element identifier the page reads,
// such as "expense-labels" or "transactions".
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrMissing is returned when a bundle has no blob under an identifier.
	ErrMissing = errors.New("payload missing")
	// ErrMalformedPayload is returned when a blob does not decode into the
	// shape its consumer expects.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnknownPage is returned for a page with no document.
	ErrUnknownPage = errors.New("unknown page")
)

// Bundle is one page document.
type Bundle map[string]json.RawMessage

// Has reports whether id is present and not JSON null.
func (b Bundle) Has(id string) bool {
	raw, ok := b[id]
	return ok && len(raw) > 0 && string(raw) != "null"
}

// Decode unmarshals the blob under id into v.
func (b Bundle) Decode(id string, v any) error {
	if !b.Has(id) {
		return fmt.Errorf("%w: %s", ErrMissing, id)
	}
	if err := json.Unmarshal(b[id], v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedPayload, id, err)
	}
	return nil
}

// IDs returns the identifiers in the bundle, sorted.
func (b Bundle) IDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Raw returns the blob under id, for embedding verbatim in a page.
func (b Bundle) Raw(id string) (json.RawMessage, bool) {
	if !b.Has(id) {
		return nil, false
	}
	return b[id], true
}
