package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"finorbit/internal/log"
	"finorbit/internal/pages"
	"finorbit/internal/payload"
	"finorbit/internal/table"
)

var (
	errBadRequest      = errors.New("bad request")
	errBadSession      = errors.New("invalid table session")
	errBadPageNumber   = errors.New("page number must be an integer")
	errMissingCategory = errors.New("category field is required")
)

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// writeError maps a domain error to a status and an HTML fragment, and
// logs it on the request logger.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.FromContext(r.Context())
	fields := log.NewFields().WithError(err).WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery)

	switch {
	case errors.Is(err, pages.ErrUnknownPage), errors.Is(err, payload.ErrUnknownPage), errors.Is(err, payload.ErrMissing):
		logger.InfoContext(r.Context(), "not found", fields.ToSlice()...)
		NotFoundError("Not found.").Write(w)
	case errors.Is(err, table.ErrUnknownColumn), errors.Is(err, errBadSession), errors.Is(err, errBadRequest):
		logger.WarnContext(r.Context(), "bad table request", fields.ToSlice()...)
		BadRequestError(err.Error()).Write(w)
	case errors.Is(err, payload.ErrMalformedPayload):
		fields.WithErrorType(log.ErrorTypePayload)
		logger.ErrorContext(r.Context(), "malformed page data", fields.ToSlice()...)
		InternalServerError("The data for this page could not be read.").Write(w)
	default:
		fields.WithErrorType(log.ErrorTypeInternal)
		logger.ErrorContext(r.Context(), "request failed", fields.ToSlice()...)
		InternalServerError("Something went wrong.").Write(w)
	}
}

// writeHTML sends a fully rendered buffer. Rendering to a buffer first
// keeps a failed template from leaving half a page on the wire.
func writeHTML(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// validSessionID reports whether id looks like a session id we issued.
func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
