package transport

import (
	"net/http"
	"strconv"

	"catalog-api/internal/apperror"

	"github.com/go-chi/chi/v5"
)

// pathID parses the {id} URL parameter. Anything that is not a positive
// integer is reported as a missing identifier.
func pathID(r *http.Request, message string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidArgument(message)
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter
func queryID(r *http.Request, name, message string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperror.InvalidArgument(message)
	}
	return &id, nil
}
