package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/report"
	"github.com/robinvdvleuten/bookkeeper/store"
)

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorsResponse lists the validation problems of a rejected write.
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

// writeError maps err to a status code: bad input is 400, missing records
// 404, rejected records 422 and unreachable storage 503.
func writeError(w http.ResponseWriter, err error) {
	var (
		rangeErr      *ledger.InvalidDateRangeError
		categoryErr   *report.UnknownCategoryError
		validationErr *ledger.ValidationErrors
		storageErr    *ledger.StorageUnavailableError
		badRequest    *badRequestError
	)

	switch {
	case errors.As(err, &rangeErr), errors.As(err, &categoryErr), errors.As(err, &badRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &validationErr):
		msgs := make([]string, len(validationErr.Errors))
		for i, e := range validationErr.Errors {
			msgs[i] = e.Error()
		}
		writeJSONStatus(w, http.StatusUnprocessableEntity, &ErrorsResponse{Errors: msgs})
	case errors.As(err, &storageErr):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// dateParam parses an optional YYYY-MM-DD query parameter. Missing values
// yield fallback.
func dateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, nil
	}
	d, err := ledger.ParseDate(value)
	if err != nil {
		return time.Time{}, &badRequestError{msg: "invalid " + name + " format (expected YYYY-MM-DD): " + value}
	}
	return d, nil
}

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string {
	return e.msg
}

func today() time.Time {
	return ledger.StartOfDay(time.Now())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}
