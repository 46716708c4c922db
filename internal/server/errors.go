// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/entry"
	"github.com/gogpu/ink/export"
	"github.com/gogpu/ink/store"
)

// errNoOwner is returned when a request carries no owner.
var errNoOwner = errors.New("server: request has no owner")

// badRequest marks err as the client's fault.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	var bad badRequest
	switch {
	case errors.Is(err, errNoOwner), errors.Is(err, entry.ErrNoOwner):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, ink.ErrPageOutOfRange),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusNotFound
	case errors.As(err, &bad),
		errors.Is(err, entry.ErrNoContent),
		errors.Is(err, entry.ErrNoStrokes),
		errors.Is(err, entry.ErrInvalidID),
		errors.Is(err, entry.ErrDateFormat),
		errors.Is(err, entry.ErrDateRange),
		errors.Is(err, ink.ErrEmptyStroke),
		errors.Is(err, ink.ErrPageGap):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as {"error": ...}. Server errors are logged and
// their text is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		ink.Logger().Error("server: request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
