// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP JSON API: post listing, single post
// reads with password unlock, master-only mutations and the health check.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"nextblog/internal/models"
)

// maxBodyBytes bounds request bodies of write endpoints.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes data as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrWrongPassword):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSlugNotAvailable), errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrCategoryNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError answers with the status for err. Client errors echo
// the error text; server errors are logged and answered generically,
// except a partial delete which tells the master what happened.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status < 500 {
		writeError(w, status, err.Error())
		return
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	switch {
	case errors.Is(err, models.ErrPartialDelete):
		writeError(w, status, models.ErrPartialDelete.Error())
	case status == http.StatusServiceUnavailable:
		writeError(w, status, "store unavailable")
	default:
		writeError(w, status, "internal server error")
	}
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown keys.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
