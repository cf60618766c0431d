// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP API for category trees, pages and
// media. Responses are JSON; the page exists check and error bodies are
// also available as XML when the client asks for it.
package handlers

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taxocms/internal/category"
	"taxocms/internal/media"
	"taxocms/internal/pages"
)

// maxJSONBody caps request bodies of the JSON endpoints.
const maxJSONBody = 1 << 20

// errorResponse is the body of every failed request.
type errorResponse struct {
	XMLName xml.Name `json:"-" xml:"error"`
	Error   string   `json:"error" xml:"message"`
}

// wantsXML reports whether the client prefers an XML response.
func wantsXML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/xml") || strings.Contains(accept, "text/xml")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode json response", "error", err)
	}
}

// writeXML writes an XML document with the given status code.
func writeXML(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode xml response", "error", err)
	}
}

// writeNegotiated writes data as XML or JSON depending on the Accept header.
// data must be encodable by both encoders.
func writeNegotiated(w http.ResponseWriter, r *http.Request, status int, data any) {
	if wantsXML(r) {
		writeXML(w, status, data)
		return
	}
	writeJSON(w, status, data)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, category.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, category.ErrTreeInUse),
		errors.Is(err, category.ErrCategoryInUse),
		errors.Is(err, category.ErrDuplicateSlug),
		errors.Is(err, pages.ErrDuplicateURL):
		return http.StatusConflict
	case errors.Is(err, category.ErrUnknownAccessorKind),
		errors.Is(err, category.ErrInvalidInput),
		errors.Is(err, category.ErrCategoryNotAvailable),
		errors.Is(err, pages.ErrInvalidURL):
		return http.StatusUnprocessableEntity
	case errors.Is(err, media.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with its mapped status. Internal errors are logged
// and their details are not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeNegotiated(w, r, status, errorResponse{Error: msg})
}

// invalid wraps a validation message as ErrInvalidInput.
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", category.ErrInvalidInput, msg)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return invalid("malformed request body: " + err.Error())
	}
	return nil
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, invalid("invalid id")
	}
	return id, nil
}

// parseIDs parses a list of category ids.
func parseIDs(raw []string) ([]uuid.UUID, error) {
	if msg := validateCategoryIDs(raw); msg != "" {
		return nil, invalid(msg)
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, invalid(fmt.Sprintf("invalid category id %q", s))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// categoriesRequest is the body of the category assignment endpoints.
type categoriesRequest struct {
	CategoryIDs []string `json:"category_ids"`
}
