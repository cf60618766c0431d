// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"taxocms/internal/category"
	"taxocms/internal/media"
	"taxocms/internal/models"
)

// maxUploadSize is the maximum allowed file upload size (50 MB).
const maxUploadSize = 50 << 20

// allowedMediaTypes defines MIME types accepted for upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
	"application/zip": true,
	"text/plain":      true,
	"text/csv":        true,
}

// Media serves media uploads, deletions and categories.
type Media struct {
	svc *media.Service
}

// NewMedia creates the Media handler group.
func NewMedia(svc *media.Service) *Media {
	return &Media{svc: svc}
}

type mediaResponse struct {
	*models.Media
	URL string `json:"url,omitempty"`
}

// Upload handles a multipart file upload. The content type is sniffed
// from the file rather than trusted from the client.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Available() {
		writeError(w, r, media.ErrServiceUnavailable)
		return
	}

	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large. Maximum size is 50 MB."})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, invalid("No file provided."))
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large. Maximum size is 50 MB."})
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	contentType := sniffContentType(header.Filename, sniffBuf[:n])
	if !allowedMediaTypes[contentType] {
		writeError(w, r, invalid(fmt.Sprintf("File type %q is not allowed.", contentType)))
		return
	}

	// Seek back to start after sniffing.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, r, fmt.Errorf("rewind upload: %w", err))
		return
	}

	m, err := h.svc.Upload(r.Context(), media.Upload{
		OriginalName: header.Filename,
		ContentType:  contentType,
		Body:         file,
		Size:         header.Size,
		Private:      r.FormValue("bucket") == "private",
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.withURL(r, m))
}

// sniffContentType detects the MIME type of an upload without parameters.
func sniffContentType(filename string, head []byte) string {
	contentType, _, _ := strings.Cut(http.DetectContentType(head), ";")
	contentType = strings.TrimSpace(contentType)

	// SVG detection: DetectContentType returns text/xml or text/plain for SVGs.
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".svg") &&
		(strings.Contains(contentType, "xml") || contentType == "text/plain") {
		return "image/svg+xml"
	}
	if strings.HasSuffix(lower, ".csv") && contentType == "text/plain" {
		return "text/csv"
	}
	return contentType
}

// Get returns a media record with a link to its object.
func (h *Media) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.svc.Find(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if m == nil {
		writeError(w, r, fmt.Errorf("media %s: %w", id, category.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, h.withURL(r, m))
}

// Delete marks a media record deleted. The object is moved to the trash in
// the background.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if m == nil {
		writeError(w, r, fmt.Errorf("media %s: %w", id, category.ErrNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetCategories replaces the categories of a media record.
func (h *Media) SetCategories(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req categoriesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ids, err := parseIDs(req.CategoryIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.SetCategories(r.Context(), id, ids); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withURL attaches a link to live media. Deleted media and missing
// storage leave the link empty.
func (h *Media) withURL(r *http.Request, m *models.Media) mediaResponse {
	resp := mediaResponse{Media: m}
	if m.IsDeleted() || !h.svc.Available() {
		return resp
	}
	url, err := h.svc.URL(r.Context(), m)
	if err != nil {
		slog.Warn("media url", "media_id", m.ID, "error", err)
		return resp
	}
	resp.URL = url
	return resp
}
