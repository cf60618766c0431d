// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaType discriminates rows of the media table.
type MediaType string

const (
	MediaTypeFile  MediaType = "file"
	MediaTypeImage MediaType = "image"
)

// MediaTypeFor returns the media type stored for a MIME content type.
func MediaTypeFor(contentType string) MediaType {
	if strings.HasPrefix(contentType, "image/") {
		return MediaTypeImage
	}
	return MediaTypeFile
}

// Media represents a file uploaded to S3-compatible object storage.
// Metadata is stored in PostgreSQL; the file itself lives in the bucket.
// Deleting media sets DeletedAt; the object is moved to the trash prefix
// later and TrashedAt records when.
type Media struct {
	ID           uuid.UUID  `json:"id"`
	Type         MediaType  `json:"type"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"original_name"`
	ContentType  string     `json:"content_type"`
	SizeBytes    int64      `json:"size_bytes"`
	Bucket       string     `json:"bucket"`
	S3Key        string     `json:"s3_key"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	TrashedAt    *time.Time `json:"trashed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsImage returns true if the media item is an image type.
func (m *Media) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

// IsDeleted returns true once the media record has been deleted.
func (m *Media) IsDeleted() bool {
	return m.DeletedAt != nil
}

// HumanSize returns a human-readable file size string.
func (m *Media) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.SizeBytes)/float64(mb))
	case m.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.SizeBytes)
	}
}
