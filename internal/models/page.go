// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/xml"
	"time"

	"github.com/google/uuid"
)

// PageStatus represents the publishing state of a page.
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
)

// Page is a categorizable CMS page addressed by its URL.
type Page struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Status    PageStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsPublished returns true if the page is in published status.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// PageExists is the response of the page exists check. PageID is set if
// and only if Exists is true.
type PageExists struct {
	XMLName xml.Name   `json:"-" xml:"pageExists"`
	Exists  bool       `json:"exists" xml:"exists"`
	PageID  *uuid.UUID `json:"pageId" xml:"pageId,omitempty"`
}

// NewPageExists builds the exists-check response for a lookup result.
// A nil page means the page does not exist.
func NewPageExists(p *Page) PageExists {
	if p == nil {
		return PageExists{}
	}
	id := p.ID
	return PageExists{Exists: true, PageID: &id}
}
