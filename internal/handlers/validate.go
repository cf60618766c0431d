// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"taxocms/internal/models"
)

// Validation limits for request fields. They match the column sizes.
const (
	maxTreeNameLen     = 200
	maxTreeDescLen     = 2_000
	maxCategoryNameLen = 200
	maxItemKeyLen      = 100
	maxPageTitleLen    = 300
	maxPageURLLen      = 850
	maxCategoryIDs     = 500
)

// validateTree checks tree inputs and returns the first error found.
func validateTree(name, description string, availableFor []string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Tree name is required."
	}
	if utf8.RuneCountInString(name) > maxTreeNameLen {
		return "Tree name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(description) > maxTreeDescLen {
		return "Description is too long (max 2,000 characters)."
	}
	for _, key := range availableFor {
		if len(key) > maxItemKeyLen {
			return "Item key is too long (max 100 characters)."
		}
	}
	return ""
}

// validateCategoryName checks a category name.
func validateCategoryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Category name is required."
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "Category name is too long (max 200 characters)."
	}
	return ""
}

// validatePage checks page inputs and returns the first error found.
func validatePage(title, url string, status models.PageStatus) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxPageTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(url) == "" {
		return "URL is required."
	}
	if utf8.RuneCountInString(url) > maxPageURLLen {
		return "URL is too long (max 850 characters)."
	}
	switch status {
	case "", models.PageStatusDraft, models.PageStatusPublished:
	default:
		return "Status must be draft or published."
	}
	return ""
}

// validateCategoryIDs caps the size of a category assignment.
func validateCategoryIDs(ids []string) string {
	if len(ids) > maxCategoryIDs {
		return "Too many categories (max 500)."
	}
	return ""
}
