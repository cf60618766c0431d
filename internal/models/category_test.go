// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "testing"

func TestCategoryTreeIsAvailableFor(t *testing.T) {
	tree := &CategoryTree{AvailableFor: []string{"Pages", "Images"}}

	tests := []struct {
		key  string
		want bool
	}{
		{"Pages", true},
		{"Images", true},
		{"Files", false},
		{"pages", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := tree.IsAvailableFor(tt.key); got != tt.want {
				t.Errorf("IsAvailableFor(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestSiteSettingsBool(t *testing.T) {
	s := SiteSettings{
		"on":    "true",
		"off":   "0",
		"empty": "",
		"bad":   "maybe",
	}

	tests := []struct {
		key      string
		fallback bool
		want     bool
	}{
		{"on", false, true},
		{"off", true, false},
		{"empty", true, true},
		{"bad", true, true},
		{"missing", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := s.Bool(tt.key, tt.fallback); got != tt.want {
				t.Errorf("Bool(%q, %v) = %v, want %v", tt.key, tt.fallback, got, tt.want)
			}
		})
	}
}
