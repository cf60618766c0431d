// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tree name", "Product Catalog", "product-catalog"},
		{"category with year", "Events 2026", "events-2026"},
		{"ampersand dropped", "News & Events", "news-events"},
		{"punctuation dropped", "Hello, World!", "hello-world"},
		{"apostrophe joins", "Editor's Picks", "editors-picks"},
		{"plus signs dropped", "C++", "c"},
		{"existing hyphens kept", "e-commerce", "e-commerce"},
		{"hyphen runs collapsed", "a -- b", "a-b"},
		{"leading and trailing junk", "  --Go--  ", "go"},
		{"tabs become hyphens", "hello\tworld", "hello-world"},
		{"newlines become hyphens", "hello\nworld", "hello-world"},
		{"mixed whitespace collapsed", "a \t\n b", "a-b"},
		{"non-ascii letters dropped", "Café Menü", "caf-men"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
		{"digits only", "404", "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	for _, in := range []string{"Product Catalog", "News & Events", "a -- b", "Editor's Picks"} {
		once := Generate(in)
		if twice := Generate(once); twice != once {
			t.Errorf("Generate(Generate(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestGenerateTruncates(t *testing.T) {
	got := Generate(strings.Repeat("ab ", 150))
	if len(got) > MaxLen {
		t.Fatalf("length: got %d, want at most %d", len(got), MaxLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug ends with a hyphen: %q", got)
	}
	if !strings.HasPrefix(got, "ab-ab-") {
		t.Errorf("prefix: got %q", got[:10])
	}
}
