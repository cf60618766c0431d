// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewPageExists(t *testing.T) {
	t.Run("missing page", func(t *testing.T) {
		dto := NewPageExists(nil)
		if dto.Exists {
			t.Error("exists should be false")
		}
		if dto.PageID != nil {
			t.Errorf("pageId should be nil, got %v", dto.PageID)
		}

		got, err := json.Marshal(dto)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(got) != `{"exists":false,"pageId":null}` {
			t.Errorf("json: got %s", got)
		}
	})

	t.Run("existing page", func(t *testing.T) {
		id := uuid.MustParse("2f1d3c5e-7a9b-4c0d-8e1f-203040506070")
		dto := NewPageExists(&Page{ID: id, Title: "About", URL: "/about"})
		if !dto.Exists {
			t.Error("exists should be true")
		}
		if dto.PageID == nil || *dto.PageID != id {
			t.Fatalf("pageId: got %v, want %s", dto.PageID, id)
		}

		got, err := json.Marshal(dto)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"exists":true,"pageId":"2f1d3c5e-7a9b-4c0d-8e1f-203040506070"}`
		if string(got) != want {
			t.Errorf("json: got %s, want %s", got, want)
		}
	})
}

func TestPageExistsXML(t *testing.T) {
	id := uuid.MustParse("2f1d3c5e-7a9b-4c0d-8e1f-203040506070")

	got, err := xml.Marshal(NewPageExists(&Page{ID: id}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := "<pageExists><exists>true</exists><pageId>2f1d3c5e-7a9b-4c0d-8e1f-203040506070</pageId></pageExists>"
	if string(got) != want {
		t.Errorf("xml: got %s, want %s", got, want)
	}

	got, err = xml.Marshal(NewPageExists(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(got), "pageId") {
		t.Errorf("missing page should omit pageId, got %s", got)
	}
}

func TestPageIsPublished(t *testing.T) {
	if (&Page{Status: PageStatusDraft}).IsPublished() {
		t.Error("draft should not be published")
	}
	if !(&Page{Status: PageStatusPublished}).IsPublished() {
		t.Error("published should be published")
	}
}
