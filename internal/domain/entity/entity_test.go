package entity

import "testing"

func TestNewRecord_RequiresURN(t *testing.T) {
	if _, err := NewRecord(""); err == nil {
		t.Fatal("expected error for empty urn")
	}
	rec, err := NewRecord("urn:li:dataset:orders")
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if rec.URN != "urn:li:dataset:orders" {
		t.Errorf("urn = %q", rec.URN)
	}
}

func TestRecord_AddTagsDeduplicates(t *testing.T) {
	rec := &Record{URN: "urn:li:dataset:orders"}

	if n := rec.AddTags("pii", "gold"); n != 2 {
		t.Errorf("added = %d, expected 2", n)
	}
	if n := rec.AddTags("pii", "silver", ""); n != 1 {
		t.Errorf("added = %d, expected 1", n)
	}
	if len(rec.Tags) != 3 {
		t.Errorf("tags = %v", rec.Tags)
	}
}

func TestRecord_RemoveTag(t *testing.T) {
	rec := &Record{URN: "u", Tags: []string{"a", "b"}}

	if !rec.RemoveTag("a") {
		t.Error("expected removal of present tag")
	}
	if rec.RemoveTag("missing") {
		t.Error("expected false for absent tag")
	}
	if len(rec.Tags) != 1 || rec.Tags[0] != "b" {
		t.Errorf("tags = %v", rec.Tags)
	}
}

func TestRecord_GlossaryTerms(t *testing.T) {
	rec := &Record{URN: "u"}

	rec.AddGlossaryTerms("urn:li:glossaryTerm:Revenue")
	if !rec.RemoveGlossaryTerm("urn:li:glossaryTerm:Revenue") {
		t.Error("expected removal")
	}
	if rec.RemoveGlossaryTerm("urn:li:glossaryTerm:Revenue") {
		t.Error("expected false on second removal")
	}
}

func TestRecord_DomainAndDescription(t *testing.T) {
	rec := &Record{URN: "u"}

	rec.SetDomain("urn:li:domain:finance")
	if rec.Domain != "urn:li:domain:finance" {
		t.Errorf("domain = %q", rec.Domain)
	}
	rec.UnsetDomain()
	if rec.Domain != "" {
		t.Errorf("domain not cleared: %q", rec.Domain)
	}

	rec.SetDescription("orders fact table")
	if rec.Description != "orders fact table" {
		t.Errorf("description = %q", rec.Description)
	}
}

func TestRecord_SetProperty(t *testing.T) {
	rec := &Record{URN: "u"}

	if err := rec.SetProperty("", []string{"x"}); err == nil {
		t.Error("expected error for empty property urn")
	}
	if err := rec.SetProperty("urn:li:structuredProperty:tier", nil); err == nil {
		t.Error("expected error for empty values")
	}

	if err := rec.SetProperty("urn:li:structuredProperty:tier", []string{"gold"}); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if err := rec.SetProperty("urn:li:structuredProperty:tier", []string{"silver"}); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	got := rec.Properties["urn:li:structuredProperty:tier"]
	if len(got) != 1 || got[0] != "silver" {
		t.Errorf("values = %v, expected replacement", got)
	}
}
