package main

import "testing"

func TestUnmappedTypeWarnings(t *testing.T) {
	warnings := unmappedTypeWarnings([]unmappedColumn{
		{Table: "Users", Column: "Loc", TypeName: "geography"},
		{Table: "Docs", Column: "Body", TypeName: "xml"},
	})
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	if want := "Users.Loc (geography): no MySQL mapping, emitted as NOTFOUND"; warnings[0] != want {
		t.Errorf("warnings[0] = %q, want %q", warnings[0], want)
	}
	if want := "Docs.Body (xml): no MySQL mapping, emitted as NOTFOUND"; warnings[1] != want {
		t.Errorf("warnings[1] = %q, want %q", warnings[1], want)
	}
}

func TestUnmappedTypeWarnings_None(t *testing.T) {
	if w := unmappedTypeWarnings(nil); len(w) != 0 {
		t.Errorf("unmappedTypeWarnings(nil) = %v, want empty", w)
	}
}
