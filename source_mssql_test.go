package main

import (
	"database/sql"
	"slices"
	"testing"
)

func TestSQLServerDriverRegistered(t *testing.T) {
	if !slices.Contains(sql.Drivers(), "sqlserver") {
		t.Fatalf("sql.Drivers() = %v, want sqlserver registered", sql.Drivers())
	}
}

func TestNewMSSQLCatalog_DefaultOwner(t *testing.T) {
	if got := newMSSQLCatalog(nil, "").owner; got != defaultSourceOwner {
		t.Errorf("owner = %q, want %q", got, defaultSourceOwner)
	}
	if got := newMSSQLCatalog(nil, "sales").owner; got != "sales" {
		t.Errorf("owner = %q, want %q", got, "sales")
	}
}
