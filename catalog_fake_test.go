package main

import (
	"context"
	"errors"
	"iter"
)

var errCatalog = errors.New("catalog unavailable")

// fakeCatalog serves canned catalog rows and records every call.
type fakeCatalog struct {
	tables  []string
	columns map[string][]Column
	indexes map[string][]IndexColumn
	fks     map[string][]ForeignKey
	rows    map[string][][]Value

	failTable string              // every query about this table fails
	selects   map[string][]string // projected columns per Rows call
	calls     []string
}

func (f *fakeCatalog) Tables(context.Context) ([]string, error) {
	f.calls = append(f.calls, "tables")
	return f.tables, nil
}

func (f *fakeCatalog) Columns(_ context.Context, table string) ([]Column, error) {
	f.calls = append(f.calls, "columns "+table)
	if table == f.failTable {
		return nil, errCatalog
	}
	return f.columns[table], nil
}

func (f *fakeCatalog) IndexColumns(_ context.Context, table string) ([]IndexColumn, error) {
	f.calls = append(f.calls, "indexes "+table)
	return f.indexes[table], nil
}

func (f *fakeCatalog) ForeignKeys(_ context.Context, table string) ([]ForeignKey, error) {
	f.calls = append(f.calls, "fkeys "+table)
	return f.fks[table], nil
}

func (f *fakeCatalog) Rows(_ context.Context, table string, columns []string) iter.Seq2[[]Value, error] {
	return func(yield func([]Value, error) bool) {
		f.calls = append(f.calls, "rows "+table)
		if f.selects == nil {
			f.selects = make(map[string][]string)
		}
		f.selects[table] = columns
		for _, r := range f.rows[table] {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (f *fakeCatalog) called(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func intPtr(n int) *int { return &n }
