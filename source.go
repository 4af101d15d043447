package main

import (
	"context"
	"iter"
)

// Catalog abstracts the source database so the emitters never touch a
// connection directly. Every call runs a fresh query; no iteration state is
// shared between calls.
type Catalog interface {
	// Tables lists the user tables in enumeration order.
	Tables(ctx context.Context) ([]string, error)

	// Columns lists a table's columns in catalog order. A view or synonym
	// that appears in Tables may return no columns.
	Columns(ctx context.Context, table string) ([]Column, error)

	// IndexColumns lists every index key column of a table.
	IndexColumns(ctx context.Context, table string) ([]IndexColumn, error)

	// ForeignKeys lists the foreign key rows owned by a table.
	ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error)

	// Rows projects columns from table. The sequence is lazy and finite;
	// ranging over it again re-runs the query. A query failure is yielded
	// as the final (nil, err) pair.
	Rows(ctx context.Context, table string, columns []string) iter.Seq2[[]Value, error]
}
