package main

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// emitter renders per-table DDL and INSERT fragments from a Catalog.
type emitter struct {
	cat Catalog

	// rowsPerInsert caps the rows in one INSERT statement; 0 means one
	// statement per table.
	rowsPerInsert int

	// unmapped collects every column written with the NOTFOUND placeholder.
	unmapped []unmappedColumn
}

func newEmitter(cat Catalog, rowsPerInsert int) *emitter {
	return &emitter{cat: cat, rowsPerInsert: rowsPerInsert}
}

// tableDDL produces DROP TABLE + CREATE TABLE for table. A table with no
// column catalog rows (views, synonyms) or with only excluded columns yields
// an empty fragment.
func (e *emitter) tableDDL(ctx context.Context, table string) (string, error) {
	cols, err := e.cat.Columns(ctx, table)
	if err != nil {
		return "", fmt.Errorf("columns for %s: %w", table, err)
	}
	if len(cols) == 0 {
		return "", nil
	}
	kept := keptColumns(cols)
	if len(kept) == 0 {
		log.Printf("  skipping %s: every column is excluded", table)
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DROP TABLE IF EXISTS %s;\n", mysqlIdent(table))
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", mysqlIdent(table))

	elems := make([]string, 0, len(cols)+2)
	for _, col := range kept {
		nullable := " NOT NULL"
		if col.Nullable {
			nullable = " NULL"
		}
		typ, ok := mapType(col)
		if !ok {
			e.unmapped = append(e.unmapped, unmappedColumn{Table: table, Column: col.Name, TypeName: col.TypeName})
		}
		elems = append(elems, fmt.Sprintf("\t%s %s %s", mysqlIdent(col.Name), typ, nullable))
	}

	pk, ok, err := primaryKeyClause(ctx, e.cat, table)
	if err != nil {
		return "", err
	}
	if ok {
		elems = append(elems, pk)
	}

	fk, ok, err := foreignKeyClause(ctx, e.cat, table)
	if err != nil {
		return "", err
	}
	if ok {
		elems = append(elems, fk)
	}

	b.WriteString(strings.Join(elems, ",\n"))
	b.WriteString("\n);")
	return b.String(), nil
}
