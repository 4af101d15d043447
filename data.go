package main

import (
	"context"
	"fmt"
	"strings"
)

// tableData produces the INSERT statements for table's rows. It re-reads
// the column catalog so the projected columns match tableDDL exactly. An
// empty table yields an empty fragment.
func (e *emitter) tableData(ctx context.Context, table string) (string, error) {
	cols, err := e.cat.Columns(ctx, table)
	if err != nil {
		return "", fmt.Errorf("columns for %s: %w", table, err)
	}
	kept := keptColumns(cols)
	if len(kept) == 0 {
		return "", nil
	}
	names := make([]string, len(kept))
	for i, c := range kept {
		names[i] = c.Name
	}

	var b strings.Builder
	inBatch := 0
	for row, err := range e.cat.Rows(ctx, table, names) {
		if err != nil {
			return "", fmt.Errorf("select %s: %w", table, err)
		}
		switch {
		case b.Len() == 0:
			fmt.Fprintf(&b, "/*!40000 ALTER TABLE %s DISABLE KEYS */;\n", mysqlIdent(table))
			fmt.Fprintf(&b, "INSERT INTO %s VALUES\n", mysqlIdent(table))
		case e.rowsPerInsert > 0 && inBatch == e.rowsPerInsert:
			fmt.Fprintf(&b, ";\nINSERT INTO %s VALUES\n", mysqlIdent(table))
			inBatch = 0
		default:
			b.WriteString(",\n")
		}
		b.WriteString(rowTuple(row))
		inBatch++
	}
	if b.Len() == 0 {
		return "", nil
	}
	b.WriteString(";\n")
	fmt.Fprintf(&b, "/*!40000 ALTER TABLE %s ENABLE KEYS */;\n", mysqlIdent(table))
	return b.String(), nil
}

func rowTuple(row []Value) string {
	vals := make([]string, len(row))
	for i, v := range row {
		vals[i] = formatValue(v)
	}
	return "(" + strings.Join(vals, ",") + ")"
}
