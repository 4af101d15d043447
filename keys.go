package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// primaryKeyClause builds the PRIMARY KEY table element for table. ok is
// false when no index entry is flagged as primary key.
func primaryKeyClause(ctx context.Context, cat Catalog, table string) (clause string, ok bool, err error) {
	entries, err := cat.IndexColumns(ctx, table)
	if err != nil {
		return "", false, fmt.Errorf("index columns for %s: %w", table, err)
	}

	// Deduplicated, in discovery order.
	var cols []string
	for _, e := range entries {
		if e.PrimaryKey && !slices.Contains(cols, e.Column) {
			cols = append(cols, e.Column)
		}
	}
	if len(cols) == 0 {
		return "", false, nil
	}
	return fmt.Sprintf("\tPRIMARY KEY (%s)", mysqlColumnList(cols)), true, nil
}

// foreignKeyClause builds one KEY + CONSTRAINT pair per foreign key row, in
// catalog order. Referential actions are always NO ACTION: the source's
// cascade rules are not read.
func foreignKeyClause(ctx context.Context, cat Catalog, table string) (clause string, ok bool, err error) {
	fks, err := cat.ForeignKeys(ctx, table)
	if err != nil {
		return "", false, fmt.Errorf("foreign keys for %s: %w", table, err)
	}
	if len(fks) == 0 {
		return "", false, nil
	}

	parts := make([]string, len(fks))
	for i, fk := range fks {
		parts[i] = fmt.Sprintf(
			"\tKEY %s (%s),\n\tCONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE NO ACTION ON UPDATE NO ACTION",
			mysqlIdent(fk.Name), mysqlIdent(fk.Column),
			mysqlIdent(fk.Name), mysqlIdent(fk.Column),
			mysqlIdent(fk.RefTable), mysqlIdent(fk.RefColumn),
		)
	}
	return strings.Join(parts, ",\n"), true, nil
}
