package main

import "strings"

// Column represents a single column row from sp_columns.
type Column struct {
	Name      string
	TypeName  string // e.g. "nvarchar", "int identity"
	Size      int    // LENGTH, in bytes
	Precision int
	Scale     *int // nil for non-decimal types
	Nullable  bool
}

// IndexColumn is one sp_indexes_rowset entry: an index key column and
// whether the index is the primary key.
type IndexColumn struct {
	Column     string
	PrimaryKey bool
}

// ForeignKey is one sp_fkeys row. Composite keys arrive as several rows
// sharing a Name.
type ForeignKey struct {
	Name      string
	Column    string
	RefTable  string
	RefColumn string
}

// excludedColumnPrefix marks retired columns that are left out of the dump.
const excludedColumnPrefix = "old"

func keepColumn(name string) bool {
	return !strings.HasPrefix(name, excludedColumnPrefix)
}

// keptColumns returns the columns that take part in the dump, in catalog order.
func keptColumns(cols []Column) []Column {
	var out []Column
	for _, c := range cols {
		if keepColumn(c.Name) {
			out = append(out, c)
		}
	}
	return out
}
