package main

import "fmt"

// unmappedColumn is a column written with the NOTFOUND placeholder.
type unmappedColumn struct {
	Table    string
	Column   string
	TypeName string
}

func unmappedTypeWarnings(cols []unmappedColumn) []string {
	var warnings []string
	for _, c := range cols {
		warnings = append(warnings, fmt.Sprintf("%s.%s (%s): no MySQL mapping, emitted as %s", c.Table, c.Column, c.TypeName, unmappedType))
	}
	return warnings
}
