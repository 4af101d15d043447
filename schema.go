package main

import "strings"

// mysqlIdent quotes a MySQL identifier with backticks.
func mysqlIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// mssqlIdent quotes a SQL Server identifier with brackets.
func mssqlIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// mysqlColumnList joins column names as a backtick-quoted, comma separated list.
func mysqlColumnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = mysqlIdent(c)
	}
	return strings.Join(quoted, ",")
}

func mssqlColumnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = mssqlIdent(c)
	}
	return strings.Join(quoted, ",")
}
