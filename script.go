package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
)

// scriptOptions is the resolved shape of one dump run.
type scriptOptions struct {
	Schema       string   // emits CREATE DATABASE + USE when set
	Charset      string   // default character set for CREATE DATABASE
	IgnoreTables []string // exact, case-sensitive names
	Table        string   // single-table, data-only mode when set
	WithData     bool
	Before       []string // statements inlined after the opening envelope
	After        []string // statements inlined before the closing envelope
}

// writeScript writes the whole MySQL script for the catalog behind e to w.
// Tables are processed strictly in enumeration order; the first catalog or
// query failure aborts the run and leaves w with whatever was written.
func writeScript(ctx context.Context, e *emitter, w io.Writer, opts scriptOptions) error {
	bw := bufio.NewWriter(w)

	if opts.Table != "" {
		// inserts only for the named table
		log.Printf("generating data: %s", opts.Table)
		fmt.Fprintln(bw, "SET FOREIGN_KEY_CHECKS=0;")
		writeStatements(bw, opts.Before)
		data, err := e.tableData(ctx, opts.Table)
		if err != nil {
			return err
		}
		fmt.Fprintln(bw, data)
		writeStatements(bw, opts.After)
		fmt.Fprintln(bw, "SET FOREIGN_KEY_CHECKS=1;")
		return bw.Flush()
	}

	if opts.Schema != "" {
		fmt.Fprintf(bw, "CREATE DATABASE IF NOT EXISTS %s /*!40100 DEFAULT CHARACTER SET %s */;\n", mysqlIdent(opts.Schema), opts.Charset)
		fmt.Fprintf(bw, "USE %s;\n\n", mysqlIdent(opts.Schema))
	}

	tables, err := e.cat.Tables(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	log.Printf("found %d tables", len(tables))

	fmt.Fprintln(bw, "SET FOREIGN_KEY_CHECKS=0;")
	writeStatements(bw, opts.Before)
	for _, t := range tables {
		if slices.Contains(opts.IgnoreTables, t) {
			log.Printf("skipping: %s", t)
			continue
		}

		log.Printf("generating: %s", t)
		ddl, err := e.tableDDL(ctx, t)
		if err != nil {
			return err
		}
		if ddl != "" {
			fmt.Fprintf(bw, "%s\n\n", ddl)
		}

		if !opts.WithData {
			continue
		}
		data, err := e.tableData(ctx, t)
		if err != nil {
			return err
		}
		if data != "" {
			fmt.Fprintln(bw, data)
		}
	}
	writeStatements(bw, opts.After)
	fmt.Fprintln(bw, "SET FOREIGN_KEY_CHECKS=1;")
	return bw.Flush()
}

func writeStatements(w io.Writer, stmts []string) {
	for _, s := range stmts {
		if endsInLineComment(s) {
			// A trailing -- or # comment would swallow the terminator.
			fmt.Fprintf(w, "%s\n;\n", s)
			continue
		}
		fmt.Fprintf(w, "%s;\n", s)
	}
	if len(stmts) > 0 {
		fmt.Fprintln(w)
	}
}

// endsInLineComment reports whether the last line of stmt may hold a line
// comment. A marker inside a literal also matches; the extra newline before
// the terminator is harmless there.
func endsInLineComment(stmt string) bool {
	last := stmt[strings.LastIndexByte(stmt, '\n')+1:]
	return strings.Contains(last, "--") || strings.Contains(last, "#")
}
