package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
)

// loadHookStatements reads each SQL file, expands {{schema}} and splits it
// into statements to be inlined into the script.
func loadHookStatements(cfg *DumpConfig, files []string, phase string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	log.Printf("  loading %s hooks (%d files)...", phase, len(files))

	var stmts []string
	for _, f := range files {
		path := cfg.resolvePath(f)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("hook %s: read %s: %w", phase, f, err)
		}

		sql := strings.ReplaceAll(string(data), "{{schema}}", cfg.Target.Schema)
		fileStmts := splitStatements(sql)
		log.Printf("    %s: %d statements", f, len(fileStmts))
		stmts = append(stmts, fileStmts...)
	}
	return stmts, nil
}

// execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execScript runs every statement of a MySQL script in order and stops at
// the first failure. It returns the number of statements that succeeded.
// SET and USE statements are session scoped, so exec should be one session.
func execScript(ctx context.Context, exec execer, script string) (int, error) {
	stmts := splitStatements(script)
	for i, stmt := range stmts {
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return i, fmt.Errorf("statement %d: %w\nSQL: %s", i+1, err, truncateSQL(stmt, 200))
		}
	}
	return len(stmts), nil
}

func truncateSQL(stmt string, n int) string {
	if len(stmt) <= n {
		return stmt
	}
	return stmt[:n] + "..."
}

// splitStatements splits MySQL text on semicolons, ignoring empty entries
// and semicolons inside quotes, backtick identifiers and comments.
func splitStatements(sql string) []string {
	var stmts []string
	var current strings.Builder
	var quote byte // one of ' " ` while inside a quoted run
	inLineComment := false
	inBlockComment := false

	for i := 0; i < len(sql); i++ {
		c := sql[i]

		// Inside -- or # line comment
		if inLineComment {
			current.WriteByte(c)
			if c == '\n' {
				inLineComment = false
			}
			continue
		}

		// Inside /* ... */ block comment (MySQL does not nest them)
		if inBlockComment {
			current.WriteByte(c)
			if c == '*' && i+1 < len(sql) && sql[i+1] == '/' {
				current.WriteByte(sql[i+1])
				i++
				inBlockComment = false
			}
			continue
		}

		if quote != 0 {
			current.WriteByte(c)
			switch {
			case c == '\\' && quote != '`' && i+1 < len(sql):
				// Backslash escape inside a string literal
				current.WriteByte(sql[i+1])
				i++
			case c == quote:
				// Doubled quote stays inside the literal
				if i+1 < len(sql) && sql[i+1] == quote {
					current.WriteByte(sql[i+1])
					i++
				} else {
					quote = 0
				}
			}
			continue
		}

		switch {
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			current.WriteByte(c)
			current.WriteByte(sql[i+1])
			i++
			inLineComment = true
		case c == '#':
			current.WriteByte(c)
			inLineComment = true
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			current.WriteByte(c)
			current.WriteByte(sql[i+1])
			i++
			inBlockComment = true
		case c == '\'' || c == '"' || c == '`':
			current.WriteByte(c)
			quote = c
		case c == ';':
			s := strings.TrimSpace(current.String())
			if s != "" {
				stmts = append(stmts, s)
			}
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	// Trailing statement without semicolon
	if s := strings.TrimSpace(current.String()); s != "" {
		stmts = append(stmts, s)
	}

	return stmts
}
