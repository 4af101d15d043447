package main

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/shopspring/decimal"
)

// queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// queryCells runs query and yields each row converted to Values. The query
// is issued when iteration starts, so every range over the result is an
// independent run.
func queryCells(ctx context.Context, q queryer, query string, args ...any) iter.Seq2[[]Value, error] {
	return func(yield func([]Value, error) bool) {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		types, err := rows.ColumnTypes()
		if err != nil {
			yield(nil, err)
			return
		}
		raw := make([]any, len(types))
		dest := make([]any, len(types))
		for i := range raw {
			dest[i] = &raw[i]
		}

		for rows.Next() {
			if err := rows.Scan(dest...); err != nil {
				yield(nil, err)
				return
			}
			row := make([]Value, len(raw))
			for i, v := range raw {
				cell, err := cellFromDriver(types[i].DatabaseTypeName(), v)
				if err != nil {
					yield(nil, fmt.Errorf("column %s: %w", types[i].Name(), err))
					return
				}
				row[i] = cell
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// cellFromDriver converts a value returned by the database/sql driver into
// a Value. dbType is the driver's DatabaseTypeName for the column.
func cellFromDriver(dbType string, v any) (Value, error) {
	if v == nil {
		return Null{}, nil
	}

	dbType = strings.ToUpper(dbType)
	switch dbType {
	case "UNIQUEIDENTIFIER":
		var u mssql.UniqueIdentifier
		if err := u.Scan(v); err != nil {
			return nil, fmt.Errorf("uniqueidentifier: %w", err)
		}
		return UUID(u), nil
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
		switch x := v.(type) {
		case []byte:
			return parseDecimal(string(x))
		case string:
			return parseDecimal(x)
		case float64:
			return Decimal(decimal.NewFromFloat(x)), nil
		case int64:
			return Decimal(decimal.NewFromInt(x)), nil
		}
	case "DATETIMEOFFSET":
		if t, ok := v.(time.Time); ok {
			return TimestampTZ(t), nil
		}
	case "REAL":
		// The driver widens real to float64.
		if f, ok := v.(float64); ok {
			return Real(float32(f)), nil
		}
	}

	switch x := v.(type) {
	case string:
		return String(x), nil
	case []byte:
		if isTextType(dbType) {
			return String(x), nil
		}
		return Binary(x), nil
	case bool:
		return Bool(x), nil
	case int64:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int:
		return Int(x), nil
	case uint8:
		return Int(x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Real(x), nil
	case time.Time:
		return Timestamp(x), nil
	case uuid.UUID:
		return UUID(x), nil
	case decimal.Decimal:
		return Decimal(x), nil
	}
	return nil, fmt.Errorf("unsupported %s value of type %T", dbType, v)
}

func parseDecimal(s string) (Value, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return Decimal(d), nil
}

func isTextType(dbType string) bool {
	switch dbType {
	case "CHAR", "NCHAR", "VARCHAR", "NVARCHAR", "TEXT", "NTEXT", "XML", "SYSNAME":
		return true
	}
	return false
}

// record is one raw catalog row, addressed by result-set ordinal.
type record []any

// queryRecords runs a catalog query and calls fn for each row.
func queryRecords(ctx context.Context, q queryer, query string, args []any, fn func(rec record) error) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	raw := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		if err := fn(record(raw)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r record) at(i int) (any, error) {
	if i >= len(r) {
		return nil, fmt.Errorf("catalog row has %d columns, want column %d", len(r), i)
	}
	return r[i], nil
}

func (r record) str(i int) (string, error) {
	v, err := r.at(i)
	if err != nil {
		return "", err
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case nil:
		return "", fmt.Errorf("column %d is NULL", i)
	}
	return "", fmt.Errorf("column %d: expected string, got %T", i, v)
}

// nullInteger returns nil for a NULL column.
func (r record) nullInteger(i int) (*int, error) {
	v, err := r.at(i)
	if err != nil {
		return nil, err
	}
	var n int
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int64:
		n = int(x)
	case int32:
		n = int(x)
	case int16:
		n = int(x)
	case int:
		n = x
	case uint8:
		n = int(x)
	default:
		return nil, fmt.Errorf("column %d: expected integer, got %T", i, v)
	}
	return &n, nil
}

func (r record) integer(i int) (int, error) {
	n, err := r.nullInteger(i)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, fmt.Errorf("column %d is NULL", i)
	}
	return *n, nil
}

func (r record) boolean(i int) (bool, error) {
	v, err := r.at(i)
	if err != nil {
		return false, err
	}
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case nil:
		return false, nil
	}
	return false, fmt.Errorf("column %d: expected bit, got %T", i, v)
}
