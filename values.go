package main

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Value is a single cell read from the source. The set of implementations is
// closed: every kind carries its own MySQL literal rule.
type Value interface {
	sqlLiteral() string
}

type (
	Null        struct{}
	String      string
	Bool        bool
	Int         int64
	Float       float64
	Real        float32 // formatted at single precision
	Decimal     decimal.Decimal
	Timestamp   time.Time // wall clock, no zone conversion
	TimestampTZ time.Time // converted to UTC before formatting
	UUID        uuid.UUID
	Binary      []byte
)

const mysqlTimestampLayout = "2006-01-02 15:04:05.000"

func (Null) sqlLiteral() string { return "NULL" }

func (s String) sqlLiteral() string { return "'" + escapeString(string(s)) + "'" }

func (b Bool) sqlLiteral() string {
	if b {
		return "1"
	}
	return "0"
}

func (i Int) sqlLiteral() string { return strconv.FormatInt(int64(i), 10) }

func (f Float) sqlLiteral() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func (f Real) sqlLiteral() string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }

func (d Decimal) sqlLiteral() string { return decimal.Decimal(d).String() }

func (t Timestamp) sqlLiteral() string {
	return "'" + time.Time(t).Format(mysqlTimestampLayout) + "'"
}

func (t TimestampTZ) sqlLiteral() string {
	return "'" + time.Time(t).UTC().Format(mysqlTimestampLayout) + "'"
}

func (u UUID) sqlLiteral() string { return "'" + uuid.UUID(u).String() + "'" }

func (b Binary) sqlLiteral() string { return "X'" + hex.EncodeToString(b) + "'" }

// formatValue renders v as a MySQL literal. A nil Value is NULL.
func formatValue(v Value) string {
	if v == nil {
		return Null{}.sqlLiteral()
	}
	return v.sqlLiteral()
}

// escapeString escapes a string body for a single-quoted MySQL literal.
// Each input rune is rewritten once, so the backslashes introduced for
// double quotes are never escaped again.
func escapeString(s string) string {
	if !strings.ContainsAny(s, `'"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("''")
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
