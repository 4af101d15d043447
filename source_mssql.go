package main

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
)

const defaultSourceOwner = "dbo"

// Result-set ordinals of the catalog stored procedures.
const (
	spTablesName = 2

	spColumnsName      = 3
	spColumnsTypeName  = 5
	spColumnsPrecision = 6
	spColumnsLength    = 7
	spColumnsScale     = 8
	spColumnsNullable  = 10

	spIndexesPrimaryKey = 6
	spIndexesColumn     = 17

	spFkeysPKTable  = 2
	spFkeysPKColumn = 3
	spFkeysFKColumn = 7
	spFkeysName     = 11
)

// openMSSQL opens a single-session pool for the SQL Server source.
func openMSSQL(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlserver: %w", err)
	}
	// One query in flight at a time on one session.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlserver: %w", err)
	}
	return db, nil
}

// mssqlCatalog reads a SQL Server catalog through the sys.sp_* procedures.
type mssqlCatalog struct {
	q     queryer
	owner string
}

func newMSSQLCatalog(q queryer, owner string) *mssqlCatalog {
	if owner == "" {
		owner = defaultSourceOwner
	}
	return &mssqlCatalog{q: q, owner: owner}
}

func (c *mssqlCatalog) Tables(ctx context.Context) ([]string, error) {
	var tables []string
	err := queryRecords(ctx, c.q,
		`EXEC sys.sp_tables @table_name = NULL, @table_owner = @p1, @table_qualifier = NULL, @table_type = @p2`,
		[]any{c.owner, "'TABLE'"},
		func(rec record) error {
			name, err := rec.str(spTablesName)
			if err != nil {
				return err
			}
			tables = append(tables, name)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("sp_tables: %w", err)
	}
	return tables, nil
}

func (c *mssqlCatalog) Columns(ctx context.Context, table string) ([]Column, error) {
	var cols []Column
	err := queryRecords(ctx, c.q,
		`EXEC sys.sp_columns @table_name = @p1, @table_owner = @p2`,
		[]any{table, c.owner},
		func(rec record) error {
			var col Column
			var err error
			if col.Name, err = rec.str(spColumnsName); err != nil {
				return err
			}
			if col.TypeName, err = rec.str(spColumnsTypeName); err != nil {
				return err
			}
			if col.Precision, err = rec.integer(spColumnsPrecision); err != nil {
				return err
			}
			if col.Size, err = rec.integer(spColumnsLength); err != nil {
				return err
			}
			if col.Scale, err = rec.nullInteger(spColumnsScale); err != nil {
				return err
			}
			nullable, err := rec.integer(spColumnsNullable)
			if err != nil {
				return err
			}
			col.Nullable = nullable == 1
			cols = append(cols, col)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("sp_columns %s: %w", table, err)
	}
	return cols, nil
}

func (c *mssqlCatalog) IndexColumns(ctx context.Context, table string) ([]IndexColumn, error) {
	var entries []IndexColumn
	err := queryRecords(ctx, c.q,
		`EXEC sys.sp_indexes_rowset @table_name = @p1, @table_schema = @p2`,
		[]any{table, c.owner},
		func(rec record) error {
			pk, err := rec.boolean(spIndexesPrimaryKey)
			if err != nil {
				return err
			}
			col, err := rec.str(spIndexesColumn)
			if err != nil {
				return err
			}
			entries = append(entries, IndexColumn{Column: col, PrimaryKey: pk})
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("sp_indexes_rowset %s: %w", table, err)
	}
	return entries, nil
}

func (c *mssqlCatalog) ForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	var fks []ForeignKey
	err := queryRecords(ctx, c.q,
		`EXEC sys.sp_fkeys @fktable_name = @p1, @fktable_owner = @p2`,
		[]any{table, c.owner},
		func(rec record) error {
			var fk ForeignKey
			var err error
			if fk.Name, err = rec.str(spFkeysName); err != nil {
				return err
			}
			if fk.Column, err = rec.str(spFkeysFKColumn); err != nil {
				return err
			}
			if fk.RefTable, err = rec.str(spFkeysPKTable); err != nil {
				return err
			}
			if fk.RefColumn, err = rec.str(spFkeysPKColumn); err != nil {
				return err
			}
			fks = append(fks, fk)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("sp_fkeys %s: %w", table, err)
	}
	return fks, nil
}

// Rows selects columns from table in the source's natural order; no ORDER
// BY is added.
func (c *mssqlCatalog) Rows(ctx context.Context, table string, columns []string) iter.Seq2[[]Value, error] {
	query := fmt.Sprintf("SELECT %s FROM %s.%s;", mssqlColumnList(columns), mssqlIdent(c.owner), mssqlIdent(table))
	return queryCells(ctx, c.q, query)
}

// SourceObjects lists the non-table objects found in the source.
func (c *mssqlCatalog) SourceObjects(ctx context.Context) (*SourceObjects, error) {
	objs := &SourceObjects{}
	err := queryRecords(ctx, c.q, `
		SELECT o.type_desc, o.name
		FROM sys.objects o
		WHERE o.schema_id = SCHEMA_ID(@p1)
		  AND o.type IN ('V', 'P', 'FN', 'IF', 'TF', 'TR')
		ORDER BY o.type_desc, o.name
	`, []any{c.owner}, func(rec record) error {
		kind, err := rec.str(0)
		if err != nil {
			return err
		}
		name, err := rec.str(1)
		if err != nil {
			return err
		}
		objs.add(kind, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("introspect source objects: %w", err)
	}
	return objs, nil
}
