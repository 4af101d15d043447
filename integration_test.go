//go:build integration

package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
)

const integrationOwner = "mm_it"

func TestIntegration_MSSQL(t *testing.T) {
	dsn := os.Getenv("MSSQL_DSN")
	if dsn == "" {
		t.Skip("MSSQL_DSN env var required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := openMSSQL(ctx, dsn)
	if err != nil {
		t.Fatalf("open sqlserver: %v", err)
	}
	defer db.Close()

	seedMSSQL(t, ctx, db)

	script := generateScript(t, ctx, db, scriptOptions{
		Schema:   "mm_it_target",
		Charset:  "utf8mb4",
		WithData: true,
	})

	for _, want := range []string{
		"CREATE DATABASE IF NOT EXISTS `mm_it_target` /*!40100 DEFAULT CHARACTER SET utf8mb4 */;\nUSE `mm_it_target`;\n",
		"SET FOREIGN_KEY_CHECKS=0;\n",
		"DROP TABLE IF EXISTS `Customers`;\nCREATE TABLE `Customers` (\n",
		"\t`Id` INT AUTO_INCREMENT  NOT NULL,\n",
		"\t`Name` VARCHAR(100) CHARACTER SET utf8mb4  NOT NULL,\n",
		"\t`Balance` DECIMAL(10,2)  NULL,\n",
		"\t`Active` TINYINT(1)  NOT NULL,\n",
		"\tPRIMARY KEY (`Id`)\n);",
		"\t`PlacedAt` DATETIME  NOT NULL,\n",
		"\tKEY `FK_Orders_Customers` (`CustomerId`),\n",
		"\tCONSTRAINT `FK_Orders_Customers` FOREIGN KEY (`CustomerId`) REFERENCES `Customers` (`Id`) ON DELETE NO ACTION ON UPDATE NO ACTION\n);",
		"/*!40000 ALTER TABLE `Customers` DISABLE KEYS */;\nINSERT INTO `Customers` VALUES\n",
		"(1,'O''Brien',12.5,1)",
		"(2,'Zoë',NULL,0)",
		"(10,1,'2024-01-02 03:04:05.123','rush; \\\"fragile\\\"')",
		"/*!40000 ALTER TABLE `Orders` ENABLE KEYS */;\n",
		"SET FOREIGN_KEY_CHECKS=1;\n",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q\n--- script ---\n%s", want, script)
		}
	}
	if strings.Contains(script, "old_code") {
		t.Errorf("old-prefixed column leaked into script:\n%s", script)
	}
	if strings.Index(script, "CREATE TABLE `Customers`") > strings.Index(script, "INSERT INTO `Customers`") {
		t.Error("Customers data written before its DDL")
	}

	single := generateScript(t, ctx, db, scriptOptions{Table: "Orders", WithData: true})
	if strings.Contains(single, "CREATE TABLE") || strings.Contains(single, "Customers") {
		t.Errorf("single-table script should hold only Orders data:\n%s", single)
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		t.Log("MYSQL_DSN not set; skipping apply")
		return
	}
	applyToMySQL(t, ctx, mysqlDSN, script)
}

func generateScript(t *testing.T, ctx context.Context, db *sql.DB, opts scriptOptions) string {
	t.Helper()
	var buf bytes.Buffer
	e := newEmitter(newMSSQLCatalog(db, integrationOwner), 0)
	if err := writeScript(ctx, e, &buf, opts); err != nil {
		t.Fatalf("writeScript: %v", err)
	}
	if len(e.unmapped) != 0 {
		t.Errorf("unexpected unmapped columns: %v", e.unmapped)
	}
	return buf.String()
}

func seedMSSQL(t *testing.T, ctx context.Context, db *sql.DB) {
	t.Helper()
	stmts := []string{
		fmt.Sprintf("IF SCHEMA_ID('%s') IS NULL EXEC('CREATE SCHEMA %s')", integrationOwner, integrationOwner),
		fmt.Sprintf("DROP TABLE IF EXISTS %s.Orders", integrationOwner),
		fmt.Sprintf("DROP TABLE IF EXISTS %s.Customers", integrationOwner),
		fmt.Sprintf(`CREATE TABLE %s.Customers (
			Id int IDENTITY(1,1) NOT NULL CONSTRAINT PK_Customers PRIMARY KEY,
			Name nvarchar(100) NOT NULL,
			Balance decimal(10,2) NULL,
			Active bit NOT NULL,
			old_code varchar(10) NULL
		)`, integrationOwner),
		fmt.Sprintf(`CREATE TABLE %s.Orders (
			Id int NOT NULL CONSTRAINT PK_Orders PRIMARY KEY,
			CustomerId int NOT NULL CONSTRAINT FK_Orders_Customers REFERENCES %s.Customers (Id),
			PlacedAt datetime NOT NULL,
			Note nvarchar(200) NULL
		)`, integrationOwner, integrationOwner),
		fmt.Sprintf(`INSERT INTO %s.Customers (Name, Balance, Active, old_code) VALUES
			(N'O''Brien', 12.50, 1, 'x'),
			(N'Zoë', NULL, 0, NULL)`, integrationOwner),
		fmt.Sprintf(`INSERT INTO %s.Orders (Id, CustomerId, PlacedAt, Note) VALUES
			(10, 1, '2024-01-02T03:04:05.123', N'rush; "fragile"')`, integrationOwner),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed: %v\nSQL: %s", err, stmt)
		}
	}
	t.Cleanup(func() {
		db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s.Orders", integrationOwner))
		db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s.Customers", integrationOwner))
	})
}

func applyToMySQL(t *testing.T, ctx context.Context, dsn, script string) {
	t.Helper()
	mcfg, err := mysqlDSNForScript(dsn)
	if err != nil {
		t.Fatalf("mysql dsn: %v", err)
	}
	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		t.Fatalf("mysql connector: %v", err)
	}
	db := sql.OpenDB(connector)
	defer db.Close()

	conn, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	defer conn.Close()
	t.Cleanup(func() {
		db.Exec("DROP DATABASE IF EXISTS `mm_it_target`")
	})

	if _, err := execScript(ctx, conn, script); err != nil {
		t.Fatalf("apply script: %v", err)
	}

	assertMySQLCount(t, ctx, conn, "mm_it_target.Customers", 2)
	assertMySQLCount(t, ctx, conn, "mm_it_target.Orders", 1)

	var name string
	var balance sql.NullString
	if err := conn.QueryRowContext(ctx, "SELECT Name, Balance FROM mm_it_target.Customers WHERE Id = 1").Scan(&name, &balance); err != nil {
		t.Fatalf("query customer: %v", err)
	}
	if name != "O'Brien" || balance.String != "12.50" {
		t.Errorf("customer 1 = (%q, %q), want (O'Brien, 12.50)", name, balance.String)
	}

	var note string
	if err := conn.QueryRowContext(ctx, "SELECT Note FROM mm_it_target.Orders WHERE Id = 10").Scan(&note); err != nil {
		t.Fatalf("query order: %v", err)
	}
	if note != `rush; "fragile"` {
		t.Errorf("order note = %q", note)
	}
}

func assertMySQLCount(t *testing.T, ctx context.Context, conn *sql.Conn, table string, want int) {
	t.Helper()
	var got int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&got); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	if got != want {
		t.Errorf("%s has %d rows, want %d", table, got, want)
	}
}
