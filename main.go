package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configPath string
	applyDSN   string
)

var rootCmd = &cobra.Command{
	Use:     "mssql2mysql [config.toml]",
	Short:   "Generate a MySQL script from a SQL Server database",
	Version: versionString(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDump,
}

var applyCmd = &cobra.Command{
	Use:   "apply <script.sql>",
	Short: "Execute a generated script against a MySQL database",
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	registerDumpFlags(rootCmd.Flags())

	applyCmd.Flags().StringVar(&applyDSN, "dsn", "", "MySQL DSN, e.g. user:pass@tcp(127.0.0.1:3306)/")
	applyCmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file (uses target.dsn)")
	rootCmd.AddCommand(applyCmd)
}

// registerDumpFlags defines the flags that override DumpConfig fields.
func registerDumpFlags(f *pflag.FlagSet) {
	f.String("connection-string", "", "SQL Server connection string")
	f.String("file-name", defaultFileName, "MySQL script file name")
	f.String("schema", "", "MySQL schema; emits CREATE DATABASE and USE when set")
	f.StringSlice("ignore-tables", nil, "tables to skip (exact, case-sensitive)")
	f.String("table-name", "", "dump only this table's data (requires --with-data)")
	f.Bool("with-data", false, "include INSERT statements for table data")
	f.Int("rows-per-insert", 0, "maximum rows per INSERT statement (0 = one statement per table)")
	f.String("owner", defaultSourceOwner, "SQL Server schema owner to read tables from")
	f.String("snapshot", "none", "source snapshot mode: none|single_tx")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlagOverrides copies every flag the user set onto cfg.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *DumpConfig) error {
	var err error
	set := func(name string, fn func()) {
		if err == nil && flags.Changed(name) {
			fn()
		}
	}
	set("connection-string", func() { cfg.Source.ConnectionString, err = flags.GetString("connection-string") })
	set("file-name", func() { cfg.FileName, err = flags.GetString("file-name") })
	set("schema", func() { cfg.Target.Schema, err = flags.GetString("schema") })
	set("ignore-tables", func() { cfg.IgnoreTables, err = flags.GetStringSlice("ignore-tables") })
	set("table-name", func() { cfg.TableName, err = flags.GetString("table-name") })
	set("with-data", func() { cfg.WithData, err = flags.GetBool("with-data") })
	set("rows-per-insert", func() { cfg.RowsPerInsert, err = flags.GetInt("rows-per-insert") })
	set("owner", func() { cfg.Source.Owner, err = flags.GetString("owner") })
	set("snapshot", func() { cfg.Source.Snapshot, err = flags.GetString("snapshot") })
	return err
}

func runDump(cmd *cobra.Command, args []string) error {
	// Resolve config path: positional arg takes precedence over --config flag
	cfgPath := configPath
	if len(args) > 0 {
		cfgPath = args[0]
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd.Flags(), cfg); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	ctx := context.Background()
	start := time.Now()

	log.Printf("mssql2mysql %s: SQL Server to MySQL script", versionString())
	log.Printf(
		"config: owner=%s schema=%q with_data=%t table=%q ignore=%v snapshot=%s rows_per_insert=%d",
		cfg.Source.Owner,
		cfg.Target.Schema,
		cfg.WithData,
		cfg.TableName,
		cfg.IgnoreTables,
		cfg.Source.Snapshot,
		cfg.RowsPerInsert,
	)

	before, err := loadHookStatements(cfg, cfg.Hooks.Before, "before")
	if err != nil {
		return err
	}
	after, err := loadHookStatements(cfg, cfg.Hooks.After, "after")
	if err != nil {
		return err
	}

	log.Printf("connecting to SQL Server...")
	db, err := openMSSQL(ctx, cfg.Source.ConnectionString)
	if err != nil {
		return err
	}
	defer db.Close()

	var q queryer = db
	if cfg.Source.Snapshot == "single_tx" {
		tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSnapshot})
		if err != nil {
			return fmt.Errorf("begin snapshot transaction: %w", err)
		}
		// Read-only work; nothing to commit.
		defer tx.Rollback()
		q = tx
	}
	cat := newMSSQLCatalog(q, cfg.Source.Owner)

	if cfg.TableName == "" {
		objs, err := cat.SourceObjects(ctx)
		if err != nil {
			return err
		}
		for _, w := range sourceObjectWarnings(objs) {
			log.Printf("  WARN: %s", w)
		}
	}

	out, err := os.Create(cfg.FileName)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfg.FileName, err)
	}
	defer out.Close()

	e := newEmitter(cat, cfg.RowsPerInsert)
	if err := writeScript(ctx, e, out, cfg.scriptOptions(before, after)); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.FileName, err)
	}

	if warnings := unmappedTypeWarnings(e.unmapped); len(warnings) > 0 {
		log.Printf("type mapping report: %d column(s) need manual handling", len(warnings))
		for _, w := range warnings {
			log.Printf("  WARN: %s", w)
		}
	}

	log.Printf("save to: %s", cfg.FileName)
	log.Printf("completed in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	dsn := applyDSN
	if dsn == "" && configPath != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		dsn = cfg.Target.DSN
	}
	if dsn == "" {
		return fmt.Errorf("MySQL DSN required: --dsn or target.dsn in --config")
	}

	script, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	mcfg, err := mysqlDSNForScript(dsn)
	if err != nil {
		return err
	}
	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	defer db.Close()

	ctx := context.Background()
	start := time.Now()

	log.Printf("connecting to MySQL %s...", mcfg.Addr)
	// One session: FOREIGN_KEY_CHECKS and USE are per connection.
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("connect mysql: %w", err)
	}
	defer conn.Close()

	n, err := execScript(ctx, conn, string(script))
	if err != nil {
		return fmt.Errorf("apply %s after %d statements: %w", args[0], n, err)
	}
	log.Printf("applied %d statements from %s in %s", n, args[0], time.Since(start).Round(time.Millisecond))
	return nil
}
