package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultFileName = "dump.sql"

// DumpConfig holds the resolved configuration of a dump run. It is read
// from an optional TOML file and then overridden by command-line flags.
type DumpConfig struct {
	Source        SourceConfig `toml:"source"`
	Target        TargetConfig `toml:"target"`
	FileName      string       `toml:"file_name"`
	IgnoreTables  []string     `toml:"ignore_tables"`
	TableName     string       `toml:"table_name"` // single-table, data-only mode
	WithData      bool         `toml:"with_data"`
	RowsPerInsert int          `toml:"rows_per_insert"` // 0 = one INSERT per table
	Hooks         HooksConfig  `toml:"hooks"`

	// configDir is the directory containing the TOML file, used to resolve relative SQL paths.
	configDir string
}

// SourceConfig identifies the SQL Server source.
type SourceConfig struct {
	ConnectionString string `toml:"connection_string"`
	Owner            string `toml:"owner"`    // default: "dbo"
	Snapshot         string `toml:"snapshot"` // none|single_tx
}

// TargetConfig describes the MySQL side of the script.
type TargetConfig struct {
	Schema  string `toml:"schema"`  // emits CREATE DATABASE + USE when set
	Charset string `toml:"charset"` // default: "utf8mb4"
	DSN     string `toml:"dsn"`     // used by the apply command
}

// HooksConfig lists SQL files inlined into the script.
type HooksConfig struct {
	Before []string `toml:"before"`
	After  []string `toml:"after"`
}

func defaultConfig() *DumpConfig {
	return &DumpConfig{
		Source: SourceConfig{
			Owner:    defaultSourceOwner,
			Snapshot: "none",
		},
		Target: TargetConfig{
			Charset: "utf8mb4",
		},
		FileName: defaultFileName,
	}
}

// loadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults, with relative hook paths resolved from the working
// directory.
func loadConfig(path string) (*DumpConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		cfg.configDir = wd
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)
	return cfg, nil
}

// validate normalizes the configuration and reports the first problem.
// It runs before any file is created or query is issued.
func (c *DumpConfig) validate() error {
	c.Source.ConnectionString = strings.TrimSpace(c.Source.ConnectionString)
	if c.Source.ConnectionString == "" {
		return fmt.Errorf("source connection string is required (--connection-string or source.connection_string)")
	}
	if c.Source.Owner == "" {
		c.Source.Owner = defaultSourceOwner
	}
	if c.Source.Snapshot == "" {
		c.Source.Snapshot = "none"
	}
	switch c.Source.Snapshot {
	case "none", "single_tx":
	default:
		return fmt.Errorf("source.snapshot must be one of: none, single_tx")
	}

	c.Target.Schema = strings.TrimSpace(c.Target.Schema)
	if c.Target.Charset == "" {
		c.Target.Charset = "utf8mb4"
	}

	if c.FileName == "" {
		c.FileName = defaultFileName
	}
	if c.RowsPerInsert < 0 {
		return fmt.Errorf("rows_per_insert must be >= 0")
	}
	if c.TableName != "" && !c.WithData {
		return fmt.Errorf("table_name selects single-table data-only mode and requires with_data")
	}
	return nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *DumpConfig) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}

func (c *DumpConfig) scriptOptions(before, after []string) scriptOptions {
	return scriptOptions{
		Schema:       c.Target.Schema,
		Charset:      c.Target.Charset,
		IgnoreTables: c.IgnoreTables,
		Table:        c.TableName,
		WithData:     c.WithData,
		Before:       before,
		After:        after,
	}
}
