package main

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// mysqlDSNForScript prepares a MySQL DSN for replaying a generated script.
// The packet limit is read from the server because a single INSERT can
// carry a whole table.
func mysqlDSNForScript(baseDSN string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(baseDSN)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.MaxAllowedPacket = 0
	return cfg, nil
}
