// Package db owns the process-wide Postgres handle. InitDB is called once at
// boot with the DSN from config; everything else goes through GetDB.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

var conn *sql.DB

func InitDB(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("database URL is not configured")
	}

	var err error
	conn, err = sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	return conn.Ping()
}

func GetDB() *sql.DB {
	return conn
}
