// Package database opens the MySQL pool shared by the API server and the
// seeder.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 10
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open builds the DSN, opens the connection pool and verifies connectivity
// with a ping.  DATETIME columns parse into time.Time and the session stays
// in UTC, which the redemption timestamps rely on.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	dsn := (&mysql.Config{
		User:      user,
		Passwd:    pass,
		Net:       "tcp",
		Addr:      host + ":" + port,
		DBName:    name,
		ParseTime: true,
		Loc:       time.UTC,
		Params:    map[string]string{"charset": "utf8mb4"},
	}).FormatDSN()

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
