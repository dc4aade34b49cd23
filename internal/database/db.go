package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/NextStepSol/workshop-app/internal/config"
)

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(sc config.StoreConfig) (*sql.DB, error) {
	auth := sc.DBUser
	if sc.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", sc.DBUser, sc.DBPass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, sc.DBHost, sc.DBPort, sc.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// A single operator never needs a large pool.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
