package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MySQL stores documents in the kv_store table of a MySQL database.  The
// connection is opened by database.Open; MySQL owns the *sql.DB after
// NewMySQL succeeds.
type MySQL struct {
	db *sql.DB
}

// NewMySQL ensures the kv_store table exists.
func NewMySQL(ctx context.Context, db *sql.DB) (*MySQL, error) {
	const ddl = "CREATE TABLE IF NOT EXISTS kv_store (" +
		"`k` VARCHAR(191) NOT NULL PRIMARY KEY, " +
		"`v` LONGBLOB NOT NULL, " +
		"`updated_at` TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	return &MySQL{db: db}, nil
}

func (m *MySQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := m.db.QueryRowContext(ctx, "SELECT `v` FROM kv_store WHERE `k` = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return v, true, nil
}

const mysqlUpsert = "INSERT INTO kv_store (`k`, `v`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `v` = VALUES(`v`)"

func (m *MySQL) Set(ctx context.Context, key string, value []byte) error {
	if _, err := m.db.ExecContext(ctx, mysqlUpsert, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (m *MySQL) SetMany(ctx context.Context, entries map[string][]byte) error {
	return execTx(ctx, m.db, mysqlUpsert, entries)
}

func (m *MySQL) Close() error { return m.db.Close() }
