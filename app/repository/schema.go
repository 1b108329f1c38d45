package repository

import (
	"context"
	"database/sql"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS records (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(320) NOT NULL,
		phone VARCHAR(64) NOT NULL,
		address VARCHAR(512) NOT NULL DEFAULT '',
		company VARCHAR(255) NOT NULL DEFAULT '',
		normalized_email VARCHAR(320) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NULL,
		normalized_phone VARCHAR(32) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NULL,
		verified TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME(6) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_records_normalized_email (normalized_email),
		UNIQUE KEY uq_records_normalized_phone (normalized_phone),
		KEY idx_records_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS attempts (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		payload TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		PRIMARY KEY (id),
		KEY idx_attempts_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables and unique indexes the record store relies on.
// It is idempotent and runs once at startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range mysqlSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
