package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []struct {
	name  string
	query string
}{
	{"users table", `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL DEFAULT '',
		hashed_password VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`},
	{"water_logs table", `
	CREATE TABLE IF NOT EXISTS water_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		qty DOUBLE PRECISION NOT NULL CHECK (qty > 0),
		qty_litres DOUBLE PRECISION NOT NULL,
		unit VARCHAR(16) NOT NULL CHECK (unit IN ('litre', 'bucket', 'cup')),
		category VARCHAR(16) NOT NULL CHECK (category IN ('bathing', 'drinking', 'washing', 'cooking', 'other')),
		date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`},
	{"energy_logs table", `
	CREATE TABLE IF NOT EXISTS energy_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		qty DOUBLE PRECISION NOT NULL CHECK (qty > 0),
		unit VARCHAR(16) NOT NULL CHECK (unit IN ('kwh')),
		date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`},
	{"water_logs owner/date index", `CREATE INDEX IF NOT EXISTS water_logs_user_date_idx ON water_logs(user_id, date DESC)`},
	{"energy_logs owner/date index", `CREATE INDEX IF NOT EXISTS energy_logs_user_date_idx ON energy_logs(user_id, date DESC)`},
}

// EnsureSchema creates every table and index the service needs. It is safe to run on each start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt.query); err != nil {
			return fmt.Errorf("create %s: %w", stmt.name, err)
		}
		log.Printf("Ensured %s", stmt.name)
	}
	return nil
}
