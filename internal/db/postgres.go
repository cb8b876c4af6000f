package db

import (
	"context"
	"fmt"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres opens the pool, pings it and makes sure the tables exist.
func ConnectPostgres(ctx context.Context, dsn string, log *logger.Logger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	log.Info("connected to postgres")

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.Info("schema initialized")
	return db, nil
}

// schema is applied in order on every start. Statements must be idempotent.
var schema = []struct {
	name string
	sql  string
}{
	// -------------------------------
	// ACCOUNTS
	// -------------------------------
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'PARENT',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`},
	{"profiles", `
		CREATE TABLE IF NOT EXISTS profiles (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			full_name VARCHAR(255) NOT NULL,
			school_code VARCHAR(64) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`},

	// -------------------------------
	// ROSTER
	// -------------------------------
	{"children", `
		CREATE TABLE IF NOT EXISTS children (
			id UUID PRIMARY KEY,
			parent_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			grade VARCHAR(32) NOT NULL,
			allergies TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`},
	{"children_parent_idx", `
		CREATE INDEX IF NOT EXISTS children_parent_idx ON children (parent_id)
	`},

	// -------------------------------
	// MENU
	// -------------------------------
	{"menu_items", `
		CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY,
			menu_date DATE NOT NULL,
			category VARCHAR(32) NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10, 2) NOT NULL DEFAULT 0,
			allergens TEXT[] NOT NULL DEFAULT '{}',
			school_code VARCHAR(64) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (menu_date, category, name)
		)
	`},

	// -------------------------------
	// ORDERS
	// -------------------------------
	{"meal_orders", `
		CREATE TABLE IF NOT EXISTS meal_orders (
			id UUID PRIMARY KEY,
			child_id UUID NOT NULL REFERENCES children(id) ON DELETE CASCADE,
			meal_date DATE NOT NULL,
			meal_type VARCHAR(32) NOT NULL,
			meal_name VARCHAR(255) NOT NULL,
			school_code VARCHAR(64) NOT NULL DEFAULT '',
			position SMALLINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`},
	{"meal_orders_child_date_idx", `
		CREATE INDEX IF NOT EXISTS meal_orders_child_date_idx
		ON meal_orders (child_id, meal_date)
	`},
	{"meal_orders_date_idx", `
		CREATE INDEX IF NOT EXISTS meal_orders_date_idx ON meal_orders (meal_date)
	`},
}

func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("%s: %w", stmt.name, err)
		}
	}
	return nil
}
