package db

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/SchoolMenu/nutrition-sona/internal/logger"
)

func TestConnectPostgres(t *testing.T) {
	t.Run("missing DATABASE_URL is an error", func(t *testing.T) {
		if _, err := ConnectPostgres(context.Background(), "", logger.Nop()); err == nil {
			t.Fatal("expected error for empty DSN")
		}
	})

	t.Run("malformed DATABASE_URL is an error", func(t *testing.T) {
		if _, err := ConnectPostgres(context.Background(), "postgres://%zz", logger.Nop()); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("valid DATABASE_URL should connect", func(t *testing.T) {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			t.Skip("DATABASE_URL not set, skipping integration test")
		}

		pool, err := ConnectPostgres(context.Background(), dsn, logger.Nop())
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		defer pool.Close()

		// schema is idempotent
		if err := initSchema(context.Background(), pool); err != nil {
			t.Fatalf("second initSchema: %v", err)
		}
	})
}

func TestSchemaOrder(t *testing.T) {
	seen := make(map[string]int)
	for i, stmt := range schema {
		seen[stmt.name] = i
		if !strings.Contains(stmt.sql, "IF NOT EXISTS") {
			t.Errorf("%s is not idempotent", stmt.name)
		}
	}

	// referenced tables come first
	before := [][2]string{
		{"users", "profiles"},
		{"users", "children"},
		{"children", "meal_orders"},
	}
	for _, pair := range before {
		if seen[pair[0]] >= seen[pair[1]] {
			t.Errorf("%s must be created before %s", pair[0], pair[1])
		}
	}
}
