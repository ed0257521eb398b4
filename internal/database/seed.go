package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoUsername = "testuser"
	DemoPassword = "Test123"
)

// SeedDemoData creates the demo account used by the front-end and load tests.
// It is idempotent.
func SeedDemoData(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, DemoUsername, string(hash))
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		logger.Info("Seeded demo user", zap.String("username", DemoUsername))
	}
	return nil
}
