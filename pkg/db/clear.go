// Package db provides telecom data clearing.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const clearLogPrefix = "db:clear"

// ClearTelecom truncates all telecom tables (missed_calls,
// phone_accounts). Schema is preserved; only data is removed. RESTART
// IDENTITY resets sequences.
func ClearTelecom(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info(fmt.Sprintf("%s - Clearing telecom tables", clearLogPrefix))

	_, err := pool.Exec(ctx, `TRUNCATE TABLE
		missed_calls,
		phone_accounts
		RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("%s - truncate failed: %w", clearLogPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Telecom data cleared", clearLogPrefix))
	return nil
}
