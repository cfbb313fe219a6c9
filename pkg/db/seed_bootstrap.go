// Package db provides bootstrap-based seeding of preregistered phone
// accounts.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/XBIZART/telecom-service/pkg/bootstrap"
)

const seedBootstrapLogPrefix = "db:seed_bootstrap"

// SeedBootstrap loads bootstrap config from the given path and seeds the
// database with the preregistered phone accounts. Idempotent: re-seeding
// updates existing rows in place.
func SeedBootstrap(ctx context.Context, pool *pgxpool.Pool, bootstrapFilePath string) error {
	slog.Info(fmt.Sprintf("%s - seeding from %s", seedBootstrapLogPrefix, bootstrapFilePath))

	cfg, err := bootstrap.LoadBootstrapConfig(bootstrapFilePath)
	if err != nil {
		return fmt.Errorf("%s - load bootstrap config: %w", seedBootstrapLogPrefix, err)
	}
	if cfg == nil || len(cfg.Accounts) == 0 {
		slog.Info(fmt.Sprintf("%s - no accounts to seed", seedBootstrapLogPrefix))
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s - begin tx: %w", seedBootstrapLogPrefix, err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	seeded := 0
	for _, entry := range cfg.Accounts {
		acct := entry.Account()
		if acct.Handle.IsZero() {
			slog.Warn(fmt.Sprintf("%s - skip account with empty handle (label=%q)", seedBootstrapLogPrefix, entry.Label))
			continue
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO phone_accounts (component_name, account_id, address, label, description,
			                             capabilities, schemes, enabled, voicemail_number, line_number,
			                             created, modified)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
			 ON CONFLICT (component_name, account_id) DO UPDATE SET
			   address = EXCLUDED.address,
			   label = EXCLUDED.label,
			   description = EXCLUDED.description,
			   capabilities = EXCLUDED.capabilities,
			   schemes = EXCLUDED.schemes,
			   enabled = EXCLUDED.enabled,
			   voicemail_number = EXCLUDED.voicemail_number,
			   line_number = EXCLUDED.line_number,
			   modified = EXCLUDED.modified`,
			acct.Handle.ComponentName, acct.Handle.ID,
			nullable(acct.Address), nullable(acct.Label), nullable(acct.Description),
			int64(acct.Capabilities), acct.Schemes, acct.Enabled,
			nullable(acct.VoicemailNumber), nullable(acct.LineNumber), now)
		if err != nil {
			return fmt.Errorf("%s - insert account %s: %w", seedBootstrapLogPrefix, acct.Handle, err)
		}
		seeded++
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s - commit: %w", seedBootstrapLogPrefix, err)
	}
	slog.Info(fmt.Sprintf("%s - seeded %d accounts", seedBootstrapLogPrefix, seeded))
	return nil
}
