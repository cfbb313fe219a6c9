package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/XBIZART/telecom-service/pkg/accounts"
	"github.com/XBIZART/telecom-service/pkg/missedcalls"
)

const repoLogPrefix = "db:repository"

// Repository provides database access for telecom persistence. It
// satisfies both accounts.Store and missedcalls.Store, so the registrar
// and the missed-call tracker share one pool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// =========================================================================
// ACCOUNT OPERATIONS
// =========================================================================

// UpsertAccount creates or updates a phone account row.
func (r *Repository) UpsertAccount(ctx context.Context, acct accounts.Account) error {
	slog.Debug(fmt.Sprintf("%s - UpsertAccount handle=%s", repoLogPrefix, acct.Handle))

	now := time.Now().UTC()

	_, err := r.pool.Exec(ctx,
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
		return fmt.Errorf("%s - UpsertAccount failed: %w", repoLogPrefix, err)
	}
	return nil
}

// DeleteAccount removes one phone account row. Deleting an absent row is
// not an error.
func (r *Repository) DeleteAccount(ctx context.Context, handle accounts.Handle) error {
	slog.Debug(fmt.Sprintf("%s - DeleteAccount handle=%s", repoLogPrefix, handle))

	_, err := r.pool.Exec(ctx,
		`DELETE FROM phone_accounts WHERE component_name = $1 AND account_id = $2`,
		handle.ComponentName, handle.ID)
	if err != nil {
		return fmt.Errorf("%s - DeleteAccount failed: %w", repoLogPrefix, err)
	}
	return nil
}

// DeleteAccountsByPackage removes every account whose component belongs
// to pkg and reports how many rows went away. Component names are
// "package/Service", so both the bare package and any service under it
// match.
func (r *Repository) DeleteAccountsByPackage(ctx context.Context, pkg string) (int, error) {
	slog.Debug(fmt.Sprintf("%s - DeleteAccountsByPackage pkg=%s", repoLogPrefix, pkg))

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM phone_accounts
		 WHERE component_name = $1 OR component_name LIKE $1 || '/%'`, pkg)
	if err != nil {
		return 0, fmt.Errorf("%s - DeleteAccountsByPackage failed: %w", repoLogPrefix, err)
	}
	return int(tag.RowsAffected()), nil
}

// GetAccount finds one phone account by handle. Returns nil when the
// handle is not persisted.
func (r *Repository) GetAccount(ctx context.Context, handle accounts.Handle) (*accounts.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT component_name, account_id, address, label, description,
		        capabilities, schemes, enabled, voicemail_number, line_number,
		        created, modified
		 FROM phone_accounts
		 WHERE component_name = $1 AND account_id = $2
		 LIMIT 1`, handle.ComponentName, handle.ID)

	var ar AccountRow
	err := row.Scan(
		&ar.ComponentName, &ar.AccountID, &ar.Address, &ar.Label, &ar.Description,
		&ar.Capabilities, &ar.Schemes, &ar.Enabled, &ar.VoicemailNumber, &ar.LineNumber,
		&ar.Created, &ar.Modified,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s - GetAccount failed: %w", repoLogPrefix, err)
	}
	acct := ar.Account()
	return &acct, nil
}

// ListAccounts returns every persisted phone account in registration
// order, for registrar hydration at startup.
func (r *Repository) ListAccounts(ctx context.Context) ([]accounts.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT component_name, account_id, address, label, description,
		        capabilities, schemes, enabled, voicemail_number, line_number,
		        created, modified
		 FROM phone_accounts
		 ORDER BY created ASC, component_name ASC, account_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s - ListAccounts failed: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var accts []accounts.Account
	for rows.Next() {
		var ar AccountRow
		if err := rows.Scan(
			&ar.ComponentName, &ar.AccountID, &ar.Address, &ar.Label, &ar.Description,
			&ar.Capabilities, &ar.Schemes, &ar.Enabled, &ar.VoicemailNumber, &ar.LineNumber,
			&ar.Created, &ar.Modified,
		); err != nil {
			return nil, fmt.Errorf("%s - ListAccounts scan failed: %w", repoLogPrefix, err)
		}
		accts = append(accts, ar.Account())
	}
	return accts, nil
}

// =========================================================================
// MISSED CALL OPERATIONS
// =========================================================================

// InsertMissedCall stores one missed-call record. Replaying an id is a
// no-op, so tracker retries stay idempotent.
func (r *Repository) InsertMissedCall(ctx context.Context, rec missedcalls.Record) error {
	slog.Debug(fmt.Sprintf("%s - InsertMissedCall id=%s call=%s", repoLogPrefix, rec.ID, rec.CallID))

	_, err := r.pool.Exec(ctx,
		`INSERT INTO missed_calls (id, call_id, address, component, at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.CallID, nullable(rec.Address), nullable(rec.Component), rec.At.UTC())
	if err != nil {
		return fmt.Errorf("%s - InsertMissedCall failed: %w", repoLogPrefix, err)
	}
	return nil
}

// DeleteMissedCalls removes every missed-call row and reports the count.
func (r *Repository) DeleteMissedCalls(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM missed_calls`)
	if err != nil {
		return 0, fmt.Errorf("%s - DeleteMissedCalls failed: %w", repoLogPrefix, err)
	}
	return int(tag.RowsAffected()), nil
}

// ListMissedCalls returns every missed-call record, oldest first, for
// tracker hydration at startup.
func (r *Repository) ListMissedCalls(ctx context.Context) ([]missedcalls.Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, call_id, address, component, at
		 FROM missed_calls
		 ORDER BY at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s - ListMissedCalls failed: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var recs []missedcalls.Record
	for rows.Next() {
		var mr MissedCallRow
		if err := rows.Scan(&mr.ID, &mr.CallID, &mr.Address, &mr.Component, &mr.At); err != nil {
			return nil, fmt.Errorf("%s - ListMissedCalls scan failed: %w", repoLogPrefix, err)
		}
		recs = append(recs, mr.Record())
	}
	return recs, nil
}
