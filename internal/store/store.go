// Package store persists service accounts in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/AntoineGS/smaccounts/internal/account"
)

var (
	// ErrNotFound is returned when an account does not exist.
	ErrNotFound = errors.New("service account not found")
	// ErrInvalidName is returned for an empty or blank account name.
	ErrInvalidName = errors.New("service account name must not be empty")
)

// DeleteResult reports the outcome of deleting one account in a bulk delete.
// Error is empty on success.
type DeleteResult struct {
	ID    string
	Error string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for creation and revision dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store manages the SQLite database of service accounts.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database at the given path and runs migrations.
func Open(dbPath string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close() //nolint:errcheck,gosec // best-effort cleanup on error path
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close() //nolint:errcheck,gosec // best-effort cleanup on error path
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (account.ServiceAccount, error) {
	var a account.ServiceAccount
	var created, revised string

	if err := row.Scan(&a.ID, &a.OrganizationID, &a.Name, &created, &revised); err != nil {
		return a, err
	}

	var err error
	if a.CreationDate, err = parseTime(created); err != nil {
		return a, fmt.Errorf("parsing creation_date: %w", err)
	}
	if a.RevisionDate, err = parseTime(revised); err != nil {
		return a, fmt.Errorf("parsing revision_date: %w", err)
	}

	return a, nil
}

// List returns the accounts of an organization ordered by name.
func (s *Store) List(ctx context.Context, orgID string) ([]account.ServiceAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, name, creation_date, revision_date
		FROM service_accounts
		WHERE organization_id = ?
		ORDER BY name COLLATE NOCASE, id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("querying service accounts: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck,gosec // defer close is best-effort

	var accounts []account.ServiceAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning service account: %w", err)
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// Get returns one account by ID. Returns nil if it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*account.ServiceAccount, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, name, creation_date, revision_date
		FROM service_accounts
		WHERE id = ?
	`, id)

	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil means "not found", distinct from error
	}
	if err != nil {
		return nil, fmt.Errorf("querying service account %s: %w", id, err)
	}

	return &a, nil
}

// Create inserts a new account with a generated ID.
func (s *Store) Create(ctx context.Context, orgID, name string) (account.ServiceAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return account.ServiceAccount{}, ErrInvalidName
	}

	now := s.now().UTC()
	a := account.ServiceAccount{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Name:           name,
		CreationDate:   now,
		RevisionDate:   now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO service_accounts (id, organization_id, name, creation_date, revision_date)
		VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.OrganizationID, a.Name, formatTime(now), formatTime(now))
	if err != nil {
		return account.ServiceAccount{}, fmt.Errorf("creating service account: %w", err)
	}

	return a, nil
}

// Rename changes an account's name and bumps its revision date. Accounts
// outside orgID are reported as ErrNotFound.
func (s *Store) Rename(ctx context.Context, orgID, id, name string) (account.ServiceAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return account.ServiceAccount{}, ErrInvalidName
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE service_accounts SET name = ?, revision_date = ?
		WHERE id = ? AND organization_id = ?
	`, name, formatTime(s.now().UTC()), id, orgID)
	if err != nil {
		return account.ServiceAccount{}, fmt.Errorf("renaming service account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return account.ServiceAccount{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return account.ServiceAccount{}, err
	}
	if a == nil {
		return account.ServiceAccount{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return *a, nil
}

// Delete removes accounts of orgID in one transaction. It returns one result
// per ID in the order given; a missing ID, or one that belongs to another
// organization, is reported in its result and does not abort the others.
func (s *Store) Delete(ctx context.Context, orgID string, ids ...string) ([]DeleteResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning delete: %w", err)
	}

	results := make([]DeleteResult, 0, len(ids))
	for _, id := range ids {
		res, err := tx.ExecContext(ctx, `DELETE FROM service_accounts WHERE id = ? AND organization_id = ?`, id, orgID)
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
			return nil, fmt.Errorf("deleting service account %s: %w", id, err)
		}

		r := DeleteResult{ID: id}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			r.Error = ErrNotFound.Error()
		}
		results = append(results, r)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing delete: %w", err)
	}

	return results, nil
}

// migrate runs schema migrations.
func (s *Store) migrate(ctx context.Context) error {
	currentVersion := s.getSchemaVersion(ctx)

	migrations := []func(context.Context, *sql.Tx) error{
		migrateV1,
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}

		if err := migrations[i](ctx, tx); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort on migration failure
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
			return fmt.Errorf("updating schema version: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
			return fmt.Errorf("inserting schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, or 0 for a new database.
func (s *Store) getSchemaVersion(ctx context.Context) int {
	var tableName string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&tableName)
	if err != nil {
		return 0
	}

	var version int
	if err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version); err != nil {
		return 0
	}

	return version
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a timestamp string from SQLite, trying multiple formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS service_accounts (
			id               TEXT PRIMARY KEY,
			organization_id  TEXT NOT NULL,
			name             TEXT NOT NULL,
			creation_date    TEXT NOT NULL,
			revision_date    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_service_accounts_org
			ON service_accounts(organization_id, name)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	return nil
}
