package gcloud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNoCredential indicates that credentials.db holds no entry for the
// requested account.
var ErrNoCredential = errors.New("gcloud: no credential for account")

// CredentialStore reads gcloud's credentials.db.
type CredentialStore struct {
	db *sql.DB
}

// OpenCredentialStore opens credentials.db at path. An empty path uses
// the default location inside the gcloud configuration directory.
// The database is opened read-only; gcloud owns the schema.
func OpenCredentialStore(path string) (*CredentialStore, error) {
	if path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "credentials.db")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to locate credentials database: %w", err)
	}

	// mode=ro only takes effect behind the file: URI scheme.
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials database: %w", err)
	}
	return &CredentialStore{db: db}, nil
}

// Credential returns the raw authorized-user credential JSON stored by
// `gcloud auth login` for the account.
func (s *CredentialStore) Credential(ctx context.Context, account string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM credentials WHERE account_id = ?", account,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoCredential, account)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials database: %w", err)
	}
	return []byte(value), nil
}

// Accounts lists the accounts present in the credential store.
func (s *CredentialStore) Accounts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT account_id FROM credentials ORDER BY account_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials database: %w", err)
	}
	defer rows.Close()

	var accounts []string
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Close closes the underlying database.
func (s *CredentialStore) Close() error {
	return s.db.Close()
}
