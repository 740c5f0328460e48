// Package session is the session store: the logged-in account per browser
// session, plus the two bearer tokens in durable storage. The account lives
// only in memory; tokens survive a process restart, the account does not.
package session

import (
	"database/sql"
	"embed"
	"errors"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"inkwell/domain"
)

// Storage keys for the two tokens. Values are stored with the Bearer prefix
// already applied.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	db       *sql.DB
}

// Open opens (creating if needed) the session database and runs schema
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		accounts: make(map[string]domain.Account),
		db:       db,
	}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// SetAccount replaces the active identity for the session.
func (s *Store) SetAccount(sessionID string, a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[sessionID] = a
}

// Account returns the current identity, or the zero Account when the
// session has none.
func (s *Store) Account(sessionID string) domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[sessionID]
}

// SetTokens persists both token keys. The two writes are independent; there
// is no transaction spanning them.
func (s *Store) SetTokens(sessionID string, t domain.TokenPair) error {
	if err := s.setKey(sessionID, KeyAccessToken, t.AccessToken); err != nil {
		return err
	}
	return s.setKey(sessionID, KeyRefreshToken, t.RefreshToken)
}

func (s *Store) setKey(sessionID, key, value string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO session_tokens (session_id, key, value, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt`,
		sessionID, key, value, now, now)
	return err
}

// Tokens returns the stored pair for the session. Missing keys come back as
// empty strings; no validation of token well-formedness is done.
func (s *Store) Tokens(sessionID string) (domain.TokenPair, error) {
	rows, err := s.db.Query("SELECT key, value FROM session_tokens WHERE session_id = ?", sessionID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	defer rows.Close()

	var t domain.TokenPair
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return domain.TokenPair{}, err
		}
		switch key {
		case KeyAccessToken:
			t.AccessToken = value
		case KeyRefreshToken:
			t.RefreshToken = value
		}
	}
	return t, rows.Err()
}

// Delete removes the account and both stored token keys for the session.
func (s *Store) Delete(sessionID string) error {
	s.mu.Lock()
	delete(s.accounts, sessionID)
	s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM session_tokens WHERE session_id = ?", sessionID)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
