package session

import (
	"path/filepath"
	"testing"

	"inkwell/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTokensRoundTrip(t *testing.T) {
	s := newStore(t)

	pair := domain.BearerPair("access-123", "refresh-456")
	if err := s.SetTokens("sid-1", pair); err != nil {
		t.Fatalf("set tokens: %v", err)
	}

	got, err := s.Tokens("sid-1")
	if err != nil {
		t.Fatalf("get tokens: %v", err)
	}
	if got.AccessToken != "Bearer access-123" {
		t.Errorf("access token: got %q", got.AccessToken)
	}
	if got.RefreshToken != "Bearer refresh-456" {
		t.Errorf("refresh token: got %q", got.RefreshToken)
	}
}

func TestSetTokensReplaces(t *testing.T) {
	s := newStore(t)

	if err := s.SetTokens("sid-1", domain.BearerPair("old", "old")); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if err := s.SetTokens("sid-1", domain.BearerPair("new-a", "new-r")); err != nil {
		t.Fatalf("replace tokens: %v", err)
	}

	got, err := s.Tokens("sid-1")
	if err != nil {
		t.Fatalf("get tokens: %v", err)
	}
	if got.AccessToken != "Bearer new-a" || got.RefreshToken != "Bearer new-r" {
		t.Errorf("tokens not replaced: %+v", got)
	}
}

func TestAccount(t *testing.T) {
	s := newStore(t)

	if got := s.Account("nope"); !got.Empty() {
		t.Fatalf("expected empty account for unknown session, got %+v", got)
	}

	s.SetAccount("sid-1", domain.Account{Name: "Demo User", Username: "demo"})
	got := s.Account("sid-1")
	if got.Name != "Demo User" || got.Username != "demo" {
		t.Errorf("account mismatch: %+v", got)
	}
}

func TestDeleteClearsEverything(t *testing.T) {
	s := newStore(t)

	s.SetAccount("sid-1", domain.Account{Name: "Demo", Username: "demo"})
	if err := s.SetTokens("sid-1", domain.BearerPair("a", "r")); err != nil {
		t.Fatalf("set tokens: %v", err)
	}

	if err := s.Delete("sid-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := s.Account("sid-1"); !got.Empty() {
		t.Errorf("account survived delete: %+v", got)
	}
	tokens, err := s.Tokens("sid-1")
	if err != nil {
		t.Fatalf("get tokens: %v", err)
	}
	if !tokens.Empty() {
		t.Errorf("tokens survived delete: %+v", tokens)
	}
}

func TestTokensSurviveReopenAccountsDoNot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s.SetAccount("sid-1", domain.Account{Name: "Demo", Username: "demo"})
	if err := s.SetTokens("sid-1", domain.BearerPair("a", "r")); err != nil {
		t.Fatalf("set tokens: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	tokens, err := reopened.Tokens("sid-1")
	if err != nil {
		t.Fatalf("get tokens: %v", err)
	}
	if tokens.AccessToken != "Bearer a" {
		t.Errorf("tokens lost across reopen: %+v", tokens)
	}
	if got := reopened.Account("sid-1"); !got.Empty() {
		t.Errorf("account is memory-only and should not survive reopen: %+v", got)
	}
}
