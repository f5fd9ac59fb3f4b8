package auth

import (
	"encoding/base64"
	"os"
	"testing"
	"time"
)

func jwt(payload string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"none"}`)) + "." + enc([]byte(payload)) + ".sig"
}

func TestSaveLoadDelete(t *testing.T) {
	s := NewStore(t.TempDir())
	now := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)

	ti, err := s.Load()
	if err != nil || ti != nil {
		t.Fatalf("Load on empty store = %v, %v", ti, err)
	}
	if _, err := s.Save("Bearer abc123", now); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}

	ti, err = s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if ti.Token != "abc123" || ti.Source != SourceFile || !ti.CreatedAt.Equal(now) {
		t.Errorf("loaded %+v", ti)
	}

	if err := s.Delete(); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestSave_Empty(t *testing.T) {
	if _, err := NewStore(t.TempDir()).Save("  ", time.Now()); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestResolve_ConfiguredWins(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.Save("saved", time.Now()); err != nil {
		t.Fatal(err)
	}
	ti, err := s.Resolve("bearer fromenv")
	if err != nil {
		t.Fatal(err)
	}
	if ti.Token != "fromenv" || ti.Source != SourceConfig {
		t.Errorf("got %+v", ti)
	}
	ti, err = s.Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if ti.Token != "saved" {
		t.Errorf("got %+v", ti)
	}
}

func TestJWTExpiry(t *testing.T) {
	tok := jwt(`{"sub":"idil","exp":1700000000}`)
	ti, err := NewStore(t.TempDir()).Save(tok, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if ti.ExpiresAt == nil || ti.ExpiresAt.Unix() != 1700000000 {
		t.Fatalf("ExpiresAt = %v", ti.ExpiresAt)
	}
	if !ti.Expired(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("token should be expired")
	}

	claims, err := Claims(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims["sub"] != "idil" {
		t.Errorf("claims = %v", claims)
	}
	if _, err := Claims("opaque"); err == nil {
		t.Error("expected error for opaque token")
	}
}
