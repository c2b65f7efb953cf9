package httpapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lapakpos/terminal/internal/domain"
	"lapakpos/terminal/internal/store/memory"
)

func mustHashPIN(t *testing.T, pin string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func newTestAuth(t *testing.T) (*AuthManager, *memory.Store) {
	t.Helper()

	local := memory.New()
	err := local.StoreStaff(context.Background(), []domain.StaffMember{
		{ID: "st1", OutletID: "store-1", Name: "Ani", Role: "cashier", PINHash: mustHashPIN(t, "4821"), Active: true},
		{ID: "st2", OutletID: "store-1", Name: "Budi", Role: "manager", PINHash: mustHashPIN(t, "9917"), Active: false},
	})
	if err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	return NewAuthManager("test-secret-key", time.Hour, "store-1", local), local
}

func TestLoginIssuesToken(t *testing.T) {
	auth, _ := newTestAuth(t)

	resp, err := auth.Login(context.Background(), domain.LoginRequest{StaffID: "st1", PIN: "4821"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.StaffName != "Ani" || resp.Role != "cashier" {
		t.Fatalf("unexpected response %+v", resp)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.StaffID != "st1" || actor.Role != "cashier" {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestLoginRejectsWrongPIN(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.Login(context.Background(), domain.LoginRequest{StaffID: "st1", PIN: "0000"})
	if !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
}

func TestLoginRejectsInactiveStaff(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.Login(context.Background(), domain.LoginRequest{StaffID: "st2", PIN: "9917"})
	if !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
}

func TestLoginLocksOutAfterRepeatedFailures(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	current := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return current }

	for i := 0; i < maxPINAttempts; i++ {
		if _, err := auth.Login(ctx, domain.LoginRequest{StaffID: "st1", PIN: "0000"}); !errors.Is(err, ErrInvalidPIN) {
			t.Fatalf("attempt %d: expected ErrInvalidPIN, got %v", i, err)
		}
	}

	// Even the correct PIN is refused while the gate is closed.
	if _, err := auth.Login(ctx, domain.LoginRequest{StaffID: "st1", PIN: "4821"}); !errors.Is(err, ErrLockedOut) {
		t.Fatalf("expected ErrLockedOut, got %v", err)
	}

	current = current.Add(lockoutWindow + time.Second)
	if _, err := auth.Login(ctx, domain.LoginRequest{StaffID: "st1", PIN: "4821"}); err != nil {
		t.Fatalf("expected login after lockout expiry, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth, _ := newTestAuth(t)

	if _, err := auth.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
