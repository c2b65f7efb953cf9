package httpapi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"lapakpos/terminal/internal/domain"
)

var (
	ErrInvalidPIN   = errors.New("invalid staff id or pin")
	ErrLockedOut    = errors.New("too many failed attempts, try again later")
	ErrInactive     = errors.New("staff account is inactive")
	ErrInvalidToken = errors.New("invalid or expired token")
)

const (
	maxPINAttempts = 5
	lockoutWindow  = 30 * time.Second
)

// StaffStore provides the locally cached staff credentials.
type StaffStore interface {
	ListStaff(ctx context.Context, outletID string) ([]domain.StaffMember, error)
}

// AuthManager verifies staff PINs against the locally synced bcrypt hashes
// and issues short-lived terminal JWTs. A countdown-attempts gate locks a
// staff id out after repeated failures.
type AuthManager struct {
	mu       sync.Mutex
	secret   []byte
	tokenTTL time.Duration
	outletID string
	staff    StaffStore
	attempts map[string]*attemptState
	now      func() time.Time
}

type attemptState struct {
	failures    int
	lockedUntil time.Time
}

type terminalClaims struct {
	jwtlib.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

func NewAuthManager(secret string, tokenTTL time.Duration, outletID string, staff StaffStore) *AuthManager {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &AuthManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		outletID: outletID,
		staff:    staff,
		attempts: make(map[string]*attemptState),
		now:      time.Now,
	}
}

func (a *AuthManager) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	staffID := strings.TrimSpace(req.StaffID)
	pin := strings.TrimSpace(req.PIN)
	if staffID == "" || pin == "" {
		return domain.LoginResponse{}, ErrInvalidPIN
	}

	if a.lockedOut(staffID) {
		return domain.LoginResponse{}, ErrLockedOut
	}

	member, err := a.findStaff(ctx, staffID)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if member == nil || !verifyPIN(member.PINHash, pin) {
		a.recordFailure(staffID)
		return domain.LoginResponse{}, ErrInvalidPIN
	}
	if !member.Active {
		return domain.LoginResponse{}, ErrInactive
	}

	a.clearFailures(staffID)

	expiresAt := a.now().UTC().Add(a.tokenTTL)
	token, err := a.sign(*member, expiresAt)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		AccessToken: token,
		StaffName:   member.Name,
		Role:        member.Role,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

func (a *AuthManager) findStaff(ctx context.Context, staffID string) (*domain.StaffMember, error) {
	staff, err := a.staff.ListStaff(ctx, a.outletID)
	if err != nil {
		return nil, err
	}
	for i := range staff {
		if staff[i].ID == staffID {
			return &staff[i], nil
		}
	}
	return nil, nil
}

func (a *AuthManager) lockedOut(staffID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, ok := a.attempts[staffID]
	if !ok {
		return false
	}
	if state.lockedUntil.After(a.now()) {
		return true
	}
	if !state.lockedUntil.IsZero() && !state.lockedUntil.After(a.now()) {
		// Lockout expired; the gate starts counting fresh.
		delete(a.attempts, staffID)
	}
	return false
}

func (a *AuthManager) recordFailure(staffID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, ok := a.attempts[staffID]
	if !ok {
		state = &attemptState{}
		a.attempts[staffID] = state
	}
	state.failures++
	if state.failures >= maxPINAttempts {
		state.lockedUntil = a.now().Add(lockoutWindow)
		state.failures = 0
	}
}

func (a *AuthManager) clearFailures(staffID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.attempts, staffID)
}

func (a *AuthManager) sign(member domain.StaffMember, expiresAt time.Time) (string, error) {
	claims := terminalClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   member.ID,
			IssuedAt:  jwtlib.NewNumericDate(a.now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "lapakpos-terminal",
		},
		Name: member.Name,
		Role: member.Role,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *AuthManager) ParseToken(tokenStr string) (domain.Actor, error) {
	claims := &terminalClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Actor{}, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, ErrInvalidToken
	}
	return domain.Actor{StaffID: sub, Name: claims.Name, Role: claims.Role}, nil
}

func verifyPIN(storedHash string, pin string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pin)) == nil
}
