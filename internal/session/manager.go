package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/educloud-dashboard/internal/models"
)

const (
	// DefaultSignInError is shown when a failure carries no message of its own.
	DefaultSignInError = "Failed to sign in"
	// InvalidCredentialsMessage is the sign-in form error for a bad email or password.
	InvalidCredentialsMessage = "Invalid login credentials"

	DefaultTTL = 7 * 24 * time.Hour

	tokenBytes = 32
)

var ErrInvalidCredentials = errors.New("invalid login credentials")

// UserLookup is the slice of the user repository sessions need.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Config struct {
	Secret string
	TTL    time.Duration
}

type Manager struct {
	store  Store
	users  UserLookup
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	// compared against when the email is unknown so both paths cost a bcrypt check
	dummyHash []byte
}

func NewManager(store Store, users UserLookup, cfg Config, logger *slog.Logger) *Manager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("educloud-placeholder"), bcrypt.DefaultCost)
	return &Manager{
		store:     store,
		users:     users,
		secret:    []byte(cfg.Secret),
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummy,
	}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Begin starts resolution for a new request.
func (m *Manager) Begin() *Session {
	return New()
}

// Resolve settles s from token. Unknown or expired tokens leave s anonymous
// without an error message; lookup failures are logged and treated the same.
func (m *Manager) Resolve(ctx context.Context, s *Session, token string) {
	if token == "" {
		s.Anonymous()
		return
	}

	rec, err := m.store.Load(ctx, m.key(token))
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			m.logger.ErrorContext(ctx, "Failed to load session", "error", err)
		}
		s.Anonymous()
		return
	}

	user, err := m.users.GetByID(ctx, rec.UserID)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to load session user", "error", err, "user_id", rec.UserID)
		s.Anonymous()
		return
	}
	if !user.IsActive() {
		m.logger.InfoContext(ctx, "Session user is inactive", "user_id", user.ID)
		_ = m.store.Delete(ctx, m.key(token))
		s.Anonymous()
		return
	}

	s.Authenticate(user)
}

// SignIn checks email and password and, on success, stores a new session and
// returns its token. On failure s is anonymous with an inline error and the
// returned error wraps ErrInvalidCredentials when the credentials were wrong.
// A failed user lookup is reported as an error of its own.
func (m *Manager) SignIn(ctx context.Context, s *Session, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := m.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		m.logger.ErrorContext(ctx, "Failed to load sign-in user", "error", err)
		s.Fail(DefaultSignInError)
		return "", fmt.Errorf("load user: %w", err)
	}
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(m.dummyHash, []byte(password))
		m.logger.InfoContext(ctx, "Sign-in rejected", "reason", "unknown email")
		s.Fail(InvalidCredentialsMessage)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		m.logger.InfoContext(ctx, "Sign-in rejected", "reason", "password mismatch", "user_id", user.ID)
		s.Fail(InvalidCredentialsMessage)
		return "", ErrInvalidCredentials
	}

	if !user.IsActive() {
		m.logger.InfoContext(ctx, "Sign-in rejected", "reason", "inactive", "user_id", user.ID)
		s.Fail(InvalidCredentialsMessage)
		return "", ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		s.Fail(DefaultSignInError)
		return "", fmt.Errorf("generate session token: %w", err)
	}

	now := m.now()
	rec := Record{
		UserID:    user.ID,
		TenantID:  user.TenantID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, m.key(token), rec, m.ttl); err != nil {
		s.Fail(DefaultSignInError)
		return "", err
	}

	s.Authenticate(user)
	m.logger.InfoContext(ctx, "User signed in", "user_id", user.ID, "role", user.Role)
	return token, nil
}

// SignOut clears s and forgets token. s is cleared even if the store fails.
func (m *Manager) SignOut(ctx context.Context, s *Session, token string) error {
	s.SignOut()
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, m.key(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// key derives the storage key so raw tokens never reach the store.
func (m *Manager) key(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
