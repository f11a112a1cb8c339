package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"hrportal/internal/domain/errs"
	cryptoutil "hrportal/internal/platform/crypto"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", errs.ErrUnauthorized)
	ErrMFARequired        = fmt.Errorf("mfa code required: %w", errs.ErrUnauthorized)
	ErrMFAInvalid         = fmt.Errorf("invalid mfa code: %w", errs.ErrUnauthorized)
	ErrMFAUnavailable     = errs.Invalid("mfa", "requires a configured encryption key")
)

// Service issues and verifies tokens against the credential store.
type Service struct {
	store    StoreAPI
	sessions SessionStore
	crypto   *cryptoutil.Service
	secret   string
	ttl      time.Duration
}

// NewService wires the issuer. sessions may be nil, in which case tokens are
// verified by signature and expiry only.
func NewService(store StoreAPI, sessions SessionStore, crypto *cryptoutil.Service, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{store: store, sessions: sessions, crypto: crypto, secret: secret, ttl: ttl}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (Principal, string, error) {
	email = strings.TrimSpace(email)
	var issues []errs.Issue
	if email == "" {
		issues = append(issues, errs.Issue{Field: "email", Reason: "is required"})
	}
	if password == "" {
		issues = append(issues, errs.Issue{Field: "password", Reason: "is required"})
	}
	if err := errs.NewValidation(issues); err != nil {
		return Principal{}, "", err
	}

	cred, err := s.store.FindActiveUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Principal{}, "", ErrInvalidCredentials
		}
		return Principal{}, "", fmt.Errorf("find user: %w", err)
	}
	if err := CheckPassword(cred.PasswordHash, password); err != nil {
		return Principal{}, "", ErrInvalidCredentials
	}

	if cred.MFAEnabled {
		if strings.TrimSpace(mfaCode) == "" {
			return Principal{}, "", ErrMFARequired
		}
		secret, err := s.decryptSecret(cred.MFASecretEnc)
		if err != nil || secret == "" || !totp.Validate(mfaCode, secret) {
			return Principal{}, "", ErrMFAInvalid
		}
	}

	principal := cred.Principal
	principal.SessionID = uuid.NewString()

	if s.sessions != nil {
		if err := s.sessions.Create(ctx, Session{
			ID:        principal.SessionID,
			UserID:    principal.UserID,
			CompanyID: principal.CompanyID,
			Role:      principal.Role,
			ExpiresAt: time.Now().Add(s.ttl),
		}); err != nil {
			return Principal{}, "", fmt.Errorf("create session: %w", err)
		}
	}

	token, err := GenerateToken(s.secret, ClaimsFor(principal), s.ttl)
	if err != nil {
		return Principal{}, "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.store.UpdateLastLogin(ctx, principal.UserID); err != nil {
		slog.Warn("update last_login failed", "userId", principal.UserID, "err", err)
	}
	return principal, token, nil
}

// Verify resolves a principal from a signed token. Any failure is reported
// as errs.ErrUnauthorized; session store faults fail closed.
func (s *Service) Verify(ctx context.Context, token string) (Principal, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return Principal{}, fmt.Errorf("parse token: %w", errs.ErrUnauthorized)
	}
	principal := claims.Principal()
	if principal.UserID == 0 || principal.CompanyID == 0 || !ValidRole(principal.Role) {
		return Principal{}, fmt.Errorf("incomplete claims: %w", errs.ErrUnauthorized)
	}
	if s.sessions != nil {
		ok, err := s.sessions.Exists(ctx, principal.SessionID)
		if err != nil {
			slog.Warn("session lookup failed", "userId", principal.UserID, "err", err)
			return Principal{}, fmt.Errorf("session lookup: %w", errs.ErrUnauthorized)
		}
		if !ok {
			return Principal{}, fmt.Errorf("session revoked: %w", errs.ErrUnauthorized)
		}
	}
	return principal, nil
}

func (s *Service) Logout(ctx context.Context, p Principal) error {
	if s.sessions == nil || p.SessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, p.SessionID)
}

func (s *Service) Me(ctx context.Context, p Principal) (User, error) {
	user, err := s.store.GetUser(ctx, p.UserID)
	if err != nil {
		return User{}, err
	}
	if user.CompanyID != p.CompanyID {
		return User{}, fmt.Errorf("user: %w", errs.ErrNotFound)
	}
	return user, nil
}

func (s *Service) SetupMFA(ctx context.Context, p Principal) (string, string, error) {
	if s.crypto == nil || !s.crypto.Configured() {
		return "", "", ErrMFAUnavailable
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "HRPortal",
		AccountName: accountName(p),
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return "", "", fmt.Errorf("generate mfa secret: %w", err)
	}
	encrypted, err := s.crypto.EncryptString(key.Secret())
	if err != nil {
		return "", "", fmt.Errorf("encrypt mfa secret: %w", err)
	}
	if err := s.store.UpdateMFASecret(ctx, p.UserID, encrypted); err != nil {
		return "", "", fmt.Errorf("store mfa secret: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

func (s *Service) EnableMFA(ctx context.Context, p Principal, code string) error {
	if s.crypto == nil || !s.crypto.Configured() {
		return ErrMFAUnavailable
	}
	if strings.TrimSpace(code) == "" {
		return errs.Invalid("code", "is required")
	}
	secretEnc, err := s.store.GetMFASecret(ctx, p.UserID)
	if err != nil {
		return err
	}
	if len(secretEnc) == 0 {
		return errs.Invalid("mfa", "setup required")
	}
	secret, err := s.decryptSecret(secretEnc)
	if err != nil {
		return fmt.Errorf("decrypt mfa secret: %w", err)
	}
	if !totp.Validate(code, secret) {
		return errs.Invalid("code", "is not valid")
	}
	return s.store.SetMFAEnabled(ctx, p.UserID, true)
}

func (s *Service) decryptSecret(secretEnc []byte) (string, error) {
	if s.crypto == nil {
		return string(secretEnc), nil
	}
	return s.crypto.DecryptString(secretEnc)
}

func accountName(p Principal) string {
	if p.Email != "" {
		return p.Email
	}
	return strconv.FormatInt(p.UserID, 10)
}
