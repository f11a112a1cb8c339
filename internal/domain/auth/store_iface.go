package auth

import (
	"context"
	"time"
)

type Credential struct {
	Principal
	PasswordHash string
	MFAEnabled   bool
	MFASecretEnc []byte
}

type User struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Department string     `json:"department"`
	CompanyID  int64      `json:"companyId"`
	EmployeeID int64      `json:"employeeId,omitempty"`
	MFAEnabled bool       `json:"mfaEnabled"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

type StoreAPI interface {
	FindActiveUserByEmail(ctx context.Context, email string) (Credential, error)
	GetUser(ctx context.Context, userID int64) (User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	UpdateMFASecret(ctx context.Context, userID int64, secretEnc []byte) error
	GetMFASecret(ctx context.Context, userID int64) ([]byte, error)
	SetMFAEnabled(ctx context.Context, userID int64, enabled bool) error
}

// Session is the server-side record backing an issued token.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	CompanyID int64     `json:"companyId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionStore interface {
	Create(ctx context.Context, sess Session) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}
