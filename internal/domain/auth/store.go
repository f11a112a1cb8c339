package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/errs"
	"hrportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (Credential, error) {
	var out Credential
	var employeeID *int64
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, name, role, department, company_id, employee_id, password_hash, mfa_enabled, mfa_secret_enc
    FROM users
    WHERE email = $1 AND status = $2
  `, email, UserStatusActive).Scan(
		&out.UserID, &out.Email, &out.Name, &out.Role, &out.Department, &out.CompanyID, &employeeID,
		&out.PasswordHash, &out.MFAEnabled, &out.MFASecretEnc,
	)
	if err != nil {
		return Credential{}, notFound(err, "user")
	}
	if employeeID != nil {
		out.EmployeeID = *employeeID
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, userID int64) (User, error) {
	var out User
	var employeeID *int64
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, name, role, department, company_id, employee_id, mfa_enabled, last_login
    FROM users
    WHERE id = $1 AND status = $2
  `, userID, UserStatusActive).Scan(
		&out.ID, &out.Email, &out.Name, &out.Role, &out.Department, &out.CompanyID, &employeeID, &out.MFAEnabled, &out.LastLogin,
	)
	if err != nil {
		return User{}, notFound(err, "user")
	}
	if employeeID != nil {
		out.EmployeeID = *employeeID
	}
	return out, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) UpdateMFASecret(ctx context.Context, userID int64, secretEnc []byte) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET mfa_secret_enc = $1, mfa_enabled = false WHERE id = $2", secretEnc, userID)
	return err
}

func (s *Store) GetMFASecret(ctx context.Context, userID int64) ([]byte, error) {
	var secretEnc []byte
	if err := s.DB.QueryRow(ctx, "SELECT mfa_secret_enc FROM users WHERE id = $1", userID).Scan(&secretEnc); err != nil {
		return nil, notFound(err, "user")
	}
	return secretEnc, nil
}

func (s *Store) SetMFAEnabled(ctx context.Context, userID int64, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET mfa_enabled = $1 WHERE id = $2", enabled, userID)
	return err
}

func notFound(err error, entity string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, errs.ErrNotFound)
	}
	return err
}
