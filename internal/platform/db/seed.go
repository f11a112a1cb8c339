package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/querier"
)

// DevAdminPassword is used for the seeded administrator outside production
// when SEED_ADMIN_PASSWORD is empty.
const DevAdminPassword = "admin123"

type SeedResult struct {
	CompanyID  int64
	EmployeeID int64
	UserID     int64
	Created    bool
}

// Seed makes sure the configured company has an ADMIN user with a linked
// employee record. It is idempotent.
func Seed(ctx context.Context, q querier.Querier, cfg config.Config) (SeedResult, error) {
	password, err := seedPassword(cfg)
	if err != nil {
		return SeedResult{}, err
	}
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" {
		return SeedResult{}, errors.New("db: seed: SEED_ADMIN_EMAIL is empty")
	}

	var res SeedResult
	if res.CompanyID, err = ensureCompany(ctx, q, cfg.SeedCompanyName, cfg.SeedCompanyRegNo); err != nil {
		return SeedResult{}, fmt.Errorf("db: seed company: %w", err)
	}
	if res.EmployeeID, err = ensureEmployee(ctx, q, res.CompanyID, email); err != nil {
		return SeedResult{}, fmt.Errorf("db: seed employee: %w", err)
	}
	if res.UserID, res.Created, err = ensureAdminUser(ctx, q, res.CompanyID, res.EmployeeID, email, password); err != nil {
		return SeedResult{}, fmt.Errorf("db: seed admin: %w", err)
	}
	if res.Created {
		slog.Info("seeded admin user", "email", email, "companyId", res.CompanyID)
	}
	return res, nil
}

func seedPassword(cfg config.Config) (string, error) {
	if p := strings.TrimSpace(cfg.SeedAdminPassword); p != "" {
		return p, nil
	}
	if cfg.IsProduction() {
		return "", errors.New("db: seed: SEED_ADMIN_PASSWORD is required in production")
	}
	return DevAdminPassword, nil
}

func ensureCompany(ctx context.Context, q querier.Querier, name, regNo string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, "SELECT id FROM companies WHERE registration_no = $1", regNo).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	err = q.QueryRow(ctx, "INSERT INTO companies (name, registration_no) VALUES ($1, $2) RETURNING id", name, regNo).Scan(&id)
	return id, err
}

func ensureEmployee(ctx context.Context, q querier.Querier, companyID int64, email string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	err = q.QueryRow(ctx, `
		INSERT INTO employees (company_id, employee_number, first_name, last_name, email, department, position)
		VALUES ($1, 'EMP-0001', 'System', 'Administrator', $2, 'Management', 'Administrator')
		RETURNING id`, companyID, email).Scan(&id)
	return id, err
}

func ensureAdminUser(ctx context.Context, q querier.Querier, companyID, employeeID int64, email, password string) (int64, bool, error) {
	var id int64
	err := q.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, false, err
	}
	err = q.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, role, company_id, employee_id, department)
		VALUES ($1, $2, 'System Administrator', $3, $4, $5, 'Management')
		RETURNING id`, email, hash, auth.RoleAdmin, companyID, employeeID).Scan(&id)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
