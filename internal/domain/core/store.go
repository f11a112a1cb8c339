package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/errs"
	"hrportal/internal/platform/querier"
)

const employeeColumns = `id, employee_number, first_name, last_name, email, department, position,
       company_id, leave_balance, date_joined, status, created_at, updated_at`

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.Position,
		&e.CompanyID, &e.LeaveBalance, &e.DateJoined, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func mapErr(err error, entity string) error {
	switch {
	case querier.NoRows(err):
		return fmt.Errorf("%s: %w", entity, errs.ErrNotFound)
	case querier.UniqueViolation(err):
		return fmt.Errorf("%s: %w", entity, errs.ErrConflict)
	}
	return err
}

func (s *Store) GetCompany(ctx context.Context, companyID int64) (Company, error) {
	var c Company
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, registration_no, address, created_at
    FROM companies
    WHERE id = $1
  `, companyID).Scan(&c.ID, &c.Name, &c.RegistrationNo, &c.Address, &c.CreatedAt)
	if err != nil {
		return Company{}, mapErr(err, "company")
	}
	return c, nil
}

func (s *Store) ListEmployees(ctx context.Context, scope auth.Scope, filter EmployeeFilter) ([]Employee, int, error) {
	where := " FROM employees WHERE company_id = $1"
	args := []any{scope.CompanyID}
	if scope.SelfOnly() {
		where += fmt.Sprintf(" AND id = $%d", len(args)+1)
		args = append(args, scope.EmployeeID)
	}
	if filter.Department != "" {
		where += fmt.Sprintf(" AND department = $%d", len(args)+1)
		args = append(args, filter.Department)
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pos := len(args) + 1
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR employee_number ILIKE $%d)", pos, pos, pos, pos)
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + employeeColumns + where +
		fmt.Sprintf(" ORDER BY last_name, first_name, id LIMIT NULLIF($%d, 0) OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, scope auth.Scope, employeeID int64) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id = $1 AND company_id = $2 AND ($3::bigint = 0 OR id = $3)
  `, employeeID, scope.CompanyID, scope.EmployeeID))
	if err != nil {
		return Employee{}, mapErr(err, "employee")
	}
	return emp, nil
}

func (s *Store) CreateEmployee(ctx context.Context, companyID int64, in NewEmployee) (Employee, error) {
	balance := DefaultLeaveBalance
	if in.LeaveBalance != nil {
		balance = *in.LeaveBalance
	}
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (company_id, employee_number, first_name, last_name, email, department, position, leave_balance, date_joined)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9::date, CURRENT_DATE))
    RETURNING `+employeeColumns,
		companyID, in.EmployeeNumber, in.FirstName, in.LastName, in.Email, in.Department, in.Position, balance, nullDate(in)))
	if err != nil {
		return Employee{}, mapErr(err, "employee")
	}
	return emp, nil
}

func nullDate(in NewEmployee) any {
	if in.DateJoined.IsZero() {
		return nil
	}
	return in.DateJoined
}

func (s *Store) UpdateEmployee(ctx context.Context, companyID, employeeID int64, patch EmployeePatch) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET department = COALESCE($3, department),
        position = COALESCE($4, position),
        status = COALESCE($5, status),
        leave_balance = COALESCE($6, leave_balance),
        updated_at = now()
    WHERE id = $1 AND company_id = $2
    RETURNING `+employeeColumns,
		employeeID, companyID, patch.Department, patch.Position, patch.Status, patch.LeaveBalance))
	if err != nil {
		return Employee{}, mapErr(err, "employee")
	}
	return emp, nil
}

func (s *Store) RecentLeaves(ctx context.Context, companyID, employeeID int64, limit int) ([]LeaveSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, type, status, start_date, end_date, days, applied_at
    FROM leaves
    WHERE company_id = $1 AND employee_id = $2
    ORDER BY applied_at DESC, id DESC
    LIMIT $3
  `, companyID, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LeaveSummary{}
	for rows.Next() {
		var l LeaveSummary
		if err := rows.Scan(&l.ID, &l.Type, &l.Status, &l.StartDate, &l.EndDate, &l.Days, &l.AppliedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) RecentDocuments(ctx context.Context, companyID, employeeID int64, limit int) ([]DocumentSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, category, created_at
    FROM documents
    WHERE company_id = $1 AND employee_id = $2
    ORDER BY created_at DESC, id DESC
    LIMIT $3
  `, companyID, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DocumentSummary{}
	for rows.Next() {
		var d DocumentSummary
		if err := rows.Scan(&d.ID, &d.Title, &d.Category, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
