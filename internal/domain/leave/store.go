package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/errs"
	"hrportal/internal/platform/querier"
)

const leaveColumns = `l.id, l.company_id, l.employee_id, e.first_name || ' ' || e.last_name,
       l.type, l.status, l.start_date, l.end_date, l.days, l.reason, l.applied_at, l.decided_by, l.decided_at`

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func scanLeave(row pgx.Row) (Leave, error) {
	var l Leave
	err := row.Scan(&l.ID, &l.CompanyID, &l.EmployeeID, &l.EmployeeName, &l.Type, &l.Status,
		&l.StartDate, &l.EndDate, &l.Days, &l.Reason, &l.AppliedAt, &l.DecidedBy, &l.DecidedAt)
	return l, err
}

func notFound(err error, entity string) error {
	if querier.NoRows(err) {
		return fmt.Errorf("%s: %w", entity, errs.ErrNotFound)
	}
	return err
}

func (s *Store) List(ctx context.Context, scope auth.Scope, filter Filter) ([]Leave, int, error) {
	where := " FROM leaves l JOIN employees e ON e.id = l.employee_id WHERE l.company_id = $1"
	args := []any{scope.CompanyID}
	if scope.SelfOnly() {
		where += fmt.Sprintf(" AND l.employee_id = $%d", len(args)+1)
		args = append(args, scope.EmployeeID)
	}
	if filter.EmployeeID != 0 {
		where += fmt.Sprintf(" AND l.employee_id = $%d", len(args)+1)
		args = append(args, filter.EmployeeID)
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND l.status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		where += fmt.Sprintf(" AND l.type = $%d", len(args)+1)
		args = append(args, filter.Type)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + leaveColumns + where +
		fmt.Sprintf(" ORDER BY l.applied_at DESC, l.id DESC LIMIT NULLIF($%d, 0) OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, scope auth.Scope, leaveID int64) (Leave, error) {
	l, err := scanLeave(s.DB.QueryRow(ctx, `
    SELECT `+leaveColumns+`
    FROM leaves l
    JOIN employees e ON e.id = l.employee_id
    WHERE l.id = $1 AND l.company_id = $2 AND ($3::bigint = 0 OR l.employee_id = $3)
  `, leaveID, scope.CompanyID, scope.EmployeeID))
	if err != nil {
		return Leave{}, notFound(err, "leave")
	}
	return l, nil
}

func (s *Store) Create(ctx context.Context, companyID, employeeID int64, in NewLeave, days float64) (Leave, error) {
	l, err := scanLeave(s.DB.QueryRow(ctx, `
    WITH inserted AS (
      INSERT INTO leaves (company_id, employee_id, type, start_date, end_date, days, reason)
      SELECT e.company_id, e.id, $3, $4, $5, $6, $7
      FROM employees e
      WHERE e.id = $2 AND e.company_id = $1
      RETURNING *
    )
    SELECT `+leaveColumns+`
    FROM inserted l
    JOIN employees e ON e.id = l.employee_id
  `, companyID, employeeID, in.Type, in.StartDate, in.EndDate, days, in.Reason))
	if err != nil {
		return Leave{}, notFound(err, "employee")
	}
	return l, nil
}

func (s *Store) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM leaves
      WHERE employee_id = $1
        AND status IN ('PENDING', 'APPROVED')
        AND start_date <= $3 AND end_date >= $2
    )
  `, employeeID, start, end).Scan(&exists)
	return exists, err
}

func (s *Store) Decide(ctx context.Context, companyID, leaveID int64, status string, decidedBy, deciderEmployeeID int64) (Leave, error) {
	l, err := scanLeave(s.DB.QueryRow(ctx, `
    WITH updated AS (
      UPDATE leaves
      SET status = $3, decided_by = $4, decided_at = now()
      WHERE id = $1 AND company_id = $2 AND status = 'PENDING' AND employee_id <> $5
      RETURNING *
    )
    SELECT `+leaveColumns+`
    FROM updated l
    JOIN employees e ON e.id = l.employee_id
  `, leaveID, companyID, status, decidedBy, deciderEmployeeID))
	if err != nil {
		return Leave{}, notFound(err, "leave")
	}
	return l, nil
}

func (s *Store) BalanceEmployee(ctx context.Context, companyID, employeeID int64) (BalanceEmployee, error) {
	var e BalanceEmployee
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_number, first_name || ' ' || last_name, department, leave_balance
    FROM employees
    WHERE id = $1 AND company_id = $2
  `, employeeID, companyID).Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Department, &e.LeaveBalance)
	if err != nil {
		return BalanceEmployee{}, notFound(err, "employee")
	}
	return e, nil
}

func (s *Store) BalanceRows(ctx context.Context, companyID, employeeID int64, from, to time.Time) ([]BalanceRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT type, status, start_date
    FROM leaves
    WHERE company_id = $1 AND employee_id = $2
      AND start_date BETWEEN $3 AND $4
      AND status IN ('PENDING', 'APPROVED')
  `, companyID, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BalanceRow{}
	for rows.Next() {
		var r BalanceRow
		if err := rows.Scan(&r.Type, &r.Status, &r.StartDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
