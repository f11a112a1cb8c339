package payroll

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/errs"
	"hrportal/internal/platform/querier"
)

const payrollColumns = `p.id, p.company_id, p.employee_id, e.first_name || ' ' || e.last_name,
       p.month, p.year, p.basic_salary, p.allowances, p.deductions, p.net_salary,
       p.status, p.paid_at, p.created_at, p.updated_at`

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	err := row.Scan(&p.ID, &p.CompanyID, &p.EmployeeID, &p.EmployeeName, &p.Month, &p.Year,
		&p.BasicSalary, &p.Allowances, &p.Deductions, &p.NetSalary, &p.Status, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func mapErr(err error, entity string) error {
	switch {
	case querier.NoRows(err):
		return fmt.Errorf("%s: %w", entity, errs.ErrNotFound)
	case querier.UniqueViolation(err):
		return fmt.Errorf("%s already exists for this period: %w", entity, errs.ErrConflict)
	case querier.CheckViolation(err):
		return errs.Invalid("deductions", NegativeNetReason)
	}
	return err
}

func (s *Store) List(ctx context.Context, scope auth.Scope, filter Filter) ([]Payroll, int, error) {
	where := " FROM payrolls p JOIN employees e ON e.id = p.employee_id WHERE p.company_id = $1"
	args := []any{scope.CompanyID}
	if scope.SelfOnly() {
		where += fmt.Sprintf(" AND p.employee_id = $%d", len(args)+1)
		args = append(args, scope.EmployeeID)
	}
	if filter.EmployeeID != 0 {
		where += fmt.Sprintf(" AND p.employee_id = $%d", len(args)+1)
		args = append(args, filter.EmployeeID)
	}
	if filter.Month != 0 {
		where += fmt.Sprintf(" AND p.month = $%d", len(args)+1)
		args = append(args, filter.Month)
	}
	if filter.Year != 0 {
		where += fmt.Sprintf(" AND p.year = $%d", len(args)+1)
		args = append(args, filter.Year)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + payrollColumns + where +
		fmt.Sprintf(" ORDER BY p.year DESC, p.month DESC, p.id DESC LIMIT NULLIF($%d, 0) OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, scope auth.Scope, payrollID int64) (Payroll, error) {
	p, err := scanPayroll(s.DB.QueryRow(ctx, `
    SELECT `+payrollColumns+`
    FROM payrolls p
    JOIN employees e ON e.id = p.employee_id
    WHERE p.id = $1 AND p.company_id = $2 AND ($3::bigint = 0 OR p.employee_id = $3)
  `, payrollID, scope.CompanyID, scope.EmployeeID))
	if err != nil {
		return Payroll{}, mapErr(err, "payroll")
	}
	return p, nil
}

// Create inserts only when the employee belongs to companyID.
func (s *Store) Create(ctx context.Context, companyID int64, in NewPayroll) (Payroll, error) {
	p, err := scanPayroll(s.DB.QueryRow(ctx, `
    WITH inserted AS (
      INSERT INTO payrolls (company_id, employee_id, month, year, basic_salary, allowances, deductions, net_salary)
      SELECT e.company_id, e.id, $3, $4, $5, $6, $7, $8
      FROM employees e
      WHERE e.id = $2 AND e.company_id = $1
      RETURNING *
    )
    SELECT `+payrollColumns+`
    FROM inserted p
    JOIN employees e ON e.id = p.employee_id
  `, companyID, in.EmployeeID, in.Month, in.Year, in.BasicSalary, in.Allowances, in.Deductions,
		ComputeNet(in.BasicSalary, in.Allowances, in.Deductions)))
	if err != nil {
		if querier.NoRows(err) {
			return Payroll{}, fmt.Errorf("employee: %w", errs.ErrNotFound)
		}
		return Payroll{}, mapErr(err, "payroll")
	}
	return p, nil
}

// Update merges patch and recomputes net_salary in the same statement.
// paid_at is kept only while the resulting status is PAID, and a paidAt
// without a status implies PAID.
func (s *Store) Update(ctx context.Context, companyID, payrollID int64, patch Patch) (Payroll, error) {
	p, err := scanPayroll(s.DB.QueryRow(ctx, `
    WITH updated AS (
      UPDATE payrolls
      SET basic_salary = COALESCE($3, basic_salary),
          allowances = COALESCE($4, allowances),
          deductions = COALESCE($5, deductions),
          net_salary = ROUND(COALESCE($3, basic_salary) + COALESCE($4, allowances) - COALESCE($5, deductions), 2),
          status = COALESCE($6::text, CASE WHEN $7::timestamptz IS NOT NULL THEN 'PAID' END, status),
          paid_at = CASE
            WHEN COALESCE($6::text, CASE WHEN $7::timestamptz IS NOT NULL THEN 'PAID' END, status) = 'PAID'
            THEN COALESCE($7::timestamptz, paid_at, now())
          END,
          updated_at = now()
      WHERE id = $1 AND company_id = $2
      RETURNING *
    )
    SELECT `+payrollColumns+`
    FROM updated p
    JOIN employees e ON e.id = p.employee_id
  `, payrollID, companyID, patch.BasicSalary, patch.Allowances, patch.Deductions, patch.Status, patch.PaidAt))
	if err != nil {
		return Payroll{}, mapErr(err, "payroll")
	}
	return p, nil
}

func (s *Store) StatRows(ctx context.Context, companyID int64, month, year int) ([]Amounts, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT basic_salary, net_salary, paid_at IS NOT NULL
    FROM payrolls
    WHERE company_id = $1
      AND ($2::int = 0 OR month = $2)
      AND ($3::int = 0 OR year = $3)
  `, companyID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Amounts{}
	for rows.Next() {
		var a Amounts
		if err := rows.Scan(&a.BasicSalary, &a.NetSalary, &a.Paid); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) PayslipData(ctx context.Context, scope auth.Scope, payrollID int64) (PayslipData, error) {
	var d PayslipData
	p := &d.Payroll
	err := s.DB.QueryRow(ctx, `
    SELECT `+payrollColumns+`, e.employee_number, e.email, e.department, e.position, c.name
    FROM payrolls p
    JOIN employees e ON e.id = p.employee_id
    JOIN companies c ON c.id = p.company_id
    WHERE p.id = $1 AND p.company_id = $2 AND ($3::bigint = 0 OR p.employee_id = $3)
  `, payrollID, scope.CompanyID, scope.EmployeeID).Scan(
		&p.ID, &p.CompanyID, &p.EmployeeID, &p.EmployeeName, &p.Month, &p.Year,
		&p.BasicSalary, &p.Allowances, &p.Deductions, &p.NetSalary, &p.Status, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
		&d.EmployeeNumber, &d.Email, &d.Department, &d.Position, &d.CompanyName,
	)
	if err != nil {
		return PayslipData{}, mapErr(err, "payroll")
	}
	return d, nil
}
