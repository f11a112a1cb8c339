package dashboard

import (
	"context"

	"hrportal/internal/platform/querier"
)

// Store counts across the whole installation when companyID is zero and
// ignores status when it is empty.
type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (s *Store) CountCompanies(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(1) FROM companies`)
}

func (s *Store) CountEmployees(ctx context.Context, companyID int64, status string) (int, error) {
	return s.count(ctx, `
    SELECT COUNT(1) FROM employees
    WHERE ($1::bigint = 0 OR company_id = $1) AND ($2::text = '' OR status = $2)
  `, companyID, status)
}

func (s *Store) CountLeaves(ctx context.Context, companyID int64, status string) (int, error) {
	return s.count(ctx, `
    SELECT COUNT(1) FROM leaves
    WHERE ($1::bigint = 0 OR company_id = $1) AND ($2::text = '' OR status = $2)
  `, companyID, status)
}

func (s *Store) CountDocuments(ctx context.Context, companyID int64) (int, error) {
	return s.count(ctx, `SELECT COUNT(1) FROM documents WHERE ($1::bigint = 0 OR company_id = $1)`, companyID)
}

func (s *Store) PayrollTotal(ctx context.Context, companyID int64, month, year int) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(net_salary), 0)::float8
    FROM payrolls
    WHERE company_id = $1 AND month = $2 AND year = $3
  `, companyID, month, year).Scan(&total)
	return total, err
}

func (s *Store) RecentEmployees(ctx context.Context, companyID int64, limit int) ([]RecentEmployee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_number, first_name || ' ' || last_name, department, position, created_at
    FROM employees
    WHERE company_id = $1
    ORDER BY created_at DESC, id DESC
    LIMIT $2
  `, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RecentEmployee{}
	for rows.Next() {
		var e RecentEmployee
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Department, &e.Position, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
