package documents

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/errs"
	"hrportal/internal/platform/querier"
)

const documentColumns = `d.id, d.company_id, d.employee_id, e.first_name || ' ' || e.last_name,
       d.title, d.category, d.file_url, d.uploaded_by, d.created_at`

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.CompanyID, &d.EmployeeID, &d.EmployeeName, &d.Title, &d.Category, &d.FileURL, &d.UploadedBy, &d.CreatedAt)
	return d, err
}

func notFound(err error, entity string) error {
	if querier.NoRows(err) {
		return fmt.Errorf("%s: %w", entity, errs.ErrNotFound)
	}
	return err
}

func (s *Store) List(ctx context.Context, scope auth.Scope, filter Filter) ([]Document, int, error) {
	where := " FROM documents d JOIN employees e ON e.id = d.employee_id WHERE d.company_id = $1"
	args := []any{scope.CompanyID}
	if scope.SelfOnly() {
		where += fmt.Sprintf(" AND d.employee_id = $%d", len(args)+1)
		args = append(args, scope.EmployeeID)
	}
	if filter.EmployeeID != 0 {
		where += fmt.Sprintf(" AND d.employee_id = $%d", len(args)+1)
		args = append(args, filter.EmployeeID)
	}
	if filter.Category != "" {
		where += fmt.Sprintf(" AND d.category = $%d", len(args)+1)
		args = append(args, filter.Category)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + documentColumns + where +
		fmt.Sprintf(" ORDER BY d.created_at DESC, d.id DESC LIMIT NULLIF($%d, 0) OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, scope auth.Scope, documentID int64) (Document, error) {
	d, err := scanDocument(s.DB.QueryRow(ctx, `
    SELECT `+documentColumns+`
    FROM documents d
    JOIN employees e ON e.id = d.employee_id
    WHERE d.id = $1 AND d.company_id = $2 AND ($3::bigint = 0 OR d.employee_id = $3)
  `, documentID, scope.CompanyID, scope.EmployeeID))
	if err != nil {
		return Document{}, notFound(err, "document")
	}
	return d, nil
}

// Create attaches the document to in.EmployeeID only when that employee is
// inside scope. A miss is reported as a missing employee.
func (s *Store) Create(ctx context.Context, scope auth.Scope, uploadedBy int64, in NewDocument) (Document, error) {
	d, err := scanDocument(s.DB.QueryRow(ctx, `
    WITH inserted AS (
      INSERT INTO documents (company_id, employee_id, title, category, file_url, uploaded_by)
      SELECT e.company_id, e.id, $4, $5, $6, $7
      FROM employees e
      WHERE e.id = $1 AND e.company_id = $2 AND ($3::bigint = 0 OR e.id = $3)
      RETURNING *
    )
    SELECT `+documentColumns+`
    FROM inserted d
    JOIN employees e ON e.id = d.employee_id
  `, in.EmployeeID, scope.CompanyID, scope.EmployeeID, in.Title, in.Category, in.FileURL, uploadedBy))
	if err != nil {
		return Document{}, notFound(err, "employee")
	}
	return d, nil
}

func (s *Store) Delete(ctx context.Context, scope auth.Scope, documentID int64) (Document, error) {
	d, err := scanDocument(s.DB.QueryRow(ctx, `
    WITH deleted AS (
      DELETE FROM documents
      WHERE id = $1 AND company_id = $2 AND ($3::bigint = 0 OR employee_id = $3)
      RETURNING *
    )
    SELECT `+documentColumns+`
    FROM deleted d
    JOIN employees e ON e.id = d.employee_id
  `, documentID, scope.CompanyID, scope.EmployeeID))
	if err != nil {
		return Document{}, notFound(err, "document")
	}
	return d, nil
}
