package recruitment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrportal/internal/domain/errs"
	"hrportal/internal/platform/querier"
)

const jobColumns = `j.id, j.company_id, c.name, j.title, j.department, j.location, j.employment_type,
       j.description, j.salary_min, j.salary_max, j.status, j.posted_by, j.posted_at, j.closes_at`

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Department, &j.Location, &j.EmploymentType,
		&j.Description, &j.SalaryMin, &j.SalaryMax, &j.Status, &j.PostedBy, &j.PostedAt, &j.ClosesAt)
	return j, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Job, int, error) {
	where := " FROM job_postings j JOIN companies c ON c.id = j.company_id WHERE 1 = 1"
	var args []any
	if filter.CompanyID != 0 {
		where += fmt.Sprintf(" AND j.company_id = $%d", len(args)+1)
		args = append(args, filter.CompanyID)
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND j.status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.Department != "" {
		where += fmt.Sprintf(" AND j.department = $%d", len(args)+1)
		args = append(args, filter.Department)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + jobColumns + where +
		fmt.Sprintf(" ORDER BY j.posted_at DESC, j.id DESC LIMIT NULLIF($%d, 0) OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	return out, total, rows.Err()
}

func (s *Store) Create(ctx context.Context, companyID, postedBy int64, in NewJob) (Job, error) {
	return scanJob(s.DB.QueryRow(ctx, `
    WITH inserted AS (
      INSERT INTO job_postings (company_id, title, department, location, employment_type, description, salary_min, salary_max, posted_by, closes_at)
      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
      RETURNING *
    )
    SELECT `+jobColumns+`
    FROM inserted j
    JOIN companies c ON c.id = j.company_id
  `, companyID, in.Title, in.Department, in.Location, in.EmploymentType, in.Description,
		in.SalaryMin, in.SalaryMax, postedBy, in.ClosesAt))
}

func (s *Store) Close(ctx context.Context, companyID, jobID int64) (Job, error) {
	j, err := scanJob(s.DB.QueryRow(ctx, `
    WITH updated AS (
      UPDATE job_postings SET status = 'CLOSED'
      WHERE id = $1 AND company_id = $2
      RETURNING *
    )
    SELECT `+jobColumns+`
    FROM updated j
    JOIN companies c ON c.id = j.company_id
  `, jobID, companyID))
	if querier.NoRows(err) {
		return Job{}, fmt.Errorf("job posting: %w", errs.ErrNotFound)
	}
	return j, err
}
