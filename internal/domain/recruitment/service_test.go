package recruitment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/errs"
	"hrportal/internal/domain/recruitment"
	"hrportal/internal/testutil/memdb"
)

func setup(t *testing.T) (*memdb.Fixture, *recruitment.Service) {
	t.Helper()
	f, err := memdb.NewFixture()
	require.NoError(t, err)
	return f, recruitment.NewService(f.DB.Jobs(), f.DB.Audit())
}

func TestListJobs(t *testing.T) {
	f, svc := setup(t)
	ctx := context.Background()
	f.DB.AddJob(f.Acme, "Backend Engineer", recruitment.StatusOpen)
	f.DB.AddJob(f.Acme, "Intern", recruitment.StatusClosed)
	f.DB.AddJob(f.Globex, "Sales Lead", recruitment.StatusOpen)

	public, total, err := svc.List(ctx, nil, recruitment.Filter{Status: recruitment.StatusClosed})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "anonymous callers only see open postings")
	for _, j := range public {
		assert.Equal(t, recruitment.StatusOpen, j.Status)
	}

	own, total, err := svc.List(ctx, &f.Alice, recruitment.Filter{CompanyID: f.Globex})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, j := range own {
		assert.Equal(t, f.Acme, j.CompanyID)
	}

	_, _, err = svc.List(ctx, nil, recruitment.Filter{Status: "DRAFT"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCreateAndCloseJob(t *testing.T) {
	f, svc := setup(t)
	ctx := context.Background()
	lo, hi := 4000.0, 6000.0

	_, err := svc.Create(ctx, f.Alice, recruitment.NewJob{Title: "x"})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	job, err := svc.Create(ctx, f.HR, recruitment.NewJob{Title: " SRE ", Department: "Engineering", SalaryMin: &lo, SalaryMax: &hi})
	require.NoError(t, err)
	assert.Equal(t, "SRE", job.Title)
	assert.Equal(t, recruitment.TypeFullTime, job.EmploymentType)
	assert.Equal(t, recruitment.StatusOpen, job.Status)
	assert.Equal(t, "Acme Sdn Bhd", job.CompanyName)

	_, err = svc.Create(ctx, f.HR, recruitment.NewJob{EmploymentType: "gig", SalaryMin: &hi, SalaryMax: &lo})
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Len(t, errs.Issues(err), 3)

	closed, err := svc.Close(ctx, f.HR, job.ID)
	require.NoError(t, err)
	assert.Equal(t, recruitment.StatusClosed, closed.Status)

	globex := f.DB.AddJob(f.Globex, "Sales Lead", recruitment.StatusOpen)
	_, err = svc.Close(ctx, f.HR, globex.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.Len(t, f.DB.AuditEntries(), 2)
}
