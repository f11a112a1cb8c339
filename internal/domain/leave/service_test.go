package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/errs"
	"hrportal/internal/domain/leave"
	"hrportal/internal/testutil/memdb"
)

func setup(t *testing.T) (*memdb.Fixture, *leave.Service) {
	t.Helper()
	f, err := memdb.NewFixture()
	require.NoError(t, err)
	return f, leave.NewService(f.DB.Leaves(), f.DB.Audit())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestApply(t *testing.T) {
	f, svc := setup(t)
	ctx := context.Background()

	l, err := svc.Apply(ctx, f.Alice, leave.NewLeave{Type: "annual", StartDate: date(2025, 5, 5), EndDate: date(2025, 5, 7), Reason: " trip "})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, l.Status)
	assert.Equal(t, leave.TypeAnnual, l.Type)
	assert.Equal(t, 3.0, l.Days)
	assert.Equal(t, "trip", l.Reason)
	assert.Equal(t, f.AliceEmp, l.EmployeeID)

	_, err = svc.Apply(ctx, f.Alice, leave.NewLeave{Type: leave.TypeSick, StartDate: date(2025, 5, 7), EndDate: date(2025, 5, 8)})
	assert.ErrorIs(t, err, errs.ErrConflict, "overlaps the pending request")

	_, err = svc.Apply(ctx, f.Alice, leave.NewLeave{Type: "VACATION", StartDate: date(2025, 6, 9), EndDate: date(2025, 6, 1)})
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Len(t, errs.Issues(err), 2)

	noEmp := f.Admin
	noEmp.EmployeeID = 0
	_, err = svc.Apply(ctx, noEmp, leave.NewLeave{Type: leave.TypeAnnual, StartDate: date(2025, 7, 1), EndDate: date(2025, 7, 1)})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestDecide(t *testing.T) {
	f, svc := setup(t)
	ctx := context.Background()
	alice := f.DB.AddLeave(f.AliceEmp, leave.TypeAnnual, leave.StatusPending, date(2025, 8, 1), date(2025, 8, 2))
	manager := f.DB.AddLeave(f.ManagerEmp, leave.TypeAnnual, leave.StatusPending, date(2025, 8, 1), date(2025, 8, 2))
	carol := f.DB.AddLeave(f.CarolEmp, leave.TypeAnnual, leave.StatusPending, date(2025, 8, 1), date(2025, 8, 2))

	_, err := svc.Decide(ctx, f.Bob, alice.ID, leave.Decision{Status: leave.StatusApproved})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = svc.Decide(ctx, f.Manager, alice.ID, leave.Decision{Status: "MAYBE"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	out, err := svc.Decide(ctx, f.Manager, alice.ID, leave.Decision{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, out.Status)
	require.NotNil(t, out.DecidedBy)
	assert.Equal(t, f.Manager.UserID, *out.DecidedBy)

	_, err = svc.Decide(ctx, f.HR, alice.ID, leave.Decision{Status: leave.StatusRejected})
	assert.ErrorIs(t, err, leave.ErrNotPending)
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = svc.Decide(ctx, f.Manager, manager.ID, leave.Decision{Status: leave.StatusApproved})
	assert.ErrorIs(t, err, errs.ErrUnauthorized, "own leave")

	_, err = svc.Decide(ctx, f.HR, carol.ID, leave.Decision{Status: leave.StatusApproved})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	entries := f.DB.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "leave.approved", entries[0].Action)
}

func TestListLeaves(t *testing.T) {
	f, svc := setup(t)
	ctx := context.Background()
	f.DB.AddLeave(f.AliceEmp, leave.TypeAnnual, leave.StatusPending, date(2025, 8, 1), date(2025, 8, 1))
	f.DB.AddLeave(f.BobEmp, leave.TypeSick, leave.StatusApproved, date(2025, 8, 1), date(2025, 8, 1))
	f.DB.AddLeave(f.CarolEmp, leave.TypeSick, leave.StatusApproved, date(2025, 8, 1), date(2025, 8, 1))

	rows, total, err := svc.List(ctx, f.Bob, leave.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, f.BobEmp, rows[0].EmployeeID)

	_, total, err = svc.List(ctx, f.Manager, leave.Filter{Status: leave.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, _, err = svc.List(ctx, f.Bob, leave.Filter{EmployeeID: f.AliceEmp})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, _, err = svc.List(ctx, f.HR, leave.Filter{Type: "HOLIDAY"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestBalance(t *testing.T) {
	f, svc := setup(t)
	ctx := context.Background()
	year := time.Now().UTC().Year()
	f.DB.AddLeave(f.AliceEmp, leave.TypeAnnual, leave.StatusApproved, date(year, 2, 3), date(year, 2, 4))
	f.DB.AddLeave(f.AliceEmp, leave.TypeAnnual, leave.StatusApproved, date(year, 3, 3), date(year, 3, 3))
	f.DB.AddLeave(f.AliceEmp, leave.TypeSick, leave.StatusPending, date(year, 4, 1), date(year, 4, 1))
	f.DB.AddLeave(f.AliceEmp, leave.TypeSick, leave.StatusRejected, date(year, 4, 8), date(year, 4, 8))
	f.DB.AddLeave(f.AliceEmp, leave.TypeAnnual, leave.StatusApproved, date(year-1, 12, 30), date(year-1, 12, 31))

	report, err := svc.Balance(ctx, f.Alice, 0)
	require.NoError(t, err)
	assert.Equal(t, f.AliceEmp, report.Employee.ID)
	assert.Equal(t, 14, report.Balance.Annual)
	assert.Equal(t, map[string]int{leave.TypeAnnual: 2}, report.Balance.Used)
	assert.Equal(t, map[string]int{leave.TypeSick: 1}, report.Balance.Pending)

	_, err = svc.Balance(ctx, f.Alice, f.BobEmp)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	bob, err := svc.Balance(ctx, f.Manager, f.BobEmp)
	require.NoError(t, err)
	assert.Empty(t, bob.Balance.Used)
	assert.Empty(t, bob.Balance.Pending)

	_, err = svc.Balance(ctx, f.HR, f.CarolEmp)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
