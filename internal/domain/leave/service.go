package leave

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/errs"
)

var ErrNotPending = fmt.Errorf("leave is no longer pending: %w", errs.ErrConflict)

type Service struct {
	store StoreAPI
	audit audit.Recorder
	now   func() time.Time
}

func NewService(store StoreAPI, rec audit.Recorder) *Service {
	return &Service{store: store, audit: rec, now: time.Now}
}

func (s *Service) List(ctx context.Context, p auth.Principal, filter Filter) ([]Leave, int, error) {
	scope, err := auth.Authorize(p, auth.ActionLeaveRead)
	if err != nil {
		return nil, 0, err
	}
	if filter.EmployeeID != 0 && !scope.Allows(filter.EmployeeID) {
		return nil, 0, errs.ErrUnauthorized
	}
	var issues []errs.Issue
	if filter.Status != "" && !slices.Contains(Statuses, filter.Status) {
		issues = append(issues, errs.Issue{Field: "status", Reason: "must be one of " + strings.Join(Statuses, ", ")})
	}
	if filter.Type != "" && !slices.Contains(Types, filter.Type) {
		issues = append(issues, errs.Issue{Field: "type", Reason: "must be one of " + strings.Join(Types, ", ")})
	}
	if err := errs.NewValidation(issues); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, scope, filter)
}

// Apply files a leave request for the principal's own employee record.
func (s *Service) Apply(ctx context.Context, p auth.Principal, in NewLeave) (Leave, error) {
	scope, err := auth.Authorize(p, auth.ActionLeaveApply)
	if err != nil {
		return Leave{}, err
	}
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	in.Reason = strings.TrimSpace(in.Reason)

	var issues []errs.Issue
	if !slices.Contains(Types, in.Type) {
		issues = append(issues, errs.Issue{Field: "type", Reason: "must be one of " + strings.Join(Types, ", ")})
	}
	if in.StartDate.IsZero() {
		issues = append(issues, errs.Issue{Field: "startDate", Reason: "is required"})
	}
	if in.EndDate.IsZero() {
		issues = append(issues, errs.Issue{Field: "endDate", Reason: "is required"})
	}
	var days float64
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() {
		days, err = CalculateDays(in.StartDate, in.EndDate)
		if err != nil {
			issues = append(issues, errs.Issue{Field: "endDate", Reason: "must be on or after startDate"})
		}
	}
	if err := errs.NewValidation(issues); err != nil {
		return Leave{}, err
	}

	overlap, err := s.store.HasOverlap(ctx, scope.EmployeeID, in.StartDate, in.EndDate)
	if err != nil {
		return Leave{}, err
	}
	if overlap {
		return Leave{}, fmt.Errorf("overlapping leave exists: %w", errs.ErrConflict)
	}

	l, err := s.store.Create(ctx, scope.CompanyID, scope.EmployeeID, in, days)
	if errors.Is(err, errs.ErrNotFound) {
		return Leave{}, scope.Miss("employee")
	}
	if err != nil {
		return Leave{}, err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "leave.apply",
		EntityType: "leave", EntityID: l.ID, After: l,
	})
	return l, nil
}

// Decide approves or rejects a pending leave. Deciders cannot act on their
// own requests.
func (s *Service) Decide(ctx context.Context, p auth.Principal, leaveID int64, d Decision) (Leave, error) {
	scope, err := auth.Authorize(p, auth.ActionLeaveDecide)
	if err != nil {
		return Leave{}, err
	}
	status := strings.ToUpper(strings.TrimSpace(d.Status))
	if status != StatusApproved && status != StatusRejected {
		return Leave{}, errs.Invalid("status", "must be APPROVED or REJECTED")
	}

	l, err := s.store.Decide(ctx, scope.CompanyID, leaveID, status, p.UserID, p.EmployeeID)
	if errors.Is(err, errs.ErrNotFound) {
		return Leave{}, s.classifyDecideMiss(ctx, p, scope, leaveID)
	}
	if err != nil {
		return Leave{}, err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "leave." + strings.ToLower(status),
		EntityType: "leave", EntityID: l.ID, After: l,
	})
	return l, nil
}

func (s *Service) classifyDecideMiss(ctx context.Context, p auth.Principal, scope auth.Scope, leaveID int64) error {
	current, err := s.store.Get(ctx, scope, leaveID)
	if errors.Is(err, errs.ErrNotFound) {
		return scope.Miss("leave")
	}
	if err != nil {
		return err
	}
	if p.HasEmployee() && current.EmployeeID == p.EmployeeID {
		return fmt.Errorf("own leave cannot be decided: %w", errs.ErrUnauthorized)
	}
	return ErrNotPending
}

// Balance reports the current-year leave usage for employeeID, or for the
// principal when employeeID is zero.
func (s *Service) Balance(ctx context.Context, p auth.Principal, employeeID int64) (BalanceReport, error) {
	scope, err := auth.Authorize(p, auth.ActionLeaveBalance)
	if err != nil {
		return BalanceReport{}, err
	}
	target, err := auth.AuthorizeTarget(p, auth.ActionLeaveBalance, employeeID)
	if err != nil {
		return BalanceReport{}, err
	}

	emp, err := s.store.BalanceEmployee(ctx, target.CompanyID, target.EmployeeID)
	if errors.Is(err, errs.ErrNotFound) {
		return BalanceReport{}, scope.Miss("employee")
	}
	if err != nil {
		return BalanceReport{}, err
	}

	now := s.now()
	from, to := YearWindow(now)
	rows, err := s.store.BalanceRows(ctx, target.CompanyID, target.EmployeeID, from, to)
	if err != nil {
		return BalanceReport{}, err
	}
	return BalanceReport{Employee: emp, Balance: Bucket(rows, emp.LeaveBalance, now)}, nil
}
