package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/errs"
)

type Service struct {
	store StoreAPI
	audit audit.Recorder
}

func NewService(store StoreAPI, rec audit.Recorder) *Service {
	return &Service{store: store, audit: rec}
}

func (s *Service) Company(ctx context.Context, p auth.Principal) (Company, error) {
	if p.UserID == 0 || p.CompanyID == 0 {
		return Company{}, errs.ErrUnauthorized
	}
	return s.store.GetCompany(ctx, p.CompanyID)
}

// Profile returns the principal's own employee record with its five most
// recent leaves and documents.
func (s *Service) Profile(ctx context.Context, p auth.Principal) (Profile, error) {
	if p.UserID == 0 || p.CompanyID == 0 {
		return Profile{}, errs.ErrUnauthorized
	}
	if !p.HasEmployee() {
		return Profile{}, fmt.Errorf("employee profile: %w", errs.ErrNotFound)
	}
	self := auth.Scope{CompanyID: p.CompanyID, EmployeeID: p.EmployeeID}

	var out Profile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		emp, err := s.store.GetEmployee(gctx, self, p.EmployeeID)
		out.Employee = emp
		return err
	})
	g.Go(func() error {
		company, err := s.store.GetCompany(gctx, p.CompanyID)
		out.Company = company
		return err
	})
	g.Go(func() error {
		leaves, err := s.store.RecentLeaves(gctx, p.CompanyID, p.EmployeeID, profileRecentLimit)
		out.RecentLeaves = leaves
		return err
	})
	g.Go(func() error {
		docs, err := s.store.RecentDocuments(gctx, p.CompanyID, p.EmployeeID, profileRecentLimit)
		out.RecentDocuments = docs
		return err
	})
	if err := g.Wait(); err != nil {
		return Profile{}, err
	}
	return out, nil
}

func (s *Service) ListEmployees(ctx context.Context, p auth.Principal, filter EmployeeFilter) ([]Employee, int, error) {
	scope, err := auth.Authorize(p, auth.ActionEmployeeRead)
	if err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !slices.Contains(EmployeeStatuses, filter.Status) {
		return nil, 0, errs.Invalid("status", "must be one of "+strings.Join(EmployeeStatuses, ", "))
	}
	return s.store.ListEmployees(ctx, scope, filter)
}

func (s *Service) GetEmployee(ctx context.Context, p auth.Principal, employeeID int64) (Employee, error) {
	scope, err := auth.Authorize(p, auth.ActionEmployeeRead)
	if err != nil {
		return Employee{}, err
	}
	emp, err := s.store.GetEmployee(ctx, scope, employeeID)
	if errors.Is(err, errs.ErrNotFound) {
		return Employee{}, scope.Miss("employee")
	}
	return emp, err
}

func (s *Service) CreateEmployee(ctx context.Context, p auth.Principal, in NewEmployee) (Employee, error) {
	scope, err := auth.Authorize(p, auth.ActionEmployeeWrite)
	if err != nil {
		return Employee{}, err
	}
	in.Email = strings.TrimSpace(in.Email)
	var issues []errs.Issue
	if strings.TrimSpace(in.EmployeeNumber) == "" {
		issues = append(issues, errs.Issue{Field: "employeeId", Reason: "is required"})
	}
	if strings.TrimSpace(in.FirstName) == "" {
		issues = append(issues, errs.Issue{Field: "firstName", Reason: "is required"})
	}
	if strings.TrimSpace(in.LastName) == "" {
		issues = append(issues, errs.Issue{Field: "lastName", Reason: "is required"})
	}
	if !strings.Contains(in.Email, "@") {
		issues = append(issues, errs.Issue{Field: "email", Reason: "must be a valid email"})
	}
	if in.LeaveBalance != nil && *in.LeaveBalance < 0 {
		issues = append(issues, errs.Issue{Field: "leaveBalance", Reason: "must not be negative"})
	}
	if err := errs.NewValidation(issues); err != nil {
		return Employee{}, err
	}

	emp, err := s.store.CreateEmployee(ctx, scope.CompanyID, in)
	if err != nil {
		return Employee{}, err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "employee.create",
		EntityType: "employee", EntityID: emp.ID, After: emp,
	})
	return emp, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, p auth.Principal, employeeID int64, patch EmployeePatch) (Employee, error) {
	scope, err := auth.Authorize(p, auth.ActionEmployeeWrite)
	if err != nil {
		return Employee{}, err
	}
	if err := validatePatch(patch); err != nil {
		return Employee{}, err
	}
	emp, err := s.store.UpdateEmployee(ctx, scope.CompanyID, employeeID, patch)
	if errors.Is(err, errs.ErrNotFound) {
		return Employee{}, scope.Miss("employee")
	}
	if err != nil {
		return Employee{}, err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "employee.update",
		EntityType: "employee", EntityID: emp.ID, After: emp,
	})
	return emp, nil
}

func validatePatch(patch EmployeePatch) error {
	if patch.Empty() {
		return errs.Invalid("body", "at least one field is required")
	}
	var issues []errs.Issue
	if patch.Status != nil && !slices.Contains(EmployeeStatuses, *patch.Status) {
		issues = append(issues, errs.Issue{Field: "status", Reason: "must be one of " + strings.Join(EmployeeStatuses, ", ")})
	}
	if patch.LeaveBalance != nil && *patch.LeaveBalance < 0 {
		issues = append(issues, errs.Issue{Field: "leaveBalance", Reason: "must not be negative"})
	}
	return errs.NewValidation(issues)
}
