package payroll

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/errs"
)

type Service struct {
	store StoreAPI
	audit audit.Recorder
	now   func() time.Time
}

func NewService(store StoreAPI, rec audit.Recorder) *Service {
	return &Service{store: store, audit: rec, now: time.Now}
}

func (s *Service) List(ctx context.Context, p auth.Principal, filter Filter) ([]Payroll, int, error) {
	scope, err := auth.Authorize(p, auth.ActionPayrollRead)
	if err != nil {
		return nil, 0, err
	}
	if filter.EmployeeID != 0 && !scope.Allows(filter.EmployeeID) {
		return nil, 0, errs.ErrUnauthorized
	}
	if err := validatePeriod(filter.Month, filter.Year, false); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, scope, filter)
}

func (s *Service) Get(ctx context.Context, p auth.Principal, payrollID int64) (Payroll, error) {
	scope, err := auth.Authorize(p, auth.ActionPayrollRead)
	if err != nil {
		return Payroll{}, err
	}
	out, err := s.store.Get(ctx, scope, payrollID)
	if errors.Is(err, errs.ErrNotFound) {
		return Payroll{}, scope.Miss("payroll")
	}
	return out, err
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in NewPayroll) (Payroll, error) {
	scope, err := auth.Authorize(p, auth.ActionPayrollUpdate)
	if err != nil {
		return Payroll{}, err
	}
	var issues []errs.Issue
	if in.EmployeeID <= 0 {
		issues = append(issues, errs.Issue{Field: "employeeId", Reason: "is required"})
	}
	if err := validatePeriod(in.Month, in.Year, true); err != nil {
		issues = append(issues, errs.Issues(err)...)
	}
	issues = append(issues, amountIssues(&in.BasicSalary, &in.Allowances, &in.Deductions)...)
	if ComputeNet(in.BasicSalary, in.Allowances, in.Deductions) < 0 {
		issues = append(issues, errs.Issue{Field: "deductions", Reason: NegativeNetReason})
	}
	if err := errs.NewValidation(issues); err != nil {
		return Payroll{}, err
	}

	out, err := s.store.Create(ctx, scope.CompanyID, in)
	if err != nil {
		return Payroll{}, err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "payroll.create",
		EntityType: "payroll", EntityID: out.ID, After: out,
	})
	return out, nil
}

// Update applies patch as a single scoped statement; net salary is always
// recomputed. Marking a row PAID without a timestamp stamps it now, a
// paidAt on its own marks the row PAID, and any other status clears paidAt.
func (s *Service) Update(ctx context.Context, p auth.Principal, payrollID int64, patch Patch) (Payroll, error) {
	scope, err := auth.Authorize(p, auth.ActionPayrollUpdate)
	if err != nil {
		return Payroll{}, err
	}
	if patch.Empty() {
		return Payroll{}, errs.Invalid("body", "at least one field is required")
	}
	issues := amountIssues(patch.BasicSalary, patch.Allowances, patch.Deductions)
	if patch.BasicSalary != nil && patch.Allowances != nil && patch.Deductions != nil &&
		ComputeNet(*patch.BasicSalary, *patch.Allowances, *patch.Deductions) < 0 {
		issues = append(issues, errs.Issue{Field: "deductions", Reason: NegativeNetReason})
	}
	if patch.Status == nil && patch.PaidAt != nil {
		paid := StatusPaid
		patch.Status = &paid
	}
	if patch.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*patch.Status))
		if !slices.Contains(Statuses, status) {
			issues = append(issues, errs.Issue{Field: "status", Reason: "must be one of " + strings.Join(Statuses, ", ")})
		}
		patch.Status = &status
		switch {
		case status == StatusPaid && patch.PaidAt == nil:
			now := s.now().UTC()
			patch.PaidAt = &now
		case status != StatusPaid && patch.PaidAt != nil:
			issues = append(issues, errs.Issue{Field: "paidAt", Reason: "is only allowed when status is PAID"})
		}
	}
	if err := errs.NewValidation(issues); err != nil {
		return Payroll{}, err
	}

	out, err := s.store.Update(ctx, scope.CompanyID, payrollID, patch)
	if errors.Is(err, errs.ErrNotFound) {
		return Payroll{}, scope.Miss("payroll")
	}
	if err != nil {
		return Payroll{}, err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "payroll.update",
		EntityType: "payroll", EntityID: out.ID, After: out,
	})
	return out, nil
}

func (s *Service) Stats(ctx context.Context, p auth.Principal, month, year int) (Stats, error) {
	scope, err := auth.Authorize(p, auth.ActionPayrollStats)
	if err != nil {
		return Stats{}, err
	}
	if err := validatePeriod(month, year, false); err != nil {
		return Stats{}, err
	}
	rows, err := s.store.StatRows(ctx, scope.CompanyID, month, year)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(rows), nil
}

// Payslip renders the payroll row as a PDF and returns it with a download
// file name.
func (s *Service) Payslip(ctx context.Context, p auth.Principal, payrollID int64) ([]byte, string, error) {
	scope, err := auth.Authorize(p, auth.ActionPayrollRead)
	if err != nil {
		return nil, "", err
	}
	data, err := s.store.PayslipData(ctx, scope, payrollID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, "", scope.Miss("payroll")
	}
	if err != nil {
		return nil, "", err
	}
	pdf, err := RenderPayslip(data)
	if err != nil {
		return nil, "", err
	}
	return pdf, PayslipFileName(data.Payroll), nil
}

func validatePeriod(month, year int, required bool) error {
	var issues []errs.Issue
	if required && month == 0 {
		issues = append(issues, errs.Issue{Field: "month", Reason: "is required"})
	} else if month != 0 && (month < 1 || month > 12) {
		issues = append(issues, errs.Issue{Field: "month", Reason: "must be between 1 and 12"})
	}
	if required && year == 0 {
		issues = append(issues, errs.Issue{Field: "year", Reason: "is required"})
	} else if year != 0 && (year < 1900 || year > 9999) {
		issues = append(issues, errs.Issue{Field: "year", Reason: "must be between 1900 and 9999"})
	}
	return errs.NewValidation(issues)
}

func amountIssues(basic, allowances, deductions *float64) []errs.Issue {
	var issues []errs.Issue
	check := func(field string, v *float64) {
		if v != nil && *v < 0 {
			issues = append(issues, errs.Issue{Field: field, Reason: "must not be negative"})
		}
	}
	check("basicSalary", basic)
	check("allowances", allowances)
	check("deductions", deductions)
	return issues
}
