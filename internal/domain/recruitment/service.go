package recruitment

import (
	"context"
	"slices"
	"strings"

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

// List shows anonymous callers the open postings of every company, and
// authenticated callers every posting of their own company.
func (s *Service) List(ctx context.Context, p *auth.Principal, filter Filter) ([]Job, int, error) {
	if filter.Status != "" && !slices.Contains(Statuses, filter.Status) {
		return nil, 0, errs.Invalid("status", "must be one of "+strings.Join(Statuses, ", "))
	}
	if p == nil {
		filter.CompanyID = 0
		filter.Status = StatusOpen
		return s.store.List(ctx, filter)
	}
	scope, err := auth.Authorize(*p, auth.ActionJobRead)
	if err != nil {
		return nil, 0, err
	}
	filter.CompanyID = scope.CompanyID
	return s.store.List(ctx, filter)
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in NewJob) (Job, error) {
	scope, err := auth.Authorize(p, auth.ActionJobWrite)
	if err != nil {
		return Job{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.EmploymentType = strings.ToUpper(strings.TrimSpace(in.EmploymentType))
	if in.EmploymentType == "" {
		in.EmploymentType = TypeFullTime
	}

	var issues []errs.Issue
	if in.Title == "" {
		issues = append(issues, errs.Issue{Field: "title", Reason: "is required"})
	}
	if !slices.Contains(EmploymentTypes, in.EmploymentType) {
		issues = append(issues, errs.Issue{Field: "employmentType", Reason: "must be one of " + strings.Join(EmploymentTypes, ", ")})
	}
	if in.SalaryMin != nil && *in.SalaryMin < 0 {
		issues = append(issues, errs.Issue{Field: "salaryMin", Reason: "must not be negative"})
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMax < *in.SalaryMin {
		issues = append(issues, errs.Issue{Field: "salaryMax", Reason: "must be at least salaryMin"})
	}
	if err := errs.NewValidation(issues); err != nil {
		return Job{}, err
	}

	job, err := s.store.Create(ctx, scope.CompanyID, p.UserID, in)
	if err != nil {
		return Job{}, err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "job.create",
		EntityType: "job_posting", EntityID: job.ID, After: job,
	})
	return job, nil
}

func (s *Service) Close(ctx context.Context, p auth.Principal, jobID int64) (Job, error) {
	scope, err := auth.Authorize(p, auth.ActionJobWrite)
	if err != nil {
		return Job{}, err
	}
	job, err := s.store.Close(ctx, scope.CompanyID, jobID)
	if err != nil {
		return Job{}, err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "job.close",
		EntityType: "job_posting", EntityID: job.ID, After: job,
	})
	return job, nil
}
