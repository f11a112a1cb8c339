// Package government validates and forwards statutory submissions (tax,
// provident fund, social security, levy, identity) to the agency gateways.
package government

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/errs"
	"hrportal/internal/platform/gov"
	"hrportal/internal/platform/requestctx"
)

// ErrGateway marks a failed upstream call; the transport reports it as 500.
var ErrGateway = errors.New("government gateway failed")

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, scope auth.Scope, employeeID int64) (core.Employee, error)
}

// SubmissionObserver is told about every gateway call.
type SubmissionObserver interface {
	RecordSubmission(err error)
}

type Request struct {
	EmployeeID int64
	Action     string
	Payload    json.RawMessage
}

type Service struct {
	gateways  *gov.Registry
	employees EmployeeLookup
	audit     audit.Recorder
	observer  SubmissionObserver
}

func NewService(gateways *gov.Registry, employees EmployeeLookup, rec audit.Recorder, observer SubmissionObserver) *Service {
	return &Service{gateways: gateways, employees: employees, audit: rec, observer: observer}
}

func (s *Service) Agencies() []string {
	return s.gateways.Agencies()
}

func (s *Service) Submit(ctx context.Context, p auth.Principal, agency string, req Request) (gov.Receipt, error) {
	scope, err := auth.Authorize(p, auth.ActionGovernmentSubmit)
	if err != nil {
		return gov.Receipt{}, err
	}
	gw, err := s.gateways.Lookup(strings.ToLower(agency))
	if err != nil {
		return gov.Receipt{}, fmt.Errorf("agency %q: %w", agency, errs.ErrNotFound)
	}

	req.Action = strings.TrimSpace(req.Action)
	var issues []errs.Issue
	if req.EmployeeID <= 0 {
		issues = append(issues, errs.Issue{Field: "employeeId", Reason: "is required"})
	}
	if req.Action == "" {
		issues = append(issues, errs.Issue{Field: "action", Reason: "is required"})
	}
	if len(req.Payload) > 0 && !json.Valid(req.Payload) {
		issues = append(issues, errs.Issue{Field: "payload", Reason: "must be valid JSON"})
	}
	if err := errs.NewValidation(issues); err != nil {
		return gov.Receipt{}, err
	}

	if _, err := s.employees.GetEmployee(ctx, scope, req.EmployeeID); err != nil {
		return gov.Receipt{}, err
	}

	receipt, err := gw.Submit(ctx, gov.Submission{
		CompanyID:   scope.CompanyID,
		EmployeeID:  req.EmployeeID,
		Action:      req.Action,
		Payload:     req.Payload,
		RequestedBy: p.UserID,
		RequestID:   requestctx.GetRequestID(ctx),
	})
	if s.observer != nil {
		s.observer.RecordSubmission(err)
	}
	if err != nil {
		return gov.Receipt{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "government." + gw.Name(),
		EntityType: "employee", EntityID: req.EmployeeID, After: receipt,
	})
	return receipt, nil
}
