package auth

import (
	"fmt"

	"hrportal/internal/domain/errs"
)

type Action string

const (
	ActionDocumentRead      Action = "document.read"
	ActionDocumentCreate    Action = "document.create"
	ActionDocumentDelete    Action = "document.delete"
	ActionPayrollRead       Action = "payroll.read"
	ActionPayrollUpdate     Action = "payroll.update"
	ActionPayrollStats      Action = "payroll.stats"
	ActionLeaveBalance      Action = "leave.balance"
	ActionLeaveRead         Action = "leave.read"
	ActionLeaveApply        Action = "leave.apply"
	ActionLeaveDecide       Action = "leave.decide"
	ActionEmployeeRead      Action = "employee.read"
	ActionEmployeeWrite     Action = "employee.write"
	ActionJobRead           Action = "job.read"
	ActionJobWrite          Action = "job.write"
	ActionGovernmentSubmit  Action = "government.submit"
	ActionDashboardOverview Action = "dashboard.overview"
	ActionAuditRead         Action = "audit.read"
)

type Access int

const (
	AccessDeny Access = iota
	AccessSelf
	AccessCompany
)

// Policy maps each action to the widest access a role holds for it.
var Policy = map[Action]map[string]Access{
	ActionDocumentRead:      {RoleAdmin: AccessCompany, RoleHR: AccessCompany, RoleManager: AccessSelf, RoleEmployee: AccessSelf},
	ActionDocumentCreate:    {RoleAdmin: AccessCompany, RoleHR: AccessCompany, RoleManager: AccessSelf, RoleEmployee: AccessSelf},
	ActionDocumentDelete:    {RoleAdmin: AccessCompany, RoleHR: AccessCompany},
	ActionPayrollRead:       {RoleAdmin: AccessCompany, RoleHR: AccessCompany, RoleManager: AccessSelf, RoleEmployee: AccessSelf},
	ActionPayrollUpdate:     {RoleAdmin: AccessCompany, RoleHR: AccessCompany},
	ActionPayrollStats:      {RoleAdmin: AccessCompany, RoleHR: AccessCompany},
	ActionLeaveBalance:      {RoleAdmin: AccessCompany, RoleHR: AccessCompany, RoleManager: AccessCompany, RoleEmployee: AccessSelf},
	ActionLeaveRead:         {RoleAdmin: AccessCompany, RoleHR: AccessCompany, RoleManager: AccessCompany, RoleEmployee: AccessSelf},
	ActionLeaveApply:        {RoleAdmin: AccessSelf, RoleHR: AccessSelf, RoleManager: AccessSelf, RoleEmployee: AccessSelf},
	ActionLeaveDecide:       {RoleAdmin: AccessCompany, RoleHR: AccessCompany, RoleManager: AccessCompany},
	ActionEmployeeRead:      {RoleAdmin: AccessCompany, RoleHR: AccessCompany, RoleManager: AccessCompany, RoleEmployee: AccessSelf},
	ActionEmployeeWrite:     {RoleAdmin: AccessCompany, RoleHR: AccessCompany},
	ActionJobRead:           {RoleAdmin: AccessCompany, RoleHR: AccessCompany, RoleManager: AccessCompany, RoleEmployee: AccessCompany},
	ActionJobWrite:          {RoleAdmin: AccessCompany, RoleHR: AccessCompany},
	ActionGovernmentSubmit:  {RoleAdmin: AccessCompany, RoleHR: AccessCompany},
	ActionDashboardOverview: {RoleAdmin: AccessCompany, RoleHR: AccessCompany, RoleManager: AccessCompany, RoleEmployee: AccessCompany},
	ActionAuditRead:         {RoleAdmin: AccessCompany},
}

// Scope is the row filter an accessor must apply. CompanyID is always set;
// EmployeeID is non-zero when access is limited to the principal's own rows.
type Scope struct {
	CompanyID  int64
	EmployeeID int64
}

func (s Scope) SelfOnly() bool {
	return s.EmployeeID != 0
}

// Allows reports whether an employee row owned by employeeID falls inside the scope.
func (s Scope) Allows(employeeID int64) bool {
	return !s.SelfOnly() || s.EmployeeID == employeeID
}

// Miss is the error for a scoped lookup that matched no row. Self-scoped
// callers get ErrUnauthorized so that existence is not revealed.
func (s Scope) Miss(entity string) error {
	if s.SelfOnly() {
		return fmt.Errorf("%s: %w", entity, errs.ErrUnauthorized)
	}
	return fmt.Errorf("%s: %w", entity, errs.ErrNotFound)
}

// Authorize resolves the scope a principal holds for action. Every denial
// is reported as errs.ErrUnauthorized.
func Authorize(p Principal, action Action) (Scope, error) {
	if p.UserID == 0 || p.CompanyID == 0 {
		return Scope{}, errs.ErrUnauthorized
	}
	access := Policy[action][p.Role]
	switch access {
	case AccessCompany:
		return Scope{CompanyID: p.CompanyID}, nil
	case AccessSelf:
		if !p.HasEmployee() {
			return Scope{}, fmt.Errorf("%s requires an employee record: %w", action, errs.ErrUnauthorized)
		}
		return Scope{CompanyID: p.CompanyID, EmployeeID: p.EmployeeID}, nil
	default:
		return Scope{}, fmt.Errorf("role %q may not %s: %w", p.Role, action, errs.ErrUnauthorized)
	}
}

// AuthorizeTarget narrows the scope for action to a single employee. A zero
// employeeID targets the principal's own record. Self-scoped principals may
// only target themselves; the tenancy check for company-wide principals is
// left to the scoped query.
func AuthorizeTarget(p Principal, action Action, employeeID int64) (Scope, error) {
	scope, err := Authorize(p, action)
	if err != nil {
		return Scope{}, err
	}
	if employeeID == 0 {
		employeeID = p.EmployeeID
	}
	if employeeID == 0 {
		return Scope{}, errs.Invalid("employeeId", "is required")
	}
	if !scope.Allows(employeeID) {
		return Scope{}, fmt.Errorf("employee %d outside scope: %w", employeeID, errs.ErrUnauthorized)
	}
	return Scope{CompanyID: scope.CompanyID, EmployeeID: employeeID}, nil
}
