package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/errs"
)

func principal(role string, employeeID int64) Principal {
	return Principal{UserID: 10, Role: role, CompanyID: 3, EmployeeID: employeeID}
}

func TestPolicyCoversEveryRole(t *testing.T) {
	for action, byRole := range Policy {
		for role := range byRole {
			assert.True(t, ValidRole(role), "action %s has unknown role %s", action, role)
		}
	}
}

func TestAuthorizeRoleTable(t *testing.T) {
	tests := []struct {
		action Action
		role   string
		want   Access
	}{
		{ActionDocumentRead, RoleAdmin, AccessCompany},
		{ActionDocumentRead, RoleHR, AccessCompany},
		{ActionDocumentRead, RoleEmployee, AccessSelf},
		{ActionDocumentDelete, RoleHR, AccessCompany},
		{ActionDocumentDelete, RoleEmployee, AccessDeny},
		{ActionDocumentDelete, RoleManager, AccessDeny},
		{ActionPayrollRead, RoleEmployee, AccessSelf},
		{ActionPayrollUpdate, RoleAdmin, AccessCompany},
		{ActionPayrollUpdate, RoleEmployee, AccessDeny},
		{ActionPayrollStats, RoleHR, AccessCompany},
		{ActionPayrollStats, RoleManager, AccessDeny},
		{ActionPayrollStats, RoleEmployee, AccessDeny},
		{ActionLeaveBalance, RoleManager, AccessCompany},
		{ActionLeaveBalance, RoleEmployee, AccessSelf},
		{ActionJobWrite, RoleManager, AccessDeny},
		{ActionGovernmentSubmit, RoleEmployee, AccessDeny},
		{ActionAuditRead, RoleAdmin, AccessCompany},
		{ActionAuditRead, RoleHR, AccessDeny},
	}

	for _, tc := range tests {
		t.Run(string(tc.action)+"/"+tc.role, func(t *testing.T) {
			scope, err := Authorize(principal(tc.role, 7), tc.action)
			switch tc.want {
			case AccessDeny:
				require.ErrorIs(t, err, errs.ErrUnauthorized)
			case AccessSelf:
				require.NoError(t, err)
				assert.Equal(t, Scope{CompanyID: 3, EmployeeID: 7}, scope)
			case AccessCompany:
				require.NoError(t, err)
				assert.Equal(t, Scope{CompanyID: 3}, scope)
			}
		})
	}
}

func TestAuthorizeRequiresIdentity(t *testing.T) {
	_, err := Authorize(Principal{}, ActionDocumentRead)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = Authorize(Principal{UserID: 1, Role: RoleAdmin}, ActionDocumentRead)
	assert.ErrorIs(t, err, errs.ErrUnauthorized, "company is mandatory")
}

func TestAuthorizeSelfWithoutEmployeeRecord(t *testing.T) {
	_, err := Authorize(principal(RoleEmployee, 0), ActionPayrollRead)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestAuthorizeTarget(t *testing.T) {
	scope, err := AuthorizeTarget(principal(RoleEmployee, 7), ActionLeaveBalance, 0)
	require.NoError(t, err)
	assert.Equal(t, Scope{CompanyID: 3, EmployeeID: 7}, scope)

	_, err = AuthorizeTarget(principal(RoleEmployee, 7), ActionLeaveBalance, 8)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	scope, err = AuthorizeTarget(principal(RoleManager, 7), ActionLeaveBalance, 8)
	require.NoError(t, err)
	assert.Equal(t, Scope{CompanyID: 3, EmployeeID: 8}, scope)

	_, err = AuthorizeTarget(principal(RoleAdmin, 0), ActionLeaveBalance, 0)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = AuthorizeTarget(Principal{}, ActionLeaveBalance, 0)
	assert.ErrorIs(t, err, errs.ErrUnauthorized, "anonymous callers are rejected before input checks")
}

func TestScopeAllows(t *testing.T) {
	assert.True(t, Scope{CompanyID: 1}.Allows(99))
	assert.True(t, Scope{CompanyID: 1, EmployeeID: 5}.Allows(5))
	assert.False(t, Scope{CompanyID: 1, EmployeeID: 5}.Allows(6))
}

func TestScopeMiss(t *testing.T) {
	assert.ErrorIs(t, Scope{CompanyID: 1, EmployeeID: 2}.Miss("payroll"), errs.ErrUnauthorized)
	assert.ErrorIs(t, Scope{CompanyID: 1}.Miss("payroll"), errs.ErrNotFound)
}
