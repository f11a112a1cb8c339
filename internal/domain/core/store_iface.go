package core

import (
	"context"

	"hrportal/internal/domain/auth"
)

// StoreAPI lookups report a miss as errs.ErrNotFound; the service decides
// what the caller sees.
type StoreAPI interface {
	GetCompany(ctx context.Context, companyID int64) (Company, error)
	ListEmployees(ctx context.Context, scope auth.Scope, filter EmployeeFilter) ([]Employee, int, error)
	GetEmployee(ctx context.Context, scope auth.Scope, employeeID int64) (Employee, error)
	CreateEmployee(ctx context.Context, companyID int64, in NewEmployee) (Employee, error)
	UpdateEmployee(ctx context.Context, companyID, employeeID int64, patch EmployeePatch) (Employee, error)
	RecentLeaves(ctx context.Context, companyID, employeeID int64, limit int) ([]LeaveSummary, error)
	RecentDocuments(ctx context.Context, companyID, employeeID int64, limit int) ([]DocumentSummary, error)
}
