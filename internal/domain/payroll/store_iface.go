package payroll

import (
	"context"

	"hrportal/internal/domain/auth"
)

type StoreAPI interface {
	List(ctx context.Context, scope auth.Scope, filter Filter) ([]Payroll, int, error)
	Get(ctx context.Context, scope auth.Scope, payrollID int64) (Payroll, error)
	Create(ctx context.Context, companyID int64, in NewPayroll) (Payroll, error)
	Update(ctx context.Context, companyID, payrollID int64, patch Patch) (Payroll, error)
	StatRows(ctx context.Context, companyID int64, month, year int) ([]Amounts, error)
	PayslipData(ctx context.Context, scope auth.Scope, payrollID int64) (PayslipData, error)
}
