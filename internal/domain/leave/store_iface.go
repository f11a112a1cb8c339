package leave

import (
	"context"
	"time"

	"hrportal/internal/domain/auth"
)

type StoreAPI interface {
	List(ctx context.Context, scope auth.Scope, filter Filter) ([]Leave, int, error)
	Get(ctx context.Context, scope auth.Scope, leaveID int64) (Leave, error)
	Create(ctx context.Context, companyID, employeeID int64, in NewLeave, days float64) (Leave, error)
	HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error)
	// Decide flips a PENDING leave that does not belong to deciderEmployeeID.
	// A row that fails any of those conditions is reported as errs.ErrNotFound.
	Decide(ctx context.Context, companyID, leaveID int64, status string, decidedBy, deciderEmployeeID int64) (Leave, error)
	BalanceEmployee(ctx context.Context, companyID, employeeID int64) (BalanceEmployee, error)
	BalanceRows(ctx context.Context, companyID, employeeID int64, from, to time.Time) ([]BalanceRow, error)
}
