package dashboard

import "context"

type StoreAPI interface {
	CountCompanies(ctx context.Context) (int, error)
	CountEmployees(ctx context.Context, companyID int64, status string) (int, error)
	CountLeaves(ctx context.Context, companyID int64, status string) (int, error)
	CountDocuments(ctx context.Context, companyID int64) (int, error)
	PayrollTotal(ctx context.Context, companyID int64, month, year int) (float64, error)
	RecentEmployees(ctx context.Context, companyID int64, limit int) ([]RecentEmployee, error)
}
