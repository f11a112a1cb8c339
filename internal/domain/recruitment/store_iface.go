package recruitment

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Job, int, error)
	Create(ctx context.Context, companyID, postedBy int64, in NewJob) (Job, error)
	Close(ctx context.Context, companyID, jobID int64) (Job, error)
}
