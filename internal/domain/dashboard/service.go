package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/leave"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// Overview returns the public teaser for anonymous callers and the company
// dashboard otherwise. A nil principal means anonymous.
func (s *Service) Overview(ctx context.Context, p *auth.Principal) (Overview, error) {
	if p == nil {
		return s.public(ctx)
	}
	scope, err := auth.Authorize(*p, auth.ActionDashboardOverview)
	if err != nil {
		return nil, err
	}
	return s.company(ctx, scope.CompanyID)
}

func (s *Service) public(ctx context.Context) (Public, error) {
	out := Public{Stats: PublicStats{Satisfaction: SatisfactionRate}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats.Companies, err = s.store.CountCompanies(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.Employees, err = s.store.CountEmployees(gctx, 0, "")
		return err
	})
	g.Go(func() (err error) {
		out.Stats.ApprovedLeaves, err = s.store.CountLeaves(gctx, 0, leave.StatusApproved)
		return err
	})
	if err := g.Wait(); err != nil {
		return Public{}, err
	}
	return out, nil
}

func (s *Service) company(ctx context.Context, companyID int64) (Company, error) {
	now := s.now()
	out := Company{
		CompanyID: companyID,
		Stats:     CompanyStats{PayrollPeriodMonth: int(now.Month()), PayrollPeriodYear: now.Year()},
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats.TotalEmployees, err = s.store.CountEmployees(gctx, companyID, "")
		return err
	})
	g.Go(func() (err error) {
		out.Stats.ActiveEmployees, err = s.store.CountEmployees(gctx, companyID, core.EmployeeStatusActive)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.PendingLeaves, err = s.store.CountLeaves(gctx, companyID, leave.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.MonthlyPayroll, err = s.store.PayrollTotal(gctx, companyID, int(now.Month()), now.Year())
		return err
	})
	g.Go(func() (err error) {
		out.Stats.TotalDocuments, err = s.store.CountDocuments(gctx, companyID)
		return err
	})
	g.Go(func() (err error) {
		out.Recent.Employees, err = s.store.RecentEmployees(gctx, companyID, recentEmployeesLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return Company{}, err
	}
	return out, nil
}
