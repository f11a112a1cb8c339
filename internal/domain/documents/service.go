package documents

import (
	"context"
	"errors"
	"net/url"
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

func (s *Service) List(ctx context.Context, p auth.Principal, filter Filter) ([]Document, int, error) {
	scope, err := auth.Authorize(p, auth.ActionDocumentRead)
	if err != nil {
		return nil, 0, err
	}
	if filter.EmployeeID != 0 && !scope.Allows(filter.EmployeeID) {
		return nil, 0, errs.ErrUnauthorized
	}
	if filter.Category != "" && !slices.Contains(Categories, filter.Category) {
		return nil, 0, errs.Invalid("category", "must be one of "+strings.Join(Categories, ", "))
	}
	return s.store.List(ctx, scope, filter)
}

func (s *Service) Get(ctx context.Context, p auth.Principal, documentID int64) (Document, error) {
	scope, err := auth.Authorize(p, auth.ActionDocumentRead)
	if err != nil {
		return Document{}, err
	}
	d, err := s.store.Get(ctx, scope, documentID)
	if errors.Is(err, errs.ErrNotFound) {
		return Document{}, scope.Miss("document")
	}
	return d, err
}

// Create records document metadata. Self-scoped callers may only file
// documents against their own employee record.
func (s *Service) Create(ctx context.Context, p auth.Principal, in NewDocument) (Document, error) {
	scope, err := auth.Authorize(p, auth.ActionDocumentCreate)
	if err != nil {
		return Document{}, err
	}
	target, err := auth.AuthorizeTarget(p, auth.ActionDocumentCreate, in.EmployeeID)
	if err != nil {
		return Document{}, err
	}
	in.EmployeeID = target.EmployeeID
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.ToUpper(strings.TrimSpace(in.Category))
	if in.Category == "" {
		in.Category = CategoryOther
	}

	var issues []errs.Issue
	if in.Title == "" {
		issues = append(issues, errs.Issue{Field: "title", Reason: "is required"})
	}
	if !slices.Contains(Categories, in.Category) {
		issues = append(issues, errs.Issue{Field: "category", Reason: "must be one of " + strings.Join(Categories, ", ")})
	}
	if !validFileURL(in.FileURL) {
		issues = append(issues, errs.Issue{Field: "fileUrl", Reason: "must be an absolute http(s) URL"})
	}
	if err := errs.NewValidation(issues); err != nil {
		return Document{}, err
	}

	d, err := s.store.Create(ctx, scope, p.UserID, in)
	if errors.Is(err, errs.ErrNotFound) {
		return Document{}, scope.Miss("employee")
	}
	if err != nil {
		return Document{}, err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "document.create",
		EntityType: "document", EntityID: d.ID, After: d,
	})
	return d, nil
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, documentID int64) error {
	scope, err := auth.Authorize(p, auth.ActionDocumentDelete)
	if err != nil {
		return err
	}
	d, err := s.store.Delete(ctx, scope, documentID)
	if errors.Is(err, errs.ErrNotFound) {
		return scope.Miss("document")
	}
	if err != nil {
		return err
	}
	audit.Log(ctx, s.audit, audit.Entry{
		CompanyID: scope.CompanyID, ActorID: p.UserID, Action: "document.delete",
		EntityType: "document", EntityID: d.ID, Before: d,
	})
	return nil
}

func validFileURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
