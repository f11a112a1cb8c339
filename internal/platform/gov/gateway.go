// Package gov holds the adapters for the government agencies the portal
// files submissions with. Gateways are constructed once at startup and
// injected through a Registry.
package gov

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"
)

const (
	AgencyHRDF     = "hrdf"
	AgencyKWSP     = "kwsp"
	AgencyLHDN     = "lhdn"
	AgencyMyWorkID = "myworkid"
	AgencyPERKESO  = "perkeso"
)

var (
	ErrUnknownAgency = errors.New("unknown agency")
	ErrUpstream      = errors.New("gateway upstream failure")
)

type Submission struct {
	CompanyID   int64           `json:"companyId"`
	EmployeeID  int64           `json:"employeeId"`
	Action      string          `json:"action"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	RequestedBy int64           `json:"requestedBy"`
	RequestID   string          `json:"requestId,omitempty"`
}

type Receipt struct {
	Agency      string          `json:"agency"`
	Reference   string          `json:"reference"`
	Status      string          `json:"status"`
	Mode        string          `json:"mode"`
	Response    json.RawMessage `json:"response,omitempty"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

type Gateway interface {
	Name() string
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, gw := range gateways {
		r.gateways[gw.Name()] = gw
	}
	return r
}

func (r *Registry) Lookup(agency string) (Gateway, error) {
	gw, ok := r.gateways[agency]
	if !ok {
		return nil, ErrUnknownAgency
	}
	return gw, nil
}

func (r *Registry) Agencies() []string {
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
