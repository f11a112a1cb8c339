package gov

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrportal/internal/platform/config"
)

const maxResponseBytes = 1 << 20

// HTTPGateway forwards submissions as a single JSON POST. There is no retry
// or request signing.
type HTTPGateway struct {
	name    string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewHTTPGateway(name, baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPGateway{name: name, baseURL: strings.TrimRight(baseURL, "/"), client: client, now: time.Now}
}

func (g *HTTPGateway) Name() string { return g.name }

func (g *HTTPGateway) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return Receipt{}, fmt.Errorf("%s: encode: %w", g.name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/submissions", bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("%s: build request: %w", g.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sub.RequestID != "" {
		req.Header.Set("X-Request-ID", sub.RequestID)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("%s: %w: %v", g.name, ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Receipt{}, fmt.Errorf("%s: read response: %w", g.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Receipt{}, fmt.Errorf("%s: %w: status %d", g.name, ErrUpstream, resp.StatusCode)
	}

	receipt := Receipt{
		Agency:      g.name,
		Status:      "SUBMITTED",
		Mode:        "upstream",
		SubmittedAt: g.now().UTC(),
	}
	if len(raw) > 0 {
		if !json.Valid(raw) {
			return Receipt{}, fmt.Errorf("%s: %w: response is not JSON", g.name, ErrUpstream)
		}
		receipt.Response = raw
		var ref struct {
			Reference string `json:"reference"`
			Status    string `json:"status"`
		}
		if err := json.Unmarshal(raw, &ref); err == nil {
			receipt.Reference = ref.Reference
			if ref.Status != "" {
				receipt.Status = ref.Status
			}
		}
	}
	if receipt.Reference == "" {
		receipt.Reference = uuid.NewString()
	}
	return receipt, nil
}

// StubGateway acknowledges every submission locally.
type StubGateway struct {
	name string
	now  func() time.Time
}

func NewStubGateway(name string) *StubGateway {
	return &StubGateway{name: name, now: time.Now}
}

func (g *StubGateway) Name() string { return g.name }

func (g *StubGateway) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	return Receipt{
		Agency:      g.name,
		Reference:   strings.ToUpper(g.name) + "-" + uuid.NewString(),
		Status:      "ACKNOWLEDGED",
		Mode:        "stub",
		SubmittedAt: g.now().UTC(),
	}, nil
}

// FromConfig builds the five agency gateways. Agencies without a URL get a
// stub.
func FromConfig(cfg config.GovConfig) *Registry {
	client := &http.Client{Timeout: cfg.Timeout}
	build := func(name, url string) Gateway {
		if strings.TrimSpace(url) == "" {
			return NewStubGateway(name)
		}
		return NewHTTPGateway(name, url, client)
	}
	return NewRegistry(
		build(AgencyHRDF, cfg.HRDFURL),
		build(AgencyKWSP, cfg.KWSPURL),
		build(AgencyLHDN, cfg.LHDNURL),
		build(AgencyMyWorkID, cfg.MyWorkIDURL),
		build(AgencyPERKESO, cfg.PERKESOURL),
	)
}
