package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-lifetime HTTP counters. All methods are safe for
// concurrent use.
type Collector struct {
	started         time.Time
	totalRequests   atomic.Uint64
	clientErrors    atomic.Uint64
	serverErrors    atomic.Uint64
	unauthorized    atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationUs atomic.Uint64
	govSubmissions  atomic.Uint64
	govFailures     atomic.Uint64
}

type Snapshot struct {
	UptimeSeconds      int64   `json:"uptimeSeconds"`
	RequestsTotal      uint64  `json:"requestsTotal"`
	ClientErrorsTotal  uint64  `json:"clientErrorsTotal"`
	ServerErrorsTotal  uint64  `json:"serverErrorsTotal"`
	UnauthorizedTotal  uint64  `json:"unauthorizedTotal"`
	RateLimitedTotal   uint64  `json:"rateLimitedTotal"`
	AvgDurationMs      float64 `json:"avgDurationMs"`
	GovSubmissionTotal uint64  `json:"govSubmissionsTotal"`
	GovFailureTotal    uint64  `json:"govFailuresTotal"`
}

func New() *Collector {
	return &Collector{started: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	switch {
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	switch status {
	case 401:
		c.unauthorized.Add(1)
	case 429:
		c.rateLimited.Add(1)
	}
	if duration > 0 {
		c.totalDurationUs.Add(uint64(duration.Microseconds()))
	}
}

// RecordSubmission counts one government gateway call.
func (c *Collector) RecordSubmission(err error) {
	c.govSubmissions.Add(1)
	if err != nil {
		c.govFailures.Add(1)
	}
}

func (c *Collector) Snapshot() Snapshot {
	total := c.totalRequests.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(c.totalDurationUs.Load()) / float64(total) / 1000
	}
	return Snapshot{
		UptimeSeconds:      int64(time.Since(c.started).Seconds()),
		RequestsTotal:      total,
		ClientErrorsTotal:  c.clientErrors.Load(),
		ServerErrorsTotal:  c.serverErrors.Load(),
		UnauthorizedTotal:  c.unauthorized.Load(),
		RateLimitedTotal:   c.rateLimited.Load(),
		AvgDurationMs:      avg,
		GovSubmissionTotal: c.govSubmissions.Load(),
		GovFailureTotal:    c.govFailures.Load(),
	}
}
