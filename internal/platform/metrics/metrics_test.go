package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorCountsByStatus(t *testing.T) {
	c := New()
	c.Record(200, 2*time.Millisecond)
	c.Record(401, 2*time.Millisecond)
	c.Record(429, 0)
	c.Record(503, 2*time.Millisecond)
	c.RecordSubmission(nil)
	c.RecordSubmission(errors.New("upstream"))

	snap := c.Snapshot()
	assert.Equal(t, uint64(4), snap.RequestsTotal)
	assert.Equal(t, uint64(2), snap.ClientErrorsTotal)
	assert.Equal(t, uint64(1), snap.ServerErrorsTotal)
	assert.Equal(t, uint64(1), snap.UnauthorizedTotal)
	assert.Equal(t, uint64(1), snap.RateLimitedTotal)
	assert.InDelta(t, 1.5, snap.AvgDurationMs, 0.001)
	assert.Equal(t, uint64(2), snap.GovSubmissionTotal)
	assert.Equal(t, uint64(1), snap.GovFailureTotal)
}

func TestCollectorConcurrentRecord(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(200, time.Millisecond)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(50), c.Snapshot().RequestsTotal)
}
