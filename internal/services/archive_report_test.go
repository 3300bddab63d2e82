package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingCounter struct {
	calls atomic.Int32
	err   error
}

func (c *countingCounter) CountByStatus(ctx context.Context) (map[string]int, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return map[string]int{"success": 3, "failed": 1}, nil
}

func TestArchiveReporter_ReportsOnStartAndInterval(t *testing.T) {
	counter := &countingCounter{}
	r := NewArchiveReporter(counter)
	r.interval = 10 * time.Millisecond

	r.Start()
	assert.Eventually(t, func() bool { return counter.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	r.Stop()

	stopped := counter.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, counter.calls.Load())
}

func TestArchiveReporter_SurvivesCountErrors(t *testing.T) {
	counter := &countingCounter{err: errors.New("relation does not exist")}
	r := NewArchiveReporter(counter)
	r.interval = 10 * time.Millisecond

	r.Start()
	assert.Eventually(t, func() bool { return counter.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	r.Stop()
}

func TestArchiveReporter_StopIsIdempotent(t *testing.T) {
	r := NewArchiveReporter(nil)
	r.Start()
	assert.NotPanics(t, func() {
		r.Stop()
		r.Stop()
	})
}
