package services

import (
	"context"
	"time"

	"axom-backend/internal/logger"
	"axom-backend/internal/models"
)

const archiveReportInterval = 1 * time.Hour

type exchangeCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// ArchiveReporter logs how many exchanges have been archived, on startup and then hourly.
type ArchiveReporter struct {
	counter  exchangeCounter
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

func NewArchiveReporter(counter exchangeCounter) *ArchiveReporter {
	return &ArchiveReporter{
		counter:  counter,
		interval: archiveReportInterval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *ArchiveReporter) Start() {
	if r.counter == nil {
		close(r.done)
		return
	}
	go r.loop()
}

// Stop is safe to call more than once and waits for the loop to exit.
func (r *ArchiveReporter) Stop() {
	select {
	case <-r.stopChan:
	default:
		close(r.stopChan)
	}
	<-r.done
}

func (r *ArchiveReporter) loop() {
	defer close(r.done)

	r.report()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.report()
		}
	}
}

func (r *ArchiveReporter) report() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	counts, err := r.counter.CountByStatus(ctx)
	if err != nil {
		logger.Warnw("Failed to count archived exchanges", "error", err)
		return
	}

	logger.Infow("Archived exchanges",
		"success", counts[models.StatusSuccess],
		"failed", counts[models.StatusFailed],
	)
}
