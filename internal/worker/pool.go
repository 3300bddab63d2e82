package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc"

	"axom-backend/internal/logger"
	"axom-backend/internal/models"
)

const (
	maxRetries  = 3
	popTimeout  = 5 * time.Second
	jobDeadline = 30 * time.Second
)

type exchangeStore interface {
	Insert(ctx context.Context, ex *models.Exchange) error
}

// Pool drains models.ArchiveQueue into the exchange store.
type Pool struct {
	redis       *redis.Client
	store       exchangeStore
	workerCount int

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

func NewPool(redisClient *redis.Client, store exchangeStore, workerCount int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		redis:       redisClient,
		store:       store,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		i := i
		p.wg.Go(func() { p.worker(i) })
	}
	logger.Infof("Started %d archive workers", p.workerCount)
}

// Stop cancels in-flight pops and waits for every worker to return.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) worker(id int) {
	for {
		if p.ctx.Err() != nil {
			logger.Infof("Archive worker %d shutting down", id)
			return
		}

		result, err := p.redis.BLPop(p.ctx, popTimeout, models.ArchiveQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && p.ctx.Err() == nil {
				logger.Warnw("Archive queue pop failed", "worker", id, "error", err)
				sleepCtx(p.ctx, time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		job, err := decodeJob(result[1])
		if err != nil {
			logger.Errorw("Dropping malformed archive job", "worker", id, "error", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(p.ctx), jobDeadline)
		if err := p.archive(ctx, job); err != nil {
			p.handleFailure(job, err)
		}
		cancel()
	}
}

func decodeJob(payload string) (*models.Exchange, error) {
	var job models.Exchange
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return nil, fmt.Errorf("failed to parse archive job: %w", err)
	}
	if job.Status != models.StatusSuccess && job.Status != models.StatusFailed {
		return nil, fmt.Errorf("archive job %s has unknown status %q", job.ID, job.Status)
	}
	return &job, nil
}

func (p *Pool) archive(ctx context.Context, job *models.Exchange) error {
	if err := p.store.Insert(ctx, job); err != nil {
		return fmt.Errorf("failed to archive exchange %s: %w", job.ID, err)
	}
	return nil
}

func (p *Pool) handleFailure(job *models.Exchange, err error) {
	job.RetryCount++
	if job.RetryCount >= maxRetries {
		logger.Errorw("Archive job failed permanently", "exchange_id", job.ID.String(), "error", err)
		return
	}

	logger.Warnw("Archive job failed, retrying", "exchange_id", job.ID.String(), "attempt", job.RetryCount, "error", err)
	jobBytes, err := json.Marshal(job)
	if err != nil {
		logger.Errorw("Failed to encode archive job for retry", "exchange_id", job.ID.String(), "error", err)
		return
	}
	time.AfterFunc(retryBackoff(job.RetryCount), func() {
		if err := p.requeue(context.Background(), jobBytes); err != nil {
			logger.Errorw("Failed to re-queue archive job", "exchange_id", job.ID.String(), "error", err)
		}
	})
}

func (p *Pool) requeue(ctx context.Context, data []byte) error {
	return p.redis.LPush(ctx, models.ArchiveQueue, data).Err()
}

func retryBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
