package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"axom-backend/internal/logger"
	"axom-backend/internal/models"
)

// RedisNotifier publishes session events on models.UpdatesChannel and, when archiving is on,
// queues every exchange on models.ArchiveQueue.
type RedisNotifier struct {
	pubsub  *redis.Client
	queue   *redis.Client
	archive bool
}

func NewRedisNotifier(pubsub, queue *redis.Client, archive bool) *RedisNotifier {
	return &RedisNotifier{
		pubsub:  pubsub,
		queue:   queue,
		archive: archive,
	}
}

func (n *RedisNotifier) ExchangeRecorded(ctx context.Context, ex models.Exchange) {
	n.publish(ctx, models.NewExchangeMessage(ex))

	if !n.archive {
		return
	}
	data, err := json.Marshal(ex)
	if err != nil {
		logger.Error("Failed to encode archive job", err)
		return
	}
	if err := n.queue.RPush(ctx, models.ArchiveQueue, data).Err(); err != nil {
		logger.Warnw("Failed to queue exchange for archive", "exchange_id", ex.ID.String(), "error", err)
	}
}

func (n *RedisNotifier) SessionReset(ctx context.Context, at time.Time, history []models.Turn) {
	n.publish(ctx, models.NewResetMessage(at, history))
}

func (n *RedisNotifier) publish(ctx context.Context, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to encode update", err)
		return
	}
	if err := n.pubsub.Publish(ctx, models.UpdatesChannel, data).Err(); err != nil {
		logger.Warnw("Failed to publish update", "type", msg.Type, "error", err)
	}
}
