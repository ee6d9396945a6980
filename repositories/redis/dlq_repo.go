package redis

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"

	// Local Packages
	models "anchor-engine/models"

	// External Packages
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DeadLetterQueue holds records that need an operator: settle requests the
// consumer could not decode and submissions whose outcome stayed
// unresolved. Writing here never changes transaction status.
type DeadLetterQueue struct {
	client *redis.Client
	logger *zap.Logger
}

func NewDeadLetterQueue(client *redis.Client, logger *zap.Logger) *DeadLetterQueue {
	return &DeadLetterQueue{client: client, logger: logger}
}

// Send stores the given records under "settle:{key}".
func (r *DeadLetterQueue) Send(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	successCount := 0
	for _, record := range records {
		jsonData, err := json.Marshal(record)
		if err != nil {
			r.logger.Error("failed to marshal record", zap.Error(err))
			continue
		}

		key := fmt.Sprintf("settle:%s", record.Key)
		err = r.client.Set(ctx, key, jsonData, 0).Err()
		if err != nil {
			r.logger.Error("failed to store record", zap.String("key", key), zap.Error(err))
			continue
		}
		successCount++
	}

	if successCount > 0 {
		r.logger.Info("parked records for operator review", zap.Int("count", successCount))
	}

	return nil
}
