package kafka

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"errors"
	"fmt"

	// Local Packages
	models "anchor-engine/models"

	// External Packages
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ConsumerConfig struct {
	Brokers        []string
	Name           string
	Topic          string
	RecordsPerPoll int
	Workers        int
}

type Settler interface {
	Settle(ctx context.Context, transactionID string) error
}

type DeadLetterQueue interface {
	Send(ctx context.Context, records []models.Record) error
}

// Consumer consumes settle requests published by the interactive deposit
// flow and drives the settlement engine for each one. Requests are
// fire-and-forget: outcomes are observed through the transaction record,
// never through the consumer.
type Consumer struct {
	Client  *kgo.Client
	Config  *ConsumerConfig
	Settler Settler
	DLQueue DeadLetterQueue
	Logger  *zap.Logger
}

// NewSettleConsumer creates a new consumer for the settle-request topic
// (PS: Must call Poll to start consuming the records)
func NewSettleConsumer(conf *ConsumerConfig, logger *zap.Logger, settler Settler, dlQueue DeadLetterQueue, metrics *kprom.Metrics) (*Consumer, error) {
	c := &Consumer{Config: conf, Settler: settler, DLQueue: dlQueue, Logger: logger}

	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...), // Connects to Kafka brokers
		kgo.ConsumerGroup(conf.Name),     // Specifies the consumer group
		kgo.ConsumeTopics(conf.Topic),    // Specifies a single topic to consume
		kgo.WithHooks(metrics),           // Attaches monitoring hooks
		kgo.DisableAutoCommit(),          // Disables auto-commit
		kgo.BlockRebalanceOnPoll(),       // Blocks rebalancing until the poll loop is running
	}

	client, err := kgo.NewClient(opts...)
	if err != nil || client == nil {
		return nil, err
	}

	c.Client = client
	return c, nil
}

// Poll polls for settle requests from the Kafka broker and fans each batch
// out to a bounded pool of settlement workers. Malformed records go to the
// dead-letter queue; settlement errors are logged only, since the claim
// guard makes re-driving a transaction safe.
func (c *Consumer) Poll(ctx context.Context) error {
	defer c.Client.Close()

	consumerName := c.Config.Name
	recordsPerPoll := c.Config.RecordsPerPoll

	for {
		// Check if the context is canceled before polling
		if ctx.Err() != nil {
			c.Logger.Warn("Polling stopped: context canceled")
			return ctx.Err() // Exit gracefully
		}

		c.Logger.Info(fmt.Sprintf("%s: polling for settle requests", consumerName))
		fetches := c.Client.PollRecords(ctx, recordsPerPoll)

		// Handle client shutdown
		if fetches.IsClientClosed() {
			return errors.New("kafka client closed")
		}

		// Handle context cancellation explicitly
		if errors.Is(fetches.Err0(), context.Canceled) {
			return errors.New("context got canceled")
		}

		var poison []models.Record
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(c.Config.Workers)

		for _, record := range fetches.Records() {
			var req models.SettleRequest
			if err := json.Unmarshal(record.Value, &req); err != nil || req.TransactionID == "" {
				c.Logger.Error("malformed settle request", zap.Error(err))
				poison = append(poison, models.Record{Key: record.Key, Value: record.Value, Topic: record.Topic})
				continue
			}

			group.Go(func() error {
				if err := c.Settler.Settle(groupCtx, req.TransactionID); err != nil {
					c.Logger.Error("settle attempt failed",
						zap.String("transaction_id", req.TransactionID), zap.Error(err))
				}
				return nil
			})
		}
		_ = group.Wait()

		if len(poison) > 0 {
			if err := c.DLQueue.Send(ctx, poison); err != nil {
				c.Logger.Error("failed to park malformed settle requests", zap.Error(err))
			}
		}

		// Commit processed records
		_ = c.Client.CommitRecords(ctx, fetches.Records()...)
	}
}
