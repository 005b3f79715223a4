package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/stats/internal/service"
	"github.com/IBM/sarama"
	"github.com/juju/clock"
	"github.com/juju/retry"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type record func(ctx context.Context, event kafka.LoanEvent) error

const (
	storeRetryDelay    = time.Second
	storeRetryMaxDelay = 30 * time.Second
)

type Consumer struct {
	recordHandler record
	clock         clock.Clock
	log           *zap.Logger
}

func NewConsumer(rec record, clk clock.Clock, log *zap.Logger) *Consumer {
	return &Consumer{
		recordHandler: rec,
		clock:         clk,
		log:           log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks malformed messages as consumed. Storage failures are
// retried in place, so a message is never marked before it is stored.
func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.LoanEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("malformed event", zap.Error(err), zap.ByteString("value", message.Value))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.store(session.Context(), event); err != nil {
				if errors.Is(err, service.ErrUnknownEvent) {
					consumer.log.Error("invalid event", zap.Error(err))
					session.MarkMessage(message, "")
					continue
				}
				consumer.log.Warn("event left unmarked", zap.Error(err), zap.Int64("offset", message.Offset))
				return nil
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) store(ctx context.Context, event kafka.LoanEvent) error {
	return retry.Call(retry.CallArgs{
		Func: func() error {
			return consumer.recordHandler(ctx, event)
		},
		IsFatalError: func(err error) bool {
			return errors.Is(err, service.ErrUnknownEvent)
		},
		NotifyFunc: func(err error, attempt int) {
			consumer.log.Error("consumer.recordHandler", zap.Error(err), zap.Int("attempt", attempt))
		},
		Attempts:    retry.UnlimitedAttempts,
		Delay:       storeRetryDelay,
		MaxDelay:    storeRetryMaxDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       consumer.clock,
		Stop:        ctx.Done(),
	})
}
