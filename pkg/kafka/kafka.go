package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

const (
	LoansTopic = "library.loans"

	StatsConsumerGroup = "stats"
)

type Config struct {
	Addrs  []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
	Enable bool     `envconfig:"KAFKA_ENABLE"`
}

type EventType string

const (
	EventBorrowed EventType = "BORROWED"
	EventReturned EventType = "RETURNED"
	EventOverdue  EventType = "OVERDUE"
)

// LoanEvent is the message published on LoansTopic for every loan transition.
type LoanEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	EventType   EventType `json:"eventType"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	BorrowingID string    `json:"borrowingId"`
	BookID      string    `json:"bookId"`
	TotalFee    float64   `json:"totalFee"`
	LateFee     float64   `json:"lateFee"`
}

func newConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	return cfg
}

func NewSyncProducer(cfg Config) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(cfg.Addrs, newConfig())
}

func CreateTopics(cfg Config, topics ...string) error {
	admin, err := sarama.NewClusterAdmin(cfg.Addrs, sarama.NewConfig())
	if err != nil {
		return errors.Wrap(err, "cluster admin")
	}
	defer admin.Close()

	existing, err := admin.ListTopics()
	if err != nil {
		return errors.Wrap(err, "list topics")
	}
	for _, topic := range topics {
		if _, ok := existing[topic]; ok {
			continue
		}
		if err := admin.CreateTopic(topic, &sarama.TopicDetail{
			NumPartitions:     3,
			ReplicationFactor: 1,
		}, false); err != nil {
			return errors.Wrapf(err, "create topic %s", topic)
		}
	}
	return nil
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	c := sarama.NewConfig()
	c.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	c.Consumer.Offsets.Initial = sarama.OffsetOldest
	return sarama.NewConsumerGroup(cfg.Addrs, group, c)
}

// Consume joins the group until ctx is done. Consume returns on every rebalance,
// so it is called in a loop.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topics ...string) error {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
