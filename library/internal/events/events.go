package events

import (
	"context"
	"encoding/json"

	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const queueSize = 256

type Publisher interface {
	// Publish never blocks the caller and never fails it; delivery problems are logged.
	Publish(ctx context.Context, event kafka.LoanEvent)
}

type Noop struct{}

func (Noop) Publish(context.Context, kafka.LoanEvent) {}

// KafkaPublisher hands loan events to a background sender that owns the producer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	queue    chan kafka.LoanEvent
	log      *zap.Logger
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		queue:    make(chan kafka.LoanEvent, queueSize),
		log:      log.Named("events"),
	}
}

func (p *KafkaPublisher) Publish(_ context.Context, event kafka.LoanEvent) {
	select {
	case p.queue <- event:
	default:
		p.log.Warn("event queue full, dropping",
			zap.String("type", string(event.EventType)),
			zap.String("borrowingId", event.BorrowingID))
	}
}

// Run sends queued events until ctx is done, then flushes what is left and
// closes the producer.
func (p *KafkaPublisher) Run(ctx context.Context) error {
	defer func() {
		if err := p.producer.Close(); err != nil {
			p.log.Error("producer close", zap.Error(err))
		}
	}()
	for {
		select {
		case event := <-p.queue:
			p.send(event)
		case <-ctx.Done():
			for {
				select {
				case event := <-p.queue:
					p.send(event)
				default:
					return nil
				}
			}
		}
	}
}

func (p *KafkaPublisher) send(event kafka.LoanEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshal event", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.UserID),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.log.Error("send event",
			zap.String("type", string(event.EventType)),
			zap.String("borrowingId", event.BorrowingID),
			zap.Error(err))
		return
	}
	p.log.Debug("event sent", zap.String("type", string(event.EventType)), zap.String("borrowingId", event.BorrowingID))
}
