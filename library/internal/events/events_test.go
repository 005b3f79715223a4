package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/events"
	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKafkaPublisher_Run(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)

	want := kafka.LoanEvent{
		Timestamp:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		EventType:   kafka.EventBorrowed,
		UserID:      "u-1",
		UserName:    "Ann",
		BorrowingID: "b-1",
		BookID:      "book-1",
	}
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != kafka.LoansTopic {
			return errors.New("unexpected topic " + msg.Topic)
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got kafka.LoanEvent
		if err := json.Unmarshal(raw, &got); err != nil {
			return err
		}
		if !got.Timestamp.Equal(want.Timestamp) {
			return errors.New("unexpected timestamp")
		}
		got.Timestamp = want.Timestamp
		if got != want {
			return errors.New("unexpected event")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := events.NewKafkaPublisher(producer, kafka.LoansTopic, zap.NewNop())
	pub.Publish(context.Background(), want)
	pub.Publish(context.Background(), kafka.LoanEvent{EventType: kafka.EventReturned})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, pub.Run(ctx))
}

func TestNoop(t *testing.T) {
	t.Parallel()
	var p events.Publisher = events.Noop{}
	p.Publish(context.Background(), kafka.LoanEvent{})
}
