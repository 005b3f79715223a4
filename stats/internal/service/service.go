package service

import (
	"context"

	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/stats/internal/model"
	statsRepo "github.com/Astemirdum/library-rental/stats/internal/repository"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrUnknownEvent = errors.New("unknown event type")

type Service struct {
	log  *zap.Logger
	repo statsRepo.Repository
}

func NewService(repo statsRepo.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("service"),
		repo: repo,
	}
}

// GetStats returns per user loan aggregates.
func (s *Service) GetStats(ctx context.Context) (model.StatsInfo, error) {
	info, err := s.repo.GetStats(ctx)
	if err != nil {
		return model.StatsInfo{}, err
	}
	if info.Data == nil {
		info.Data = []model.Stats{}
	}
	return info, nil
}

// Record stores one loan event, used by the kafka consumer.
func (s *Service) Record(ctx context.Context, event kafka.LoanEvent) error {
	switch event.EventType {
	case kafka.EventBorrowed, kafka.EventReturned, kafka.EventOverdue:
	default:
		return errors.Wrapf(ErrUnknownEvent, "%q", event.EventType)
	}
	if event.BorrowingID == "" || event.UserID == "" {
		return errors.Wrap(ErrUnknownEvent, "missing ids")
	}
	return s.repo.SaveEvent(ctx, event)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
