package service

import (
	"context"
	"io"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/events"
	"github.com/Astemirdum/library-rental/library/internal/repository"
	"github.com/juju/clock"
	"go.uber.org/zap"
)

type TokenIssuer interface {
	Issue(userID, role string) (string, time.Time, error)
}

type CoverStorage interface {
	Upload(ctx context.Context, bookID, filename, contentType string, body io.Reader) (string, error)
}

type Service struct {
	log    *zap.Logger
	repo   repository.Repository
	clock  clock.Clock
	events events.Publisher
	tokens TokenIssuer
	covers CoverStorage
}

type Option func(*Service)

func WithClock(clk clock.Clock) Option {
	return func(s *Service) {
		s.clock = clk
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// WithCoverStorage enables cover uploads.
func WithCoverStorage(c CoverStorage) Option {
	return func(s *Service) {
		s.covers = c
	}
}

func NewService(repo repository.Repository, tokens TokenIssuer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:    log.Named("service"),
		repo:   repo,
		clock:  clock.WallClock,
		events: events.Noop{},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

// Ping reports whether the store answers.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
