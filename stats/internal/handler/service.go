package handler

import (
	"context"

	"github.com/Astemirdum/library-rental/pkg/kafka"
	statsModel "github.com/Astemirdum/library-rental/stats/internal/model"
	"github.com/Astemirdum/library-rental/stats/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type StatsService interface {
	GetStats(ctx context.Context) (statsModel.StatsInfo, error)
	Record(ctx context.Context, event kafka.LoanEvent) error
}

var _ StatsService = (*service.Service)(nil)
