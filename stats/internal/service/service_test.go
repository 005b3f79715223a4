package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/stats/internal/model"
	repo_mocks "github.com/Astemirdum/library-rental/stats/internal/repository/mocks"
	"github.com/Astemirdum/library-rental/stats/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_Record(t *testing.T) {
	t.Parallel()
	valid := kafka.LoanEvent{
		Timestamp:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		EventType:   kafka.EventReturned,
		UserID:      "u-1",
		BorrowingID: "loan-1",
		BookID:      "book-1",
		TotalFee:    5.75,
		LateFee:     0.75,
	}
	tests := []struct {
		name    string
		event   func() kafka.LoanEvent
		saved   bool
		saveErr error
		wantErr error
	}{
		{name: "stored", event: func() kafka.LoanEvent { return valid }, saved: true},
		{
			name: "unknown type",
			event: func() kafka.LoanEvent {
				e := valid
				e.EventType = "LOST"
				return e
			},
			wantErr: service.ErrUnknownEvent,
		},
		{
			name: "missing borrowing",
			event: func() kafka.LoanEvent {
				e := valid
				e.BorrowingID = ""
				return e
			},
			wantErr: service.ErrUnknownEvent,
		},
		{name: "store failure", event: func() kafka.LoanEvent { return valid }, saved: true, saveErr: errors.New("conn reset")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			repo := repo_mocks.NewMockRepository(c)
			if tt.saved {
				repo.EXPECT().SaveEvent(gomock.Any(), tt.event()).Return(tt.saveErr)
			}
			svc := service.NewService(repo, zap.NewNop())

			err := svc.Record(context.Background(), tt.event())
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.saveErr != nil:
				require.ErrorIs(t, err, tt.saveErr)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestService_GetStatsEmpty(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	repo := repo_mocks.NewMockRepository(c)
	repo.EXPECT().GetStats(gomock.Any()).Return(model.StatsInfo{}, nil)

	info, err := service.NewService(repo, zap.NewNop()).GetStats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, info.Data)
	require.Empty(t, info.Data)
}
