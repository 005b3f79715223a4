package repository

import (
	"context"
	"fmt"

	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/Astemirdum/library-rental/pkg/postgres"
	"github.com/Astemirdum/library-rental/stats/internal/model"
	"github.com/Astemirdum/library-rental/stats/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	GetStats(ctx context.Context) (model.StatsInfo, error)
	SaveEvent(ctx context.Context, event kafka.LoanEvent) error
	Ping(ctx context.Context) error
	Setup(ctx context.Context) error
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) *repository {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}
}

func (r *repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *repository) Setup(ctx context.Context) error {
	return postgres.Migrate(ctx, r.db, migrations.MigrationFiles)
}

// SaveEvent is idempotent per (borrowing, event type) so redelivered messages are dropped.
func (r *repository) SaveEvent(ctx context.Context, event kafka.LoanEvent) error {
	q := `insert into loan_events (timestamp, event_type, user_id, user_name, borrowing_id, book_id, total_fee, late_fee)
	values (@timestamp, @event_type, @user_id, @user_name, @borrowing_id, @book_id, @total_fee, @late_fee)
	on conflict (borrowing_id, event_type) do nothing`
	args := pgx.NamedArgs{
		"timestamp":    event.Timestamp,
		"event_type":   event.EventType,
		"user_id":      event.UserID,
		"user_name":    event.UserName,
		"borrowing_id": event.BorrowingID,
		"book_id":      event.BookID,
		"total_fee":    event.TotalFee,
		"late_fee":     event.LateFee,
	}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		r.log.Debug("duplicate event skipped",
			zap.String("borrowingId", event.BorrowingID),
			zap.String("eventType", string(event.EventType)))
	}
	return nil
}

func (r *repository) GetStats(ctx context.Context) (model.StatsInfo, error) {
	const q = `
	select user_id,
	       max(user_name) as user_name,
	       count(*) filter (where event_type = 'BORROWED') as borrowed,
	       count(*) filter (where event_type = 'RETURNED') as returned,
	       count(*) filter (where event_type = 'OVERDUE') as overdue,
	       count(*) filter (where event_type = 'BORROWED') - count(*) filter (where event_type = 'RETURNED') as active,
	       coalesce(sum(total_fee) filter (where event_type = 'RETURNED'), 0)::float8 as fees_collected,
	       coalesce(sum(late_fee) filter (where event_type = 'RETURNED'), 0)::float8 as late_fees,
	       max(timestamp) as last_activity
	from loan_events
	group by user_id
	order by user_id
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return model.StatsInfo{}, err
	}
	defer rows.Close()
	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Stats])
	if err != nil {
		return model.StatsInfo{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return model.StatsInfo{Data: stats}, nil
}
