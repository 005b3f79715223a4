package pg

import (
	"context"
	"net"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/repository"
	"github.com/Astemirdum/library-rental/library/migrations"
	"github.com/Astemirdum/library-rental/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	booksTableName      = `books`
	borrowingsTableName = `borrowings`
	usersTableName      = `users`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

var _ repository.Repository = (*repo)(nil)

func NewRepository(db *pgxpool.Pool, log *zap.Logger) *repo {
	return &repo{
		db:  db,
		log: log.Named("repo"),
	}
}

func (r *repo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *repo) Setup(ctx context.Context) error {
	return postgres.Migrate(ctx, r.db, migrations.MigrationFiles)
}

func (r *repo) Close(context.Context) error {
	r.db.Close()
	return nil
}

func (r *repo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return mapErr(err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.log.Warn("rollback", zap.Error(err))
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return mapErr(tx.Commit(ctx))
}

// validID keeps malformed ids away from uuid columns, where they would be a
// driver error instead of a miss.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// mapErr translates driver failures into domain errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errs.ErrNotFound
	case isUniqueViolation(err):
		return errors.Wrap(errs.ErrAlreadyExists, err.Error())
	case errors.As(err, &netErr), pgconn.Timeout(err), errors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errs.ErrStoreUnavailable, err.Error())
	}
	return err
}
