package mongodb

import (
	"context"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/repository"
	"github.com/Astemirdum/library-rental/pkg/mongodb"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	booksCollection      = "books"
	borrowingsCollection = "borrowings"
	usersCollection      = "users"
)

type repo struct {
	db         *mongodb.DB
	books      *mongo.Collection
	borrowings *mongo.Collection
	users      *mongo.Collection
	log        *zap.Logger
}

var _ repository.Repository = (*repo)(nil)

func NewRepository(db *mongodb.DB, log *zap.Logger) *repo {
	return &repo{
		db:         db,
		books:      db.Database.Collection(booksCollection),
		borrowings: db.Database.Collection(borrowingsCollection),
		users:      db.Database.Collection(usersCollection),
		log:        log.Named("repo"),
	}
}

func (r *repo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *repo) Setup(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		r.books: {
			{Keys: bson.D{{Key: "isbn", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		r.users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		r.borrowings: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "bookId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "dueDate", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(mapErr(err), "create indexes on %s", coll.Name())
		}
	}
	return nil
}

func (r *repo) Close(ctx context.Context) error {
	return r.db.Disconnect(ctx)
}

var notDeleted = bson.M{"$exists": false}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return errs.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Wrap(errs.ErrAlreadyExists, err.Error())
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return errors.Wrap(errs.ErrStoreUnavailable, err.Error())
	}
	return err
}
