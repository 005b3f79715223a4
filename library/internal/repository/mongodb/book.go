package mongodb

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// maxUpdateAttempts bounds the optimistic retries of UpdateBook when the copy
// count moves underneath it.
const maxUpdateAttempts = 3

func bookFilter(filter model.BookFilter) bson.M {
	query := bson.M{"deletedAt": notDeleted}
	if search := strings.TrimSpace(filter.Search); search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"author": re},
		}
	}
	if filter.Genre != "" && filter.Genre != model.GenreAll {
		query["genre"] = filter.Genre
	}
	return query
}

func (r *repo) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	query := bookFilter(filter)
	total, err := r.books.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapErr(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.Limit))
	cur, err := r.books.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	books := make([]model.Book, 0, filter.Limit)
	if err := cur.All(ctx, &books); err != nil {
		return nil, 0, mapErr(err)
	}
	return books, int(total), nil
}

func (r *repo) GetBook(ctx context.Context, id string) (model.Book, error) {
	var book model.Book
	err := r.books.FindOne(ctx, bson.M{"_id": id, "deletedAt": notDeleted}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, mapErr(err)
	}
	return book, nil
}

func (r *repo) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	if _, err := r.books.InsertOne(ctx, book); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Book{}, errs.ErrISBNTaken
		}
		r.log.Error("CreateBook", zap.Error(err))
		return model.Book{}, mapErr(err)
	}
	return book, nil
}

func bookPatchDoc(patch model.BookPatch) bson.M {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Author != nil {
		set["author"] = *patch.Author
	}
	if patch.ISBN != nil {
		set["isbn"] = *patch.ISBN
	}
	if patch.Genre != nil {
		set["genre"] = *patch.Genre
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.CoverImage != nil {
		set["coverImage"] = *patch.CoverImage
	}
	if patch.DailyFee != nil {
		set["dailyFee"] = *patch.DailyFee
	}
	if patch.PublishedYear != nil {
		set["publishedYear"] = *patch.PublishedYear
	}
	return set
}

// UpdateBook applies the patch only if the copy count it was computed against
// is still current, retrying a few times when a concurrent change wins.
func (r *repo) UpdateBook(ctx context.Context, id string, patch model.BookPatch, now time.Time) (model.Book, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := r.GetBook(ctx, id)
		if err != nil {
			return model.Book{}, err
		}

		set := bookPatchDoc(patch)
		set["updatedAt"] = now
		filter := bson.M{"_id": id, "deletedAt": notDeleted}
		update := bson.M{"$set": set}
		if patch.TotalCopies != nil {
			delta := *patch.TotalCopies - current.TotalCopies
			if current.AvailableCopies+delta < 0 {
				return model.Book{}, errs.ErrInvalidCopies
			}
			filter["totalCopies"] = current.TotalCopies
			filter["availableCopies"] = bson.M{"$gte": -delta}
			set["totalCopies"] = *patch.TotalCopies
			update["$inc"] = bson.M{"availableCopies": delta}
		}

		var updated model.Book
		err = r.books.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
		switch {
		case err == nil:
			return updated, nil
		case mongo.IsDuplicateKeyError(err):
			return model.Book{}, errs.ErrISBNTaken
		case !errors.Is(err, mongo.ErrNoDocuments):
			return model.Book{}, mapErr(err)
		}
		r.log.Debug("UpdateBook lost a race, retrying", zap.String("id", id), zap.Int("attempt", attempt))
	}
	return model.Book{}, errs.ErrInvalidCopies
}

// DeleteBook tombstones the book unless a copy is out. The copy count is read
// from the same document update that sets the tombstone, so a Borrow either
// decremented before it (and is seen here) or cannot match afterwards.
func (r *repo) DeleteBook(ctx context.Context, id string, now time.Time) error {
	var book model.Book
	err := r.books.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "deletedAt": notDeleted},
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrBookNotFound
	}
	if err != nil {
		return mapErr(err)
	}
	if book.AvailableCopies >= book.TotalCopies {
		return nil
	}

	if _, err := r.books.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": bson.M{"deletedAt": ""}}); err != nil {
		r.log.Error("DeleteBook: restore tombstoned book", zap.String("id", id), zap.Error(err))
		return mapErr(err)
	}
	return errs.ErrBookOnLoan
}

func (r *repo) SetCover(ctx context.Context, id, url string, now time.Time) (model.Book, error) {
	return r.UpdateBook(ctx, id, model.BookPatch{CoverImage: &url}, now)
}
