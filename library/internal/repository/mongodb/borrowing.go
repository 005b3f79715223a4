package mongodb

import (
	"context"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// withRefs resolves userId and bookId into embedded user and book documents.
func withRefs(match bson.D, limit int64) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: limit}})
	}
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: booksCollection},
			{Key: "localField", Value: "bookId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "book"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$book"}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$user"}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "user.passwordHash", Value: 0}}}},
	)
}

func (r *repo) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]model.Borrowing, error) {
	cur, err := r.borrowings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapErr(err)
	}
	items := make([]model.Borrowing, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, mapErr(err)
	}
	return items, nil
}

func (r *repo) Borrow(ctx context.Context, nb model.NewBorrowing) (model.Borrowing, error) {
	var book model.Book
	err := r.books.FindOneAndUpdate(ctx,
		bson.M{"_id": nb.BookID, "deletedAt": notDeleted, "availableCopies": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"availableCopies": -1}, "$set": bson.M{"updatedAt": nb.BorrowDate}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, err := r.GetBook(ctx, nb.BookID); err != nil {
			return model.Borrowing{}, err
		}
		return model.Borrowing{}, errs.ErrNotAvailable
	}
	if err != nil {
		return model.Borrowing{}, mapErr(err)
	}

	loan := model.Borrowing{
		ID:         nb.ID,
		UserID:     nb.UserID,
		BookID:     nb.BookID,
		BorrowDate: nb.BorrowDate,
		DueDate:    nb.DueDate,
		DailyFee:   book.DailyFee,
		Status:     model.StatusBorrowed,
		CreatedAt:  nb.BorrowDate,
		UpdatedAt:  nb.BorrowDate,
	}
	if _, err := r.borrowings.InsertOne(ctx, loan); err != nil {
		if _, cerr := r.books.UpdateOne(ctx,
			bson.M{"_id": nb.BookID},
			bson.M{"$inc": bson.M{"availableCopies": 1}}); cerr != nil {
			r.log.Error("Borrow: give back copy after failed insert",
				zap.String("bookId", nb.BookID), zap.Error(cerr))
		}
		return model.Borrowing{}, mapErr(err)
	}
	return r.GetBorrowing(ctx, nb.ID)
}

func (r *repo) GetBorrowing(ctx context.Context, id string) (model.Borrowing, error) {
	items, err := r.aggregate(ctx, withRefs(bson.D{{Key: "_id", Value: id}}, 1))
	if err != nil {
		return model.Borrowing{}, err
	}
	if len(items) == 0 {
		return model.Borrowing{}, errs.ErrBorrowingNotFound
	}
	return items[0], nil
}

// Return closes the loan first; the copy and the user's fees follow. If the
// copy cannot be given back the loan is reopened.
func (r *repo) Return(ctx context.Context, rb model.ReturnBorrowing) (model.Borrowing, error) {
	var before model.Borrowing
	err := r.borrowings.FindOneAndUpdate(ctx,
		bson.M{"_id": rb.ID, "userId": rb.UserID, "status": bson.M{"$ne": model.StatusReturned}},
		bson.M{"$set": bson.M{
			"status":     model.StatusReturned,
			"returnDate": rb.ReturnDate,
			"totalFee":   rb.TotalFee,
			"lateFee":    rb.LateFee,
			"updatedAt":  rb.ReturnDate,
		}},
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Borrowing{}, errs.ErrAlreadyReturned
	}
	if err != nil {
		return model.Borrowing{}, mapErr(err)
	}

	giveBack := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "availableCopies", Value: bson.D{{Key: "$min", Value: bson.A{
			bson.D{{Key: "$add", Value: bson.A{"$availableCopies", 1}}},
			"$totalCopies",
		}}}},
		{Key: "updatedAt", Value: rb.ReturnDate},
	}}}}
	if _, err := r.books.UpdateOne(ctx, bson.M{"_id": before.BookID}, giveBack); err != nil {
		if _, rerr := r.borrowings.UpdateOne(ctx, bson.M{"_id": rb.ID}, bson.M{
			"$set":   bson.M{"status": before.Status, "totalFee": before.TotalFee, "lateFee": before.LateFee, "updatedAt": before.UpdatedAt},
			"$unset": bson.M{"returnDate": ""},
		}); rerr != nil {
			r.log.Error("Return: reopen loan", zap.String("id", rb.ID), zap.Error(rerr))
		}
		return model.Borrowing{}, mapErr(err)
	}

	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": rb.UserID}, bson.M{
		"$inc": bson.M{"totalFees": rb.TotalFee},
		"$set": bson.M{"updatedAt": rb.ReturnDate},
	}); err != nil {
		r.log.Error("Return: charge user", zap.String("userId", rb.UserID), zap.Float64("fee", rb.TotalFee), zap.Error(err))
	}
	return r.GetBorrowing(ctx, rb.ID)
}

func (r *repo) ListBorrowings(ctx context.Context, userID string) ([]model.Borrowing, error) {
	match := bson.D{}
	if userID != "" {
		match = bson.D{{Key: "userId", Value: userID}}
	}
	return r.aggregate(ctx, withRefs(match, 0))
}

func (r *repo) MarkOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error) {
	due := bson.M{"status": model.StatusBorrowed, "dueDate": bson.M{"$lt": now}}
	cur, err := r.borrowings.Find(ctx, due, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, mapErr(err)
	}
	var found []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &found); err != nil {
		return nil, mapErr(err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(found))
	for _, f := range found {
		ids = append(ids, f.ID)
	}

	if _, err := r.borrowings.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": model.StatusBorrowed},
		bson.M{"$set": bson.M{"status": model.StatusOverdue, "updatedAt": now}},
	); err != nil {
		return nil, mapErr(err)
	}
	return r.aggregate(ctx, withRefs(bson.D{
		{Key: "_id", Value: bson.M{"$in": ids}},
		{Key: "status", Value: model.StatusOverdue},
	}, 0))
}
