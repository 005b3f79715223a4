package mongodb

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/Astemirdum/library-rental/pkg/mongodb"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// newTestRepo uses a throwaway database on the server at MONGODB_URI when
// MONGO_INTEGRATION is set.
func newTestRepo(t *testing.T) *repo {
	t.Helper()
	if os.Getenv("MONGO_INTEGRATION") == "" {
		t.Skip("set MONGO_INTEGRATION and MONGODB_URI to run against mongo")
	}
	var cfg mongodb.Config
	require.NoError(t, envconfig.Process("", &cfg))
	cfg.Name = "library_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := mongodb.NewMongoDB(ctx, cfg)
	require.NoError(t, err)
	if err = db.Ping(ctx); err != nil {
		_ = db.Disconnect(ctx)
		t.Skipf("mongo unavailable: %v", err)
	}
	r := NewRepository(db, zap.NewNop())
	require.NoError(t, r.Setup(ctx))
	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.Database.Drop(ctx)
		_ = db.Disconnect(ctx)
	})
	return r
}

var now = time.Now().UTC().Truncate(time.Millisecond)

func seedUser(t *testing.T, r *repo) model.User {
	t.Helper()
	id := uuid.NewString()
	user, err := r.CreateUser(context.Background(), model.User{
		ID:             id,
		Name:           "Reader",
		Email:          id + "@example.com",
		PasswordHash:   "x",
		Role:           "user",
		MembershipDate: now,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)
	return user
}

func seedBook(t *testing.T, r *repo, copies int) model.Book {
	t.Helper()
	id := uuid.NewString()
	book, err := r.CreateBook(context.Background(), model.Book{
		ID:              id,
		Title:           "Dune",
		Author:          "Frank Herbert",
		ISBN:            id,
		Genre:           "Fiction",
		Description:     "Spice",
		CoverImage:      model.DefaultCoverImage,
		TotalCopies:     copies,
		AvailableCopies: copies,
		DailyFee:        0.5,
		PublishedYear:   1965,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	return book
}

func newBorrowing(userID, bookID string, due time.Time) model.NewBorrowing {
	return model.NewBorrowing{
		ID:         uuid.NewString(),
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: now,
		DueDate:    due,
	}
}

func TestRepo_BorrowLastCopyRace(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 1)
	users := []model.User{seedUser(t, r), seedUser(t, r)}

	var wg sync.WaitGroup
	results := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, results[i] = r.Borrow(ctx, newBorrowing(userID, book.ID, now.Add(7*24*time.Hour)))
		}(i, u.ID)
	}
	wg.Wait()

	var ok, unavailable int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, errs.ErrNotAvailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, unavailable)

	got, err := r.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.AvailableCopies)
}

func TestRepo_ReturnTwice(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 1)
	user := seedUser(t, r)

	loan, err := r.Borrow(ctx, newBorrowing(user.ID, book.ID, now.Add(24*time.Hour)))
	require.NoError(t, err)

	rb := model.ReturnBorrowing{ID: loan.ID, UserID: user.ID, ReturnDate: now.Add(time.Hour), TotalFee: 0.5}
	returned, err := r.Return(ctx, rb)
	require.NoError(t, err)
	require.Equal(t, model.StatusReturned, returned.Status)

	_, err = r.Return(ctx, rb)
	require.ErrorIs(t, err, errs.ErrAlreadyReturned)

	got, err := r.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AvailableCopies)

	charged, err := r.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0.5, charged.TotalFees)
}

func TestRepo_DeleteBook(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 2)
	user := seedUser(t, r)

	loan, err := r.Borrow(ctx, newBorrowing(user.ID, book.ID, now.Add(24*time.Hour)))
	require.NoError(t, err)
	require.ErrorIs(t, r.DeleteBook(ctx, book.ID, now), errs.ErrBookOnLoan)
	_, err = r.GetBook(ctx, book.ID)
	require.NoError(t, err)

	_, err = r.Return(ctx, model.ReturnBorrowing{ID: loan.ID, UserID: user.ID, ReturnDate: now})
	require.NoError(t, err)
	require.NoError(t, r.DeleteBook(ctx, book.ID, now))

	_, err = r.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, errs.ErrBookNotFound)
	_, err = r.Borrow(ctx, newBorrowing(user.ID, book.ID, now.Add(24*time.Hour)))
	require.ErrorIs(t, err, errs.ErrBookNotFound)

	// the isbn stays reserved by the tombstone
	again := book
	again.ID = uuid.NewString()
	_, err = r.CreateBook(ctx, again)
	require.ErrorIs(t, err, errs.ErrISBNTaken)
}

func TestRepo_DeleteBookWithCopyInFlight(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 1)

	// a Borrow that took the copy but has not inserted its loan yet
	_, err := r.books.UpdateOne(ctx, bson.M{"_id": book.ID}, bson.M{"$inc": bson.M{"availableCopies": -1}})
	require.NoError(t, err)

	require.ErrorIs(t, r.DeleteBook(ctx, book.ID, now), errs.ErrBookOnLoan)
	got, err := r.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Nil(t, got.DeletedAt)
}

func TestRepo_UpdateBookShiftsCopies(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 2)
	user := seedUser(t, r)

	for i := 0; i < 2; i++ {
		_, err := r.Borrow(ctx, newBorrowing(user.ID, book.ID, now.Add(24*time.Hour)))
		require.NoError(t, err)
	}

	total := 5
	got, err := r.UpdateBook(ctx, book.ID, model.BookPatch{TotalCopies: &total}, now)
	require.NoError(t, err)
	require.Equal(t, 5, got.TotalCopies)
	require.Equal(t, 3, got.AvailableCopies)

	total = 1
	_, err = r.UpdateBook(ctx, book.ID, model.BookPatch{TotalCopies: &total}, now)
	require.ErrorIs(t, err, errs.ErrInvalidCopies)
}

func TestRepo_MarkOverdue(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 2)
	user := seedUser(t, r)

	late, err := r.Borrow(ctx, newBorrowing(user.ID, book.ID, now.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = r.Borrow(ctx, newBorrowing(user.ID, book.ID, now.Add(24*time.Hour)))
	require.NoError(t, err)

	promoted, err := r.MarkOverdue(ctx, now)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	require.Equal(t, late.ID, promoted[0].ID)
	require.Equal(t, model.StatusOverdue, promoted[0].Status)
}
