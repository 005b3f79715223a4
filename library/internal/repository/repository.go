package repository

import (
	"context"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type BookRepository interface {
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	// UpdateBook shifts availableCopies by the change of totalCopies.
	UpdateBook(ctx context.Context, id string, patch model.BookPatch, now time.Time) (model.Book, error)
	// DeleteBook tombstones a book that has no open loans.
	DeleteBook(ctx context.Context, id string, now time.Time) error
	SetCover(ctx context.Context, id, url string, now time.Time) (model.Book, error)
}

type BorrowingRepository interface {
	// Borrow takes one copy and records the loan as a single unit.
	Borrow(ctx context.Context, nb model.NewBorrowing) (model.Borrowing, error)
	GetBorrowing(ctx context.Context, id string) (model.Borrowing, error)
	// Return closes an open loan, gives the copy back and charges the user.
	Return(ctx context.Context, rb model.ReturnBorrowing) (model.Borrowing, error)
	// ListBorrowings returns loans newest first; an empty userID lists all of them.
	ListBorrowings(ctx context.Context, userID string) ([]model.Borrowing, error)
	// MarkOverdue promotes open loans past their due date and returns the promoted ones.
	MarkOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch, now time.Time) (model.User, error)
}

type Repository interface {
	BookRepository
	BorrowingRepository
	UserRepository

	Ping(ctx context.Context) error
	// Setup prepares the schema. It is safe to run repeatedly.
	Setup(ctx context.Context) error
	Close(ctx context.Context) error
}
