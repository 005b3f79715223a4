package handler

import (
	"context"
	"io"

	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/Astemirdum/library-rental/library/internal/service"
	"github.com/Astemirdum/library-rental/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	CreateBook(ctx context.Context, addedBy string, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id string, patch model.BookPatch) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	UploadCover(ctx context.Context, id, filename, contentType string, body io.Reader) (model.Book, error)
}

type BorrowingService interface {
	Borrow(ctx context.Context, userID string, req model.BorrowRequest) (model.Borrowing, error)
	ListMine(ctx context.Context, userID string) ([]model.Borrowing, error)
	Return(ctx context.Context, userID, borrowingID string) (model.Borrowing, error)
	ListAll(ctx context.Context, caller auth.User) ([]model.Borrowing, error)
}

type IdentityService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	Me(ctx context.Context, userID string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error)
}

var (
	_ CatalogService   = (*service.Service)(nil)
	_ BorrowingService = (*service.Service)(nil)
	_ IdentityService  = (*service.Service)(nil)
)
