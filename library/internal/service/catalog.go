package service

import (
	"context"
	"io"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func normalizeFilter(f model.BookFilter) model.BookFilter {
	if f.Page < 1 {
		f.Page = model.DefaultPage
	}
	switch {
	case f.Limit < 1:
		f.Limit = model.DefaultLimit
	case f.Limit > model.MaxLimit:
		f.Limit = model.MaxLimit
	}
	return f
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	filter = normalizeFilter(filter)
	books, total, err := s.repo.ListBooks(ctx, filter)
	if err != nil {
		return model.ListBooks{}, err
	}
	if books == nil {
		books = []model.Book{}
	}
	return model.ListBooks{
		Books:       books,
		TotalPages:  (total + filter.Limit - 1) / filter.Limit,
		CurrentPage: filter.Page,
		Total:       total,
	}, nil
}

func (s *Service) GetBook(ctx context.Context, id string) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, addedBy string, req model.CreateBookRequest) (model.Book, error) {
	now := s.now()
	cover := req.CoverImage
	if cover == "" {
		cover = model.DefaultCoverImage
	}
	return s.repo.CreateBook(ctx, model.Book{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Genre:           req.Genre,
		Description:     req.Description,
		CoverImage:      cover,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
		DailyFee:        req.DailyFee,
		PublishedYear:   req.PublishedYear,
		AddedBy:         addedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func (s *Service) UpdateBook(ctx context.Context, id string, patch model.BookPatch) (model.Book, error) {
	if patch.Empty() {
		return model.Book{}, errs.ErrEmptyPatch
	}
	if patch.TotalCopies != nil && *patch.TotalCopies < 1 {
		return model.Book{}, errs.ErrInvalidCopies
	}
	return s.repo.UpdateBook(ctx, id, patch, s.now())
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.DeleteBook(ctx, id, s.now())
}

func (s *Service) UploadCover(ctx context.Context, id, filename, contentType string, body io.Reader) (model.Book, error) {
	if s.covers == nil {
		return model.Book{}, errs.ErrCoverStorageDisabled
	}
	if _, err := s.repo.GetBook(ctx, id); err != nil {
		return model.Book{}, err
	}
	url, err := s.covers.Upload(ctx, id, filename, contentType, body)
	if err != nil {
		s.log.Error("cover upload", zap.String("bookId", id), zap.Error(err))
		return model.Book{}, errors.Wrap(err, "upload cover")
	}
	return s.repo.SetCover(ctx, id, url, s.now())
}
