package pg

import (
	"context"
	"strings"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var bookColumns = []string{
	"id", "title", "author", "isbn", "genre", "description", "cover_image",
	"total_copies", "available_copies", "daily_fee", "published_year", "added_by",
	"created_at", "updated_at", "deleted_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func bookWhere(filter model.BookFilter) sq.And {
	where := sq.And{sq.Eq{"deleted_at": nil}}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"author": pattern},
		})
	}
	if filter.Genre != "" && filter.Genre != model.GenreAll {
		where = append(where, sq.Eq{"genre": filter.Genre})
	}
	return where
}

func (r *repo) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	where := bookWhere(filter)

	countQuery, countArgs, err := qb.Select("count(*)").From(booksTableName).Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(where).
		OrderBy("created_at desc", "id").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, 0, mapErr(err)
	}
	return books, total, nil
}

func (r *repo) GetBook(ctx context.Context, id string) (model.Book, error) {
	return r.getBook(ctx, r.db, id, false)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *repo) getBook(ctx context.Context, q querier, id string, forUpdate bool) (model.Book, error) {
	if !validID(id) {
		return model.Book{}, errs.ErrBookNotFound
	}
	b := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id, "deleted_at": nil})
	if forUpdate {
		b = b.Suffix("for update")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, mapErr(err)
	}
	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, mapErr(err)
	}
	return book, nil
}

func (r *repo) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q := `insert into books (id, title, author, isbn, genre, description, cover_image,
		total_copies, available_copies, daily_fee, published_year, added_by, created_at, updated_at)
	values (@id, @title, @author, @isbn, @genre, @description, @cover_image,
		@total_copies, @available_copies, @daily_fee, @published_year, @added_by, @created_at, @updated_at)
	returning ` + strings.Join(bookColumns, ", ")
	args := pgx.NamedArgs{
		"id":               book.ID,
		"title":            book.Title,
		"author":           book.Author,
		"isbn":             book.ISBN,
		"genre":            book.Genre,
		"description":      book.Description,
		"cover_image":      book.CoverImage,
		"total_copies":     book.TotalCopies,
		"available_copies": book.AvailableCopies,
		"daily_fee":        book.DailyFee,
		"published_year":   book.PublishedYear,
		"added_by":         book.AddedBy,
		"created_at":       book.CreatedAt,
		"updated_at":       book.UpdatedAt,
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.Book{}, mapErr(err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	switch {
	case err == nil:
		return created, nil
	case isUniqueViolation(err):
		return model.Book{}, errs.ErrISBNTaken
	}
	r.log.Error("CreateBook", zap.Error(err))
	return model.Book{}, mapErr(err)
}

func bookPatchMap(patch model.BookPatch) map[string]any {
	set := make(map[string]any)
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
		set["cover_image"] = *patch.CoverImage
	}
	if patch.DailyFee != nil {
		set["daily_fee"] = *patch.DailyFee
	}
	if patch.PublishedYear != nil {
		set["published_year"] = *patch.PublishedYear
	}
	return set
}

func (r *repo) UpdateBook(ctx context.Context, id string, patch model.BookPatch, now time.Time) (model.Book, error) {
	var updated model.Book
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		current, err := r.getBook(ctx, tx, id, true)
		if err != nil {
			return err
		}
		set := bookPatchMap(patch)
		if patch.TotalCopies != nil {
			delta := *patch.TotalCopies - current.TotalCopies
			if current.AvailableCopies+delta < 0 {
				return errs.ErrInvalidCopies
			}
			set["total_copies"] = *patch.TotalCopies
			set["available_copies"] = current.AvailableCopies + delta
		}
		set["updated_at"] = now

		query, args, err := qb.Update(booksTableName).
			SetMap(set).
			Where(sq.Eq{"id": id}).
			Suffix("returning " + strings.Join(bookColumns, ", ")).
			ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, args...)
		if err == nil {
			updated, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
		}
		if err != nil {
			if isUniqueViolation(err) {
				return errs.ErrISBNTaken
			}
			return mapErr(err)
		}
		return nil
	})
	return updated, err
}

func (r *repo) DeleteBook(ctx context.Context, id string, now time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := r.getBook(ctx, tx, id, true); err != nil {
			return err
		}
		const q = `select exists(select 1 from borrowings where book_id = $1 and status <> 'returned')`
		var onLoan bool
		if err := tx.QueryRow(ctx, q, id).Scan(&onLoan); err != nil {
			return mapErr(err)
		}
		if onLoan {
			return errs.ErrBookOnLoan
		}
		_, err := tx.Exec(ctx, `update books set deleted_at = @now, updated_at = @now where id = @id`,
			pgx.NamedArgs{"id": id, "now": now})
		return mapErr(err)
	})
}

func (r *repo) SetCover(ctx context.Context, id, url string, now time.Time) (model.Book, error) {
	return r.UpdateBook(ctx, id, model.BookPatch{CoverImage: &url}, now)
}
