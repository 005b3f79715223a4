package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type borrowingRow struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	BookID     string     `db:"book_id"`
	BorrowDate time.Time  `db:"borrow_date"`
	DueDate    time.Time  `db:"due_date"`
	ReturnDate *time.Time `db:"return_date"`
	DailyFee   float64    `db:"daily_fee"`
	TotalFee   float64    `db:"total_fee"`
	LateFee    float64    `db:"late_fee"`
	Status     string     `db:"status"`
	IsPaid     bool       `db:"is_paid"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`

	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`

	BookTitle           string     `db:"book_title"`
	BookAuthor          string     `db:"book_author"`
	BookISBN            string     `db:"book_isbn"`
	BookGenre           string     `db:"book_genre"`
	BookDescription     string     `db:"book_description"`
	BookCoverImage      string     `db:"book_cover_image"`
	BookTotalCopies     int        `db:"book_total_copies"`
	BookAvailableCopies int        `db:"book_available_copies"`
	BookDailyFee        float64    `db:"book_daily_fee"`
	BookPublishedYear   int        `db:"book_published_year"`
	BookAddedBy         string     `db:"book_added_by"`
	BookCreatedAt       time.Time  `db:"book_created_at"`
	BookUpdatedAt       time.Time  `db:"book_updated_at"`
	BookDeletedAt       *time.Time `db:"book_deleted_at"`
}

func (row borrowingRow) toModel() model.Borrowing {
	return model.Borrowing{
		ID:         row.ID,
		UserID:     row.UserID,
		BookID:     row.BookID,
		BorrowDate: row.BorrowDate,
		DueDate:    row.DueDate,
		ReturnDate: row.ReturnDate,
		DailyFee:   row.DailyFee,
		TotalFee:   row.TotalFee,
		LateFee:    row.LateFee,
		Status:     model.Status(row.Status),
		IsPaid:     row.IsPaid,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		User: &model.UserSummary{
			ID:    row.UserID,
			Name:  row.UserName,
			Email: row.UserEmail,
		},
		Book: &model.Book{
			ID:              row.BookID,
			Title:           row.BookTitle,
			Author:          row.BookAuthor,
			ISBN:            row.BookISBN,
			Genre:           row.BookGenre,
			Description:     row.BookDescription,
			CoverImage:      row.BookCoverImage,
			TotalCopies:     row.BookTotalCopies,
			AvailableCopies: row.BookAvailableCopies,
			DailyFee:        row.BookDailyFee,
			PublishedYear:   row.BookPublishedYear,
			AddedBy:         row.BookAddedBy,
			CreatedAt:       row.BookCreatedAt,
			UpdatedAt:       row.BookUpdatedAt,
			DeletedAt:       row.BookDeletedAt,
		},
	}
}

// borrowingSelect joins a loan source (a table or a CTE aliased b) with its
// user and book.
const borrowingSelect = `select b.id, b.user_id, b.book_id, b.borrow_date, b.due_date, b.return_date,
	b.daily_fee, b.total_fee, b.late_fee, b.status, b.is_paid, b.created_at, b.updated_at,
	u.name as user_name, u.email as user_email,
	bk.title as book_title, bk.author as book_author, bk.isbn as book_isbn, bk.genre as book_genre,
	bk.description as book_description, bk.cover_image as book_cover_image,
	bk.total_copies as book_total_copies, bk.available_copies as book_available_copies,
	bk.daily_fee as book_daily_fee, bk.published_year as book_published_year,
	bk.added_by as book_added_by, bk.created_at as book_created_at,
	bk.updated_at as book_updated_at, bk.deleted_at as book_deleted_at
from %s b
	join users u on u.id = b.user_id
	join books bk on bk.id = b.book_id`

func collectBorrowings(rows pgx.Rows) ([]model.Borrowing, error) {
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[borrowingRow])
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([]model.Borrowing, 0, len(items))
	for _, row := range items {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *repo) Borrow(ctx context.Context, nb model.NewBorrowing) (model.Borrowing, error) {
	if !validID(nb.BookID) {
		return model.Borrowing{}, errs.ErrBookNotFound
	}
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		const take = `update books
		set available_copies = available_copies - 1, updated_at = @now
		where id = @book_id and deleted_at is null and available_copies > 0
		returning daily_fee`
		var dailyFee float64
		err := tx.QueryRow(ctx, take, pgx.NamedArgs{"book_id": nb.BookID, "now": nb.BorrowDate}).Scan(&dailyFee)
		if errors.Is(err, pgx.ErrNoRows) {
			const exists = `select exists(select 1 from books where id = $1 and deleted_at is null)`
			var found bool
			if err := tx.QueryRow(ctx, exists, nb.BookID).Scan(&found); err != nil {
				return mapErr(err)
			}
			if !found {
				return errs.ErrBookNotFound
			}
			return errs.ErrNotAvailable
		}
		if err != nil {
			return mapErr(err)
		}

		const insert = `insert into borrowings (id, user_id, book_id, borrow_date, due_date, daily_fee, status, created_at, updated_at)
		values (@id, @user_id, @book_id, @borrow_date, @due_date, @daily_fee, @status, @borrow_date, @borrow_date)`
		_, err = tx.Exec(ctx, insert, pgx.NamedArgs{
			"id":          nb.ID,
			"user_id":     nb.UserID,
			"book_id":     nb.BookID,
			"borrow_date": nb.BorrowDate,
			"due_date":    nb.DueDate,
			"daily_fee":   dailyFee,
			"status":      string(model.StatusBorrowed),
		})
		return mapErr(err)
	})
	if err != nil {
		return model.Borrowing{}, err
	}
	return r.GetBorrowing(ctx, nb.ID)
}

func (r *repo) GetBorrowing(ctx context.Context, id string) (model.Borrowing, error) {
	if !validID(id) {
		return model.Borrowing{}, errs.ErrBorrowingNotFound
	}
	rows, err := r.db.Query(ctx, borrowingsFrom(borrowingsTableName)+` where b.id = $1`, id)
	if err != nil {
		return model.Borrowing{}, mapErr(err)
	}
	items, err := collectBorrowings(rows)
	if err != nil {
		return model.Borrowing{}, err
	}
	if len(items) == 0 {
		return model.Borrowing{}, errs.ErrBorrowingNotFound
	}
	return items[0], nil
}

func (r *repo) Return(ctx context.Context, rb model.ReturnBorrowing) (model.Borrowing, error) {
	if !validID(rb.ID) {
		return model.Borrowing{}, errs.ErrBorrowingNotFound
	}
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		const closeLoan = `update borrowings
		set status = 'returned', return_date = @return_date, total_fee = @total_fee, late_fee = @late_fee, updated_at = @return_date
		where id = @id and user_id = @user_id and status <> 'returned'
		returning book_id`
		var bookID string
		err := tx.QueryRow(ctx, closeLoan, pgx.NamedArgs{
			"id":          rb.ID,
			"user_id":     rb.UserID,
			"return_date": rb.ReturnDate,
			"total_fee":   rb.TotalFee,
			"late_fee":    rb.LateFee,
		}).Scan(&bookID)
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrAlreadyReturned
		}
		if err != nil {
			return mapErr(err)
		}

		const giveBack = `update books
		set available_copies = least(available_copies + 1, total_copies), updated_at = $2
		where id = $1`
		if _, err := tx.Exec(ctx, giveBack, bookID, rb.ReturnDate); err != nil {
			return mapErr(err)
		}

		const charge = `update users set total_fees = total_fees + $2, updated_at = $3 where id = $1`
		_, err = tx.Exec(ctx, charge, rb.UserID, rb.TotalFee, rb.ReturnDate)
		return mapErr(err)
	})
	if err != nil {
		return model.Borrowing{}, err
	}
	return r.GetBorrowing(ctx, rb.ID)
}

func (r *repo) ListBorrowings(ctx context.Context, userID string) ([]model.Borrowing, error) {
	q := borrowingsFrom(borrowingsTableName)
	var args []any
	if userID != "" {
		if !validID(userID) {
			return []model.Borrowing{}, nil
		}
		q += ` where b.user_id = $1`
		args = append(args, userID)
	}
	q += ` order by b.created_at desc, b.id`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectBorrowings(rows)
}

func (r *repo) MarkOverdue(ctx context.Context, now time.Time) ([]model.Borrowing, error) {
	q := `with promoted as (
		update borrowings set status = 'overdue', updated_at = @now
		where status = 'borrowed' and due_date < @now
		returning *
	) ` + borrowingsFrom("promoted") + ` order by b.due_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"now": now})
	if err != nil {
		return nil, mapErr(err)
	}
	return collectBorrowings(rows)
}

func borrowingsFrom(source string) string {
	return fmt.Sprintf(borrowingSelect, source)
}
