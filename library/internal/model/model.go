package model

import (
	"time"
)

const DefaultCoverImage = "https://images.pexels.com/photos/159866/books-book-pages-read-literature-159866.jpeg"

var Genres = []string{
	"Fiction", "Non-Fiction", "Science", "Technology", "History", "Biography",
	"Mystery", "Romance", "Fantasy", "Self-Help", "Memoir",
}

// GenreAll disables the genre filter when listing books.
const GenreAll = "All"

type Book struct {
	ID              string     `json:"id" db:"id" bson:"_id"`
	Title           string     `json:"title" db:"title" bson:"title"`
	Author          string     `json:"author" db:"author" bson:"author"`
	ISBN            string     `json:"isbn" db:"isbn" bson:"isbn"`
	Genre           string     `json:"genre" db:"genre" bson:"genre"`
	Description     string     `json:"description" db:"description" bson:"description"`
	CoverImage      string     `json:"coverImage" db:"cover_image" bson:"coverImage"`
	TotalCopies     int        `json:"totalCopies" db:"total_copies" bson:"totalCopies"`
	AvailableCopies int        `json:"availableCopies" db:"available_copies" bson:"availableCopies"`
	DailyFee        float64    `json:"dailyFee" db:"daily_fee" bson:"dailyFee"`
	PublishedYear   int        `json:"publishedYear" db:"published_year" bson:"publishedYear"`
	AddedBy         string     `json:"addedBy,omitempty" db:"added_by" bson:"addedBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
	DeletedAt       *time.Time `json:"-" db:"deleted_at" bson:"deletedAt,omitempty"`
}

type CreateBookRequest struct {
	Title         string  `json:"title" validate:"required"`
	Author        string  `json:"author" validate:"required"`
	ISBN          string  `json:"isbn" validate:"required,isbn"`
	Genre         string  `json:"genre" validate:"required,oneof=Fiction Non-Fiction Science Technology History Biography Mystery Romance Fantasy Self-Help Memoir"`
	Description   string  `json:"description" validate:"required"`
	CoverImage    string  `json:"coverImage" validate:"omitempty,url"`
	TotalCopies   int     `json:"totalCopies" validate:"required,min=1"`
	DailyFee      float64 `json:"dailyFee" validate:"gte=0"`
	PublishedYear int     `json:"publishedYear" validate:"required"`
}

// BookPatch carries the fields an administrator may change. Copy availability
// is derived from TotalCopies and never patched directly.
type BookPatch struct {
	Title         *string  `json:"title" validate:"omitempty,min=1"`
	Author        *string  `json:"author" validate:"omitempty,min=1"`
	ISBN          *string  `json:"isbn" validate:"omitempty,isbn"`
	Genre         *string  `json:"genre" validate:"omitempty,oneof=Fiction Non-Fiction Science Technology History Biography Mystery Romance Fantasy Self-Help Memoir"`
	Description   *string  `json:"description" validate:"omitempty,min=1"`
	CoverImage    *string  `json:"coverImage" validate:"omitempty,url"`
	TotalCopies   *int     `json:"totalCopies" validate:"omitempty,min=1"`
	DailyFee      *float64 `json:"dailyFee" validate:"omitempty,gte=0"`
	PublishedYear *int     `json:"publishedYear"`
}

func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.ISBN == nil && p.Genre == nil &&
		p.Description == nil && p.CoverImage == nil && p.TotalCopies == nil &&
		p.DailyFee == nil && p.PublishedYear == nil
}

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

type BookFilter struct {
	Search string
	Genre  string
	Page   int
	Limit  int
}

func (f BookFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type ListBooks struct {
	Books       []Book `json:"books"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	Total       int    `json:"total"`
}

type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
	StatusOverdue  Status = "overdue"
)

func (s Status) Open() bool {
	return s != StatusReturned
}

type Borrowing struct {
	ID         string       `json:"id" bson:"_id"`
	UserID     string       `json:"userId" bson:"userId"`
	BookID     string       `json:"bookId" bson:"bookId"`
	User       *UserSummary `json:"user,omitempty" bson:"user,omitempty"`
	Book       *Book        `json:"book,omitempty" bson:"book,omitempty"`
	BorrowDate time.Time    `json:"borrowDate" bson:"borrowDate"`
	DueDate    time.Time    `json:"dueDate" bson:"dueDate"`
	ReturnDate *time.Time   `json:"returnDate,omitempty" bson:"returnDate,omitempty"`
	DailyFee   float64      `json:"dailyFee" bson:"dailyFee"`
	TotalFee   float64      `json:"totalFee" bson:"totalFee"`
	LateFee    float64      `json:"lateFee" bson:"lateFee"`
	Status     Status       `json:"status" bson:"status"`
	IsPaid     bool         `json:"isPaid" bson:"isPaid"`
	CreatedAt  time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt" bson:"updatedAt"`
}

type BorrowRequest struct {
	BookID string `json:"bookId" validate:"required"`
	Days   *int   `json:"days" validate:"omitempty,min=1,max=30"`
}

// NewBorrowing is what the store needs to open a loan atomically.
type NewBorrowing struct {
	ID         string
	UserID     string
	BookID     string
	BorrowDate time.Time
	DueDate    time.Time
}

// ReturnBorrowing is the frozen state written when a loan closes.
type ReturnBorrowing struct {
	ID         string
	UserID     string
	ReturnDate time.Time
	TotalFee   float64
	LateFee    float64
}

type UserSummary struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

type User struct {
	ID             string    `json:"id" db:"id" bson:"_id"`
	Name           string    `json:"name" db:"name" bson:"name"`
	Email          string    `json:"email" db:"email" bson:"email"`
	PasswordHash   string    `json:"-" db:"password_hash" bson:"passwordHash"`
	Role           string    `json:"role" db:"role" bson:"role"`
	MembershipDate time.Time `json:"membershipDate" db:"membership_date" bson:"membershipDate"`
	TotalFees      float64   `json:"totalFees" db:"total_fees" bson:"totalFees"`
	IsActive       bool      `json:"isActive" db:"is_active" bson:"isActive"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type UserPatch struct {
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"isActive"`
}

type Health struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

type Message struct {
	Message string `json:"message"`
}
