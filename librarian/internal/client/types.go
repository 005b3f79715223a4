package client

import "time"

type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Genre           string    `json:"genre"`
	Description     string    `json:"description"`
	CoverImage      string    `json:"coverImage"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	DailyFee        float64   `json:"dailyFee"`
	PublishedYear   int       `json:"publishedYear"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreateBook struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	ISBN          string  `json:"isbn"`
	Genre         string  `json:"genre"`
	Description   string  `json:"description"`
	CoverImage    string  `json:"coverImage,omitempty"`
	TotalCopies   int     `json:"totalCopies"`
	DailyFee      float64 `json:"dailyFee"`
	PublishedYear int     `json:"publishedYear"`
}

type BookPatch struct {
	Title         *string  `json:"title,omitempty"`
	Author        *string  `json:"author,omitempty"`
	ISBN          *string  `json:"isbn,omitempty"`
	Genre         *string  `json:"genre,omitempty"`
	Description   *string  `json:"description,omitempty"`
	CoverImage    *string  `json:"coverImage,omitempty"`
	TotalCopies   *int     `json:"totalCopies,omitempty"`
	DailyFee      *float64 `json:"dailyFee,omitempty"`
	PublishedYear *int     `json:"publishedYear,omitempty"`
}

type BookFilter struct {
	Search string
	Genre  string
	Page   int
	Limit  int
}

type BookList struct {
	Books       []Book `json:"books"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	Total       int    `json:"total"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Borrowing struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	BookID     string       `json:"bookId"`
	User       *UserSummary `json:"user,omitempty"`
	Book       *Book        `json:"book,omitempty"`
	BorrowDate time.Time    `json:"borrowDate"`
	DueDate    time.Time    `json:"dueDate"`
	ReturnDate *time.Time   `json:"returnDate,omitempty"`
	DailyFee   float64      `json:"dailyFee"`
	TotalFee   float64      `json:"totalFee"`
	LateFee    float64      `json:"lateFee"`
	Status     string       `json:"status"`
	IsPaid     bool         `json:"isPaid"`
}

const (
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"
	StatusOverdue  = "overdue"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	MembershipDate time.Time `json:"membershipDate"`
	TotalFees      float64   `json:"totalFees"`
	IsActive       bool      `json:"isActive"`
}

type UserPatch struct {
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type Health struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}
