package errs

import (
	"errors"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrBookNotFound         = errors.New("Book not found")
	ErrBorrowingNotFound    = errors.New("Borrowing not found")
	ErrUserNotFound         = errors.New("User not found")
	ErrNotAvailable         = errors.New("Book not available")
	ErrAlreadyReturned      = errors.New("Book already returned")
	ErrBookOnLoan           = errors.New("Book has active borrowings")
	ErrInvalidCopies        = errors.New("totalCopies cannot be lower than the number of borrowed copies")
	ErrInvalidDays          = errors.New("days must be between 1 and 30")
	ErrEmptyPatch           = errors.New("nothing to update")
	ErrForbidden            = errors.New("Access denied")
	ErrAlreadyExists        = errors.New("already exists")
	ErrEmailTaken           = errors.New("User already exists")
	ErrISBNTaken            = errors.New("A book with this ISBN already exists")
	ErrInvalidCredentials   = errors.New("Invalid credentials")
	ErrInactiveUser         = errors.New("Account is deactivated")
	ErrStoreUnavailable     = errors.New("Database connection failed")
	ErrCoverStorageDisabled = errors.New("cover storage is not configured")
)
