// Package fee computes rental charges for a loan. All functions are pure: the
// current time is always passed in.
package fee

import (
	"math"
	"time"
)

const (
	Day = 24 * time.Hour

	// LateFeeRate is the share of the daily fee charged per overdue day.
	LateFeeRate = 0.5

	MinBorrowDays     = 1
	MaxBorrowDays     = 30
	DefaultBorrowDays = 7
)

type Input struct {
	BorrowDate time.Time
	DueDate    time.Time
	// ReturnDate is nil while the loan is open.
	ReturnDate *time.Time
	DailyFee   float64
}

type Fees struct {
	Total float64
	Late  float64
}

func (in Input) open() bool {
	return in.ReturnDate == nil
}

func (in Input) asOf(now time.Time) time.Time {
	if in.ReturnDate != nil {
		return *in.ReturnDate
	}
	return now
}

// Calculate returns the total and late fee of a loan as of now, or as of its
// return date when the loan is closed.
func Calculate(in Input, now time.Time) Fees {
	at := in.asOf(now)
	base := float64(ElapsedDays(in.BorrowDate, at)) * in.DailyFee

	var late float64
	if in.open() && at.After(in.DueDate) {
		late = float64(ceilDays(at.Sub(in.DueDate))) * in.DailyFee * LateFeeRate
	}
	return Fees{Total: base + late, Late: late}
}

// ElapsedDays counts started days between from and to, never negative.
func ElapsedDays(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return ceilDays(to.Sub(from))
}

// OverdueDays is the number of started days past the due date of an open loan.
func OverdueDays(in Input, now time.Time) int {
	if !IsOverdue(in, now) {
		return 0
	}
	return ceilDays(now.Sub(in.DueDate))
}

func IsOverdue(in Input, now time.Time) bool {
	return in.open() && now.After(in.DueDate)
}

// DueDate is borrowDate plus days whole days.
func DueDate(borrowDate time.Time, days int) time.Time {
	return borrowDate.Add(time.Duration(days) * Day)
}

func ValidDays(days int) bool {
	return days >= MinBorrowDays && days <= MaxBorrowDays
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(Day)))
}
