package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/fee"
	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/Astemirdum/library-rental/pkg/auth"
	"github.com/Astemirdum/library-rental/pkg/kafka"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func feeInput(b model.Borrowing) fee.Input {
	return fee.Input{
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
		DailyFee:   b.DailyFee,
	}
}

// withCurrentFees recomputes the fees of an open loan as of now and reports it
// as overdue once the due date has passed. Closed loans keep their frozen fees.
func withCurrentFees(b model.Borrowing, now time.Time) model.Borrowing {
	if !b.Status.Open() {
		return b
	}
	in := feeInput(b)
	fees := fee.Calculate(in, now)
	b.TotalFee, b.LateFee = fees.Total, fees.Late
	if fee.IsOverdue(in, now) {
		b.Status = model.StatusOverdue
	}
	return b
}

func loanEvent(t kafka.EventType, b model.Borrowing, at time.Time) kafka.LoanEvent {
	ev := kafka.LoanEvent{
		Timestamp:   at,
		EventType:   t,
		UserID:      b.UserID,
		BorrowingID: b.ID,
		BookID:      b.BookID,
		TotalFee:    b.TotalFee,
		LateFee:     b.LateFee,
	}
	if b.User != nil {
		ev.UserName = b.User.Name
	}
	return ev
}

func (s *Service) Borrow(ctx context.Context, userID string, req model.BorrowRequest) (model.Borrowing, error) {
	days := fee.DefaultBorrowDays
	if req.Days != nil {
		days = *req.Days
	}
	if !fee.ValidDays(days) {
		return model.Borrowing{}, errs.ErrInvalidDays
	}

	now := s.now()
	loan, err := s.repo.Borrow(ctx, model.NewBorrowing{
		ID:         uuid.NewString(),
		UserID:     userID,
		BookID:     req.BookID,
		BorrowDate: now,
		DueDate:    fee.DueDate(now, days),
	})
	if err != nil {
		return model.Borrowing{}, err
	}
	loan = withCurrentFees(loan, now)
	s.events.Publish(ctx, loanEvent(kafka.EventBorrowed, loan, now))
	return loan, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]model.Borrowing, error) {
	return s.listBorrowings(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context, caller auth.User) ([]model.Borrowing, error) {
	if !caller.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return s.listBorrowings(ctx, "")
}

func (s *Service) listBorrowings(ctx context.Context, userID string) ([]model.Borrowing, error) {
	items, err := s.repo.ListBorrowings(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]model.Borrowing, 0, len(items))
	for _, b := range items {
		out = append(out, withCurrentFees(b, now))
	}
	return out, nil
}

func (s *Service) Return(ctx context.Context, userID, borrowingID string) (model.Borrowing, error) {
	loan, err := s.repo.GetBorrowing(ctx, borrowingID)
	if err != nil {
		return model.Borrowing{}, err
	}
	if loan.UserID != userID {
		return model.Borrowing{}, errs.ErrBorrowingNotFound
	}
	if !loan.Status.Open() {
		return model.Borrowing{}, errs.ErrAlreadyReturned
	}

	now := s.now()
	in := feeInput(loan)
	in.ReturnDate = &now
	fees := fee.Calculate(in, now)

	returned, err := s.repo.Return(ctx, model.ReturnBorrowing{
		ID:         loan.ID,
		UserID:     userID,
		ReturnDate: now,
		TotalFee:   fees.Total,
		LateFee:    fees.Late,
	})
	if err != nil {
		return model.Borrowing{}, err
	}
	s.events.Publish(ctx, loanEvent(kafka.EventReturned, returned, now))
	return returned, nil
}

// MarkOverdue persists the overdue status of open loans past their due date.
func (s *Service) MarkOverdue(ctx context.Context) (int, error) {
	now := s.now()
	promoted, err := s.repo.MarkOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, b := range promoted {
		b = withCurrentFees(b, now)
		s.events.Publish(ctx, loanEvent(kafka.EventOverdue, b, now))
	}
	if len(promoted) > 0 {
		s.log.Info("loans marked overdue", zap.Int("count", len(promoted)))
	}
	return len(promoted), nil
}
