package app

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Astemirdum/library-rental/librarian/internal/client"
	"github.com/Astemirdum/library-rental/librarian/internal/i18n"
)

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func date(t time.Time) string {
	return t.Local().Format(time.DateOnly)
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *App) renderBooks(list client.BookList) {
	a.printf("%s\n", a.tr.T("books.title"))
	if len(list.Books) == 0 {
		a.printf("%s\n", a.tr.T("books.empty"))
		return
	}
	w := a.table()
	for _, b := range list.Books {
		avail := fmt.Sprintf("%d/%d %s", b.AvailableCopies, b.TotalCopies, a.tr.T("books.available"))
		if b.AvailableCopies == 0 {
			avail = a.tr.T("book.unavailable")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%s\t%s\n", b.ID, b.Title, b.Author, b.Genre, money(b.DailyFee), a.tr.T("books.per_day"), avail)
	}
	_ = w.Flush() //nolint:errcheck
	a.printf("%s\n", a.tr.T("books.page",
		i18n.P("page", list.CurrentPage), i18n.P("pages", list.TotalPages), i18n.P("total", list.Total)))
}

func (a *App) renderBook(b client.Book) {
	w := a.table()
	fmt.Fprintf(w, "%s\t%s\n", b.Title, b.Author)
	fmt.Fprintf(w, "%s\t%s\n", a.tr.T("book.isbn"), b.ISBN)
	fmt.Fprintf(w, "%s\t%s%s\n", a.tr.T("book.daily_rate"), money(b.DailyFee), a.tr.T("books.per_day"))
	fmt.Fprintf(w, "%s\t%d/%d\n", a.tr.T("book.available_copies"), b.AvailableCopies, b.TotalCopies)
	fmt.Fprintf(w, "%s\t%s\n", a.tr.T("book.description"), b.Description)
	_ = w.Flush() //nolint:errcheck
}

// renderDashboard shows active loans with their running fees, then history.
func (a *App) renderDashboard(loans []client.Borrowing) {
	var (
		active, history []client.Borrowing
		totalFees       float64
	)
	for _, l := range loans {
		totalFees += l.TotalFee
		if l.Status == client.StatusReturned {
			history = append(history, l)
			continue
		}
		active = append(active, l)
	}

	a.printf("%s\n", a.tr.T("dashboard.title"))
	if a.sess.Name != "" {
		a.printf("%s\n", a.tr.T("dashboard.welcome", i18n.P("name", a.sess.Name)))
	}
	w := a.table()
	fmt.Fprintf(w, "%s\t%d\n", a.tr.T("dashboard.active_borrowings"), len(active))
	fmt.Fprintf(w, "%s\t%d\n", a.tr.T("dashboard.completed"), len(history))
	fmt.Fprintf(w, "%s\t%d\n", a.tr.T("dashboard.total_books"), len(loans))
	fmt.Fprintf(w, "%s\t%s\n", a.tr.T("dashboard.total_fees"), money(totalFees))
	_ = w.Flush() //nolint:errcheck

	if len(loans) == 0 {
		a.printf("\n%s\n", a.tr.T("dashboard.no_books_title"))
		return
	}
	if len(active) > 0 {
		a.printf("\n%s\n", a.tr.T("dashboard.currently_borrowed"))
		w = a.table()
		for _, l := range active {
			fee := money(l.TotalFee)
			if l.LateFee > 0 {
				fee += " " + a.tr.T("dashboard.late_fee", i18n.P("amount", money(l.LateFee)))
			}
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s %s\t%s %s\t%s\n",
				l.ID, bookTitle(l),
				a.tr.T("dashboard.borrowed"), date(l.BorrowDate),
				a.tr.T("dashboard.due"), date(l.DueDate),
				a.tr.T("dashboard.current_fee"), fee,
				a.tr.T("status."+l.Status))
		}
		_ = w.Flush() //nolint:errcheck
	}
	if len(history) > 0 {
		a.printf("\n%s\n", a.tr.T("dashboard.borrowing_history"))
		w = a.table()
		for _, l := range history {
			returned := ""
			if l.ReturnDate != nil {
				returned = date(*l.ReturnDate)
			}
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n", l.ID, bookTitle(l), a.tr.T("dashboard.returned"), returned, money(l.TotalFee))
		}
		_ = w.Flush() //nolint:errcheck
	}
}

func (a *App) renderAllBorrowings(loans []client.Borrowing) {
	a.printf("%s\n", a.tr.T("admin.borrowings"))
	w := a.table()
	fmt.Fprintf(w, "ID\t%s\t%s\t%s\t%s\n", a.tr.T("admin.user"), a.tr.T("admin.book"), a.tr.T("dashboard.due"), a.tr.T("dashboard.status"))
	for _, l := range loans {
		user := l.UserID
		if l.User != nil {
			user = l.User.Name + " <" + l.User.Email + ">"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", l.ID, user, bookTitle(l), date(l.DueDate), a.tr.T("status."+l.Status), money(l.TotalFee))
	}
	_ = w.Flush() //nolint:errcheck
}

func (a *App) renderUsers(users []client.User) {
	w := a.table()
	fmt.Fprintf(w, "ID\t%s\t%s\t%s\t\t\n", a.tr.T("admin.user"), a.tr.T("admin.role"), a.tr.T("admin.member_since"))
	for _, u := range users {
		state := a.tr.T("status.active")
		if !u.IsActive {
			state = a.tr.T("status.inactive")
		}
		fmt.Fprintf(w, "%s\t%s <%s>\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, a.tr.T("role."+u.Role), date(u.MembershipDate), state, money(u.TotalFees))
	}
	_ = w.Flush() //nolint:errcheck
}

func bookTitle(l client.Borrowing) string {
	if l.Book != nil {
		return l.Book.Title
	}
	return l.BookID
}
