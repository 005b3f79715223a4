package app

import (
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Astemirdum/library-rental/librarian/internal/client"
	"github.com/Astemirdum/library-rental/librarian/internal/i18n"
	"github.com/Astemirdum/library-rental/librarian/internal/seed"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const minPasswordLength = 6

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func (a *App) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				if email, err = a.prompt(a.tr.T("auth.login.email")); err != nil {
					return a.fail(err)
				}
			}
			password, err := a.promptPassword(a.tr.T("auth.login.password"))
			if err != nil {
				return a.fail(err)
			}
			resp, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return a.fail(err)
			}
			return a.signedIn(resp, "auth.login.success")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *App) registerCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if name == "" {
				if name, err = a.prompt(a.tr.T("auth.register.full_name")); err != nil {
					return a.fail(err)
				}
			}
			if email == "" {
				if email, err = a.prompt(a.tr.T("auth.login.email")); err != nil {
					return a.fail(err)
				}
			}
			password, err := a.promptPassword(a.tr.T("auth.login.password"))
			if err != nil {
				return a.fail(err)
			}
			confirm, err := a.promptPassword(a.tr.T("auth.register.confirm"))
			if err != nil {
				return a.fail(err)
			}
			if password != confirm {
				return a.fail(errors.New(a.tr.T("auth.errors.passwords_no_match")))
			}
			if len(password) < minPasswordLength {
				return a.fail(errors.New(a.tr.T("auth.errors.password_too_short")))
			}
			resp, err := a.api.Register(cmd.Context(), name, email, password)
			if err != nil {
				return a.fail(err)
			}
			return a.signedIn(resp, "auth.register.success")
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *App) signedIn(resp client.AuthResponse, key string) error {
	a.sess.Token = resp.Token
	a.sess.ExpiresAt = resp.ExpiresAt
	a.sess.UserID = resp.User.ID
	a.sess.Name = resp.User.Name
	a.sess.Role = resp.User.Role
	if err := a.saveSession(); err != nil {
		return a.fail(err)
	}
	a.printf("%s\n", a.tr.T(key, i18n.P("name", resp.User.Name), i18n.P("role", a.tr.T("role."+resp.User.Role))))
	return nil
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.sess = a.sess.Logout()
			if err := a.saveSession(); err != nil {
				return a.fail(err)
			}
			a.printf("%s\n", a.tr.T("auth.logout.success"))
			return nil
		},
	}
}

func (a *App) langCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "lang <en|fr>",
		Short:     "Set the interface language",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{i18n.English, i18n.French},
		RunE: func(_ *cobra.Command, args []string) error {
			lang := strings.ToLower(args[0])
			if !i18n.Supported(lang) {
				return a.fail(errors.Errorf("unsupported language %q", args[0]))
			}
			a.sess.Language = lang
			a.tr = i18n.New(lang)
			if err := a.saveSession(); err != nil {
				return a.fail(err)
			}
			a.printf("%s\n", a.tr.T("common.language_set", i18n.P("lang", lang)))
			return nil
		},
	}
}

func (a *App) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server and database status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.api.Health(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			a.printf("%s\n", a.tr.T("health.ok", i18n.P("status", h.Status), i18n.P("database", h.Database)))
			return nil
		},
	}
}

func (a *App) booksCmd() *cobra.Command {
	books := &cobra.Command{Use: "books", Short: "Browse the catalog"}

	var f client.BookFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List books, falling back to the last good result when the server fails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.api.ListBooks(cmd.Context(), f)
			if err != nil {
				cached, savedAt, ok := a.cache.Load(f)
				if !ok {
					return a.fail(err)
				}
				_ = a.fail(err) //nolint:errcheck
				a.printf("%s\n", a.tr.T("books.cached", i18n.P("time", savedAt.Local().Format(time.DateTime))))
				a.renderBooks(cached)
				return nil
			}
			if err = a.cache.Save(f, res); err != nil {
				a.log.Debug("cache save failed")
			}
			a.renderBooks(res)
			return nil
		},
	}
	list.Flags().StringVar(&f.Search, "search", "", "title or author substring")
	list.Flags().StringVar(&f.Genre, "genre", "", "genre, All for any")
	list.Flags().IntVar(&f.Page, "page", 0, "page number")
	list.Flags().IntVar(&f.Limit, "limit", 0, "page size")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.api.GetBook(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			a.renderBook(b)
			return nil
		},
	}
	books.AddCommand(list, show)
	return books
}

func (a *App) borrowCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "borrow <bookId>",
		Short: "Borrow a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			loan, err := a.api.Borrow(cmd.Context(), args[0], days)
			if err != nil {
				return a.fail(err)
			}
			a.printf("%s %s\n", a.tr.T("book.success_message"), a.tr.T("book.due", i18n.P("date", loan.DueDate.Local().Format(time.DateOnly))))
			a.printf("%s\n", loan.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "loan length in days, 1 to 30 (server default 7)")
	return cmd
}

func (a *App) mineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "Dashboard of your loans and fees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			loans, err := a.api.MyBorrowings(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			a.renderDashboard(loans)
			return nil
		},
	}
}

func (a *App) returnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <borrowingId>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			loan, err := a.api.Return(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			a.printf("%s\n", a.tr.T("dashboard.returned_success", i18n.P("total", money(loan.TotalFee)), i18n.P("late", money(loan.LateFee))))
			return nil
		},
	}
}

func (a *App) adminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Catalog, loan and user management (admin role)",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return a.requireLogin()
		},
	}
	admin.AddCommand(a.adminBooksCmd(), a.adminBorrowingsCmd(), a.adminUsersCmd(), a.adminSeedCmd())
	return admin
}

func (a *App) adminBooksCmd() *cobra.Command {
	books := &cobra.Command{Use: "books", Short: "Add, update and delete books"}

	var in client.CreateBook
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.api.CreateBook(cmd.Context(), in)
			if err != nil {
				return a.fail(err)
			}
			a.printf("%s\n", a.tr.T("book.saved", i18n.P("title", b.Title), i18n.P("id", b.ID)))
			return nil
		},
	}
	bookFlags(add, &in)
	for _, name := range []string{"title", "author", "isbn", "genre", "description", "copies", "year"} {
		_ = add.MarkFlagRequired(name) //nolint:errcheck
	}

	var changes client.CreateBook
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := patchFromFlags(cmd, changes)
			b, err := a.api.UpdateBook(cmd.Context(), args[0], patch)
			if err != nil {
				return a.fail(err)
			}
			a.printf("%s\n", a.tr.T("book.saved", i18n.P("title", b.Title), i18n.P("id", b.ID)))
			return nil
		},
	}
	bookFlags(update, &changes)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book without open loans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.DeleteBook(cmd.Context(), args[0]); err != nil {
				return a.fail(err)
			}
			a.printf("%s\n", a.tr.T("book.deleted"))
			return nil
		},
	}

	cover := &cobra.Command{
		Use:   "cover <id> <image>",
		Short: "Upload a cover image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return a.fail(err)
			}
			defer f.Close()
			b, err := a.api.UploadCover(cmd.Context(), args[0], f, args[1])
			if err != nil {
				return a.fail(err)
			}
			a.printf("%s\n", a.tr.T("book.saved", i18n.P("title", b.Title), i18n.P("id", b.ID)))
			return nil
		},
	}
	books.AddCommand(add, update, del, cover)
	return books
}

func bookFlags(cmd *cobra.Command, in *client.CreateBook) {
	cmd.Flags().StringVar(&in.Title, "title", "", "title")
	cmd.Flags().StringVar(&in.Author, "author", "", "author")
	cmd.Flags().StringVar(&in.ISBN, "isbn", "", "ISBN-10 or ISBN-13")
	cmd.Flags().StringVar(&in.Genre, "genre", "", "genre")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	cmd.Flags().StringVar(&in.CoverImage, "cover-url", "", "cover image url")
	cmd.Flags().IntVar(&in.TotalCopies, "copies", 0, "total copies")
	cmd.Flags().Float64Var(&in.DailyFee, "daily-fee", 0.5, "fee per day")
	cmd.Flags().IntVar(&in.PublishedYear, "year", 0, "publication year")
}

// patchFromFlags keeps only the flags given on the command line.
func patchFromFlags(cmd *cobra.Command, in client.CreateBook) client.BookPatch {
	var p client.BookPatch
	changed := cmd.Flags().Changed
	if changed("title") {
		p.Title = &in.Title
	}
	if changed("author") {
		p.Author = &in.Author
	}
	if changed("isbn") {
		p.ISBN = &in.ISBN
	}
	if changed("genre") {
		p.Genre = &in.Genre
	}
	if changed("description") {
		p.Description = &in.Description
	}
	if changed("cover-url") {
		p.CoverImage = &in.CoverImage
	}
	if changed("copies") {
		p.TotalCopies = &in.TotalCopies
	}
	if changed("daily-fee") {
		p.DailyFee = &in.DailyFee
	}
	if changed("year") {
		p.PublishedYear = &in.PublishedYear
	}
	return p
}

func (a *App) adminBorrowingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "borrowings",
		Short: "All loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loans, err := a.api.AllBorrowings(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			a.renderAllBorrowings(loans)
			return nil
		},
	}
}

func (a *App) adminUsersCmd() *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.api.ListUsers(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			a.renderUsers(list)
			return nil
		},
	}

	var (
		role   string
		active bool
	)
	set := &cobra.Command{
		Use:   "set <id>",
		Short: "Change the role or activation of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch client.UserPatch
			if cmd.Flags().Changed("role") {
				patch.Role = &role
			}
			if cmd.Flags().Changed("active") {
				patch.IsActive = &active
			}
			u, err := a.api.UpdateUser(cmd.Context(), args[0], patch)
			if err != nil {
				return a.fail(err)
			}
			a.renderUsers([]client.User{u})
			return nil
		},
	}
	set.Flags().StringVar(&role, "role", "", "user or admin")
	set.Flags().BoolVar(&active, "active", true, "whether the account may sign in")
	users.AddCommand(set)
	return users
}

func (a *App) adminSeedCmd() *cobra.Command {
	var (
		count int
		seedN int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add sample books with generated ISBNs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seedN == 0 {
				seedN = a.clock.Now().UnixNano()
			}
			books, err := seed.Books(count, seed.NewGenerator(rand.New(rand.NewSource(seedN))))
			if err != nil {
				return a.fail(err)
			}
			added := 0
			for _, b := range books {
				if _, err = a.api.CreateBook(cmd.Context(), b); err != nil {
					if errors.Is(err, client.ErrUnavailable) {
						return a.fail(err)
					}
					a.printf("%s\n", a.tr.T("admin.seed_failed", i18n.P("title", b.Title), i18n.P("error", err.Error())))
					continue
				}
				added++
			}
			a.printf("%s\n", a.tr.T("admin.seeded", i18n.P("count", added)))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 14, "number of books")
	cmd.Flags().Int64Var(&seedN, "seed", 0, "random seed for ISBNs")
	return cmd
}
