package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Astemirdum/library-rental/librarian/internal/client"
	"github.com/Astemirdum/library-rental/librarian/internal/session"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv     *httptest.Server
	paths   Paths
	failing atomic.Bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}
	dir := t.TempDir()
	f.paths = Paths{Session: filepath.Join(dir, "session.json"), Cache: filepath.Join(dir, "cache.json")}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(client.AuthResponse{
			Token:     "tok-1",
			ExpiresAt: time.Now().Add(time.Hour),
			User:      client.User{ID: "u-1", Name: "Ann", Email: body["email"], Role: "admin", IsActive: true},
		})
	})
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, _ *http.Request) {
		if f.failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"message":"Database connection unavailable. Please check the database configuration.","error":"DATABASE_DISCONNECTED"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(client.BookList{
			Books:       []client.Book{{ID: "b-1", Title: "Dune", Author: "Frank Herbert", Genre: "Fiction", TotalCopies: 2, AvailableCopies: 1, DailyFee: 0.5}},
			TotalPages:  1,
			CurrentPage: 1,
			Total:       1,
		})
	})
	mux.HandleFunc("/api/borrowings/my-borrowings", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		borrowed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		returned := borrowed.Add(48 * time.Hour)
		_ = json.NewEncoder(w).Encode([]client.Borrowing{
			{ID: "loan-1", BookID: "b-1", Book: &client.Book{Title: "Dune"}, BorrowDate: borrowed, DueDate: borrowed.Add(7 * 24 * time.Hour), TotalFee: 5.75, LateFee: 0.75, Status: client.StatusOverdue},
			{ID: "loan-2", BookID: "b-2", BorrowDate: borrowed, DueDate: borrowed, ReturnDate: &returned, TotalFee: 1, Status: client.StatusReturned},
		})
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := New(Config{}, f.paths, strings.NewReader(stdin), &out, &errOut)
	root := a.Root()
	root.SetArgs(append([]string{"--server", f.srv.URL}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestLoginPersistsSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	out, _, err := f.run(t, "ann@example.com\nsecret1\n", "--lang", "en", "login")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as Ann (Admin)")

	sess, err := session.Load(f.paths.Session)
	require.NoError(t, err)
	require.Equal(t, "tok-1", sess.Token)
	require.Equal(t, f.srv.URL, sess.Server)
	require.True(t, sess.IsAdmin())

	_, errOut, err := f.run(t, "ann@example.com\nwrong\n", "--lang", "en", "login")
	require.Error(t, err)
	require.Contains(t, errOut, "Error: Invalid credentials")
}

func TestBooksListFallsBackToCache(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	out, _, err := f.run(t, "", "--lang", "en", "books", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Dune")
	require.Contains(t, out, "Page 1 of 1 (1 books)")

	f.failing.Store(true)
	out, errOut, err := f.run(t, "", "--lang", "en", "books", "list")
	require.NoError(t, err)
	require.Contains(t, errOut, "The library database is unavailable.")
	require.Contains(t, out, "Showing cached results from")
	require.Contains(t, out, "Dune")

	_, _, err = f.run(t, "", "--lang", "en", "books", "list", "--search", "never-cached")
	require.Error(t, err)
}

func TestBorrowRequiresLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, errOut, err := f.run(t, "", "--lang", "en", "borrow", "b-1")
	require.Error(t, err)
	require.Contains(t, errOut, "Please log in first")
}

func TestLanguageIsRemembered(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	out, _, err := f.run(t, "", "lang", "fr")
	require.NoError(t, err)
	require.Contains(t, out, "Langue définie sur fr")

	_, _, err = f.run(t, "ann@example.com\nsecret1\n", "login")
	require.NoError(t, err)

	out, _, err = f.run(t, "", "mine")
	require.NoError(t, err)
	require.Contains(t, out, "Mon Tableau de Bord")
	require.Contains(t, out, "Bon retour, Ann !")
	require.Contains(t, out, "$6.75")
	require.Contains(t, out, "+$0.75 retard")
	require.Contains(t, out, "En Retard")
	require.Contains(t, out, "Historique des Emprunts")
}
