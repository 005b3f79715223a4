package cache

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Astemirdum/library-rental/librarian/internal/client"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()
	s := New(filepath.Join(t.TempDir(), "nested", "books.json"))
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	f := client.BookFilter{Search: "dune", Page: 1}
	_, _, ok := s.Load(f)
	require.False(t, ok)

	list := client.BookList{Books: []client.Book{{ID: "b-1", Title: "Dune"}}, TotalPages: 1, CurrentPage: 1, Total: 1}
	require.NoError(t, s.Save(f, list))

	got, savedAt, ok := s.Load(f)
	require.True(t, ok)
	require.Equal(t, list.Books[0].Title, got.Books[0].Title)
	require.Equal(t, now, savedAt)

	_, _, ok = s.Load(client.BookFilter{Search: "dune", Page: 2})
	require.False(t, ok)
}

func TestStore_CorruptFileIsReplaced(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	s := New(path)

	_, _, ok := s.Load(client.BookFilter{})
	require.False(t, ok)
	require.NoError(t, s.Save(client.BookFilter{}, client.BookList{Total: 3}))
	got, _, ok := s.Load(client.BookFilter{})
	require.True(t, ok)
	require.Equal(t, 3, got.Total)
}

func TestStore_Evicts(t *testing.T) {
	t.Parallel()
	s := New(filepath.Join(t.TempDir(), "books.json"))
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i <= maxEntries; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		require.NoError(t, s.Save(client.BookFilter{Search: strconv.Itoa(i)}, client.BookList{Total: i}))
	}
	_, _, ok := s.Load(client.BookFilter{Search: "0"})
	require.False(t, ok)
	_, _, ok = s.Load(client.BookFilter{Search: strconv.Itoa(maxEntries)})
	require.True(t, ok)
}
