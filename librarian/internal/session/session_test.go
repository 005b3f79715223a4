package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession_SaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "librarian", "session.json")

	empty, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Session{}, empty)

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Session{Server: "http://localhost:8080", Token: "tok", ExpiresAt: exp, Name: "Ann", Role: "admin", Language: "fr"}
	require.NoError(t, Save(path, s))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, s, got)
	require.True(t, got.IsAdmin())
}

func TestSession_LoggedIn(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	require.False(t, Session{}.LoggedIn(now))
	require.True(t, Session{Token: "t"}.LoggedIn(now))
	require.True(t, Session{Token: "t", ExpiresAt: now.Add(time.Hour)}.LoggedIn(now))
	require.False(t, Session{Token: "t", ExpiresAt: now.Add(-time.Hour)}.LoggedIn(now))

	out := Session{Server: "s", Token: "t", Role: "admin", Language: "fr"}.Logout()
	require.Equal(t, Session{Server: "s", Language: "fr"}, out)
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only consulted on unix")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "librarian", "session.json"), path)
}
