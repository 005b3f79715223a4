package seed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckDigit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		first12 string
		want    byte
	}{
		{first12: "978044101359", want: '3'},
		{first12: "978030640615", want: '7'},
		{first12: "978000000000", want: '2'},
	}
	for _, tt := range tests {
		got, err := CheckDigit(tt.first12)
		require.NoError(t, err)
		require.Equal(t, string(tt.want), string(got), tt.first12)
	}

	_, err := CheckDigit("97804410135")
	require.Error(t, err)
	_, err = CheckDigit("97804410135x")
	require.Error(t, err)
}

func TestValidISBN13(t *testing.T) {
	t.Parallel()
	require.True(t, ValidISBN13("9780441013593"))
	require.False(t, ValidISBN13("9780441013594"))
	require.False(t, ValidISBN13("978044101359"))
}

func TestBooks(t *testing.T) {
	t.Parallel()
	gen := NewGenerator(rand.New(rand.NewSource(42)))
	count := len(samples) + 3
	books, err := Books(count, gen)
	require.NoError(t, err)
	require.Len(t, books, count)

	seen := map[string]bool{}
	for _, b := range books {
		require.True(t, ValidISBN13(b.ISBN), b.ISBN)
		require.Equal(t, "978", b.ISBN[:3])
		require.False(t, seen[b.ISBN], "duplicate isbn %s", b.ISBN)
		seen[b.ISBN] = true
		require.GreaterOrEqual(t, b.TotalCopies, 1)
	}
	require.Equal(t, samples[0].title+" (Vol. 2)", books[len(samples)].Title)
}

func TestGenerator_Exhausted(t *testing.T) {
	t.Parallel()
	// a source that always yields the same number
	gen := NewGenerator(rand.New(constSource(7)))
	_, err := gen.Next()
	require.NoError(t, err)
	_, err = gen.Next()
	require.ErrorIs(t, err, ErrISBNExhausted)
}

type constSource int64

func (c constSource) Int63() int64 { return int64(c) }
func (c constSource) Seed(int64)   {}
