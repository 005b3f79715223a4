// Package seed builds sample catalog entries for a fresh library.
package seed

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/Astemirdum/library-rental/librarian/internal/client"
	"github.com/pkg/errors"
)

const (
	isbnPrefix      = "978"
	maxISBNAttempts = 100
	defaultDailyFee = 0.5
)

var ErrISBNExhausted = errors.New("could not generate a unique ISBN")

type sample struct {
	title, author, genre, description string
	copies, year                      int
}

var samples = []sample{
	{"1984", "George Orwell", "Fiction", "A chilling prediction of totalitarian regimes.", 8, 1949},
	{"To Kill a Mockingbird", "Harper Lee", "Fiction", "A powerful story about racial injustice in the American South.", 12, 1960},
	{"The Great Gatsby", "F. Scott Fitzgerald", "Fiction", "Wealth and longing on Long Island in the Jazz Age.", 6, 1925},
	{"Fahrenheit 451", "Ray Bradbury", "Science", "A fireman who burns books starts to read them.", 7, 1953},
	{"Lord of the Flies", "William Golding", "Fiction", "Stranded schoolboys descend into savagery.", 5, 1954},
	{"The Diary of a Young Girl", "Anne Frank", "Memoir", "A Jewish girl's diary written in hiding.", 9, 1947},
	{"Pride and Prejudice", "Jane Austen", "Romance", "Elizabeth Bennet and Mr. Darcy misjudge each other.", 10, 1813},
	{"Jane Eyre", "Charlotte Brontë", "Romance", "An orphaned governess finds love and independence.", 4, 1847},
	{"The Hobbit", "J.R.R. Tolkien", "Fantasy", "Bilbo Baggins leaves the Shire on an unexpected journey.", 11, 1937},
	{"Brave New World", "Aldous Huxley", "Science", "A society engineered for stability at the cost of freedom.", 6, 1932},
	{"Crime and Punishment", "Fyodor Dostoevsky", "Mystery", "A student commits murder and wrestles with guilt.", 5, 1866},
	{"A Tale of Two Cities", "Charles Dickens", "History", "Love and sacrifice during the French Revolution.", 13, 1859},
	{"Les Misérables", "Victor Hugo", "History", "Jean Valjean's long road to redemption.", 3, 1862},
	{"The Picture of Dorian Gray", "Oscar Wilde", "Fiction", "A portrait ages while its subject stays young.", 4, 1890},
}

// CheckDigit returns the ISBN-13 check digit for the first twelve digits.
func CheckDigit(first12 string) (byte, error) {
	if len(first12) != 12 {
		return 0, errors.Errorf("need 12 digits, got %d", len(first12))
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := first12[i]
		if d < '0' || d > '9' {
			return 0, errors.Errorf("not a digit: %q", d)
		}
		w := 1
		if i%2 == 1 {
			w = 3
		}
		sum += int(d-'0') * w
	}
	return byte('0' + (10-sum%10)%10), nil
}

// ValidISBN13 reports whether isbn is 13 digits with a correct check digit.
func ValidISBN13(isbn string) bool {
	if len(isbn) != 13 {
		return false
	}
	d, err := CheckDigit(isbn[:12])
	return err == nil && isbn[12] == d
}

// Generator produces ISBN-13 numbers under the 978 prefix, never repeating one.
type Generator struct {
	rng  *rand.Rand
	used map[string]struct{}
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng, used: map[string]struct{}{}}
}

func (g *Generator) Next() (string, error) {
	for i := 0; i < maxISBNAttempts; i++ {
		body := isbnPrefix + fmt.Sprintf("%09d", g.rng.Intn(1_000_000_000))
		d, err := CheckDigit(body)
		if err != nil {
			return "", err
		}
		isbn := body + string(d)
		if _, ok := g.used[isbn]; ok {
			continue
		}
		g.used[isbn] = struct{}{}
		return isbn, nil
	}
	return "", ErrISBNExhausted
}

// Books returns count sample books. Titles repeat with a volume suffix once the
// built-in list runs out.
func Books(count int, gen *Generator) ([]client.CreateBook, error) {
	books := make([]client.CreateBook, 0, count)
	for i := 0; i < count; i++ {
		s := samples[i%len(samples)]
		title := s.title
		if round := i / len(samples); round > 0 {
			title += " (Vol. " + strconv.Itoa(round+1) + ")"
		}
		isbn, err := gen.Next()
		if err != nil {
			return nil, err
		}
		books = append(books, client.CreateBook{
			Title:         title,
			Author:        s.author,
			ISBN:          isbn,
			Genre:         s.genre,
			Description:   s.description,
			TotalCopies:   s.copies,
			DailyFee:      defaultDailyFee,
			PublishedYear: s.year,
		})
	}
	return books, nil
}
