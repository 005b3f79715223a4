// Package client talks to the library HTTP API. Every call goes through a
// circuit breaker; 4xx answers do not count as failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	cb "github.com/Astemirdum/library-rental/pkg/circuit_breaker"
	"github.com/juju/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	CodeDatabaseDisconnected     = "DATABASE_DISCONNECTED"
	CodeDatabaseConnectionFailed = "DATABASE_CONNECTION_FAILED"
)

var ErrUnavailable = errors.New("library server unavailable")

// APIError is a non 2xx answer decoded from {"message","error"}.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return e.Message
}

// StoreDown reports whether the server answered but its database is not reachable.
func (e *APIError) StoreDown() bool {
	return e.Status == http.StatusServiceUnavailable &&
		(e.Code == CodeDatabaseDisconnected || e.Code == CodeDatabaseConnectionFailed)
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *cb.CircuitBreaker
	log     *zap.Logger
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithBreaker(cfg cb.Config, clk clock.Clock) Option {
	return func(c *Client) {
		c.breaker = cb.New(cfg, clk)
	}
}

func New(baseURL string, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		breaker: cb.New(cb.Config{RecordLength: 10, Timeout: 10 * time.Second, Percentile: 0.5, RecoveryRequests: 3}, clock.WallClock),
		log:     log.Named("client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	return out, c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out)
}

func (c *Client) ListBooks(ctx context.Context, f BookFilter) (BookList, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Genre != "" {
		q.Set("genre", f.Genre)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	var out BookList
	return out, c.do(ctx, http.MethodGet, "/api/books", q, nil, &out)
}

func (c *Client) GetBook(ctx context.Context, id string) (Book, error) {
	var out Book
	return out, c.do(ctx, http.MethodGet, "/api/books/"+url.PathEscape(id), nil, nil, &out)
}

func (c *Client) CreateBook(ctx context.Context, in CreateBook) (Book, error) {
	var out Book
	return out, c.do(ctx, http.MethodPost, "/api/books", nil, in, &out)
}

func (c *Client) UpdateBook(ctx context.Context, id string, patch BookPatch) (Book, error) {
	var out Book
	return out, c.do(ctx, http.MethodPut, "/api/books/"+url.PathEscape(id), nil, patch, &out)
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/books/"+url.PathEscape(id), nil, nil, nil)
}

// UploadCover sends file as the multipart "cover" field.
func (c *Client) UploadCover(ctx context.Context, id string, file io.Reader, filename string) (Book, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("cover", filepath.Base(filename))
	if err != nil {
		return Book{}, err
	}
	if _, err = io.Copy(part, file); err != nil {
		return Book{}, err
	}
	if err = mw.Close(); err != nil {
		return Book{}, err
	}
	var out Book
	err = c.breaker.Call(func() error {
		return c.send(ctx, http.MethodPost, "/api/books/"+url.PathEscape(id)+"/cover", nil,
			bytes.NewReader(buf.Bytes()), mw.FormDataContentType(), &out)
	}, isClientError)
	return out, c.wrap(err)
}

func (c *Client) Register(ctx context.Context, name, email, password string) (AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	return out, c.do(ctx, http.MethodPost, "/api/auth/register", nil, body, &out)
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	return out, c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out)
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	return out, c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out)
}

// Borrow uses the server default loan length when days is 0.
func (c *Client) Borrow(ctx context.Context, bookID string, days int) (Borrowing, error) {
	body := struct {
		BookID string `json:"bookId"`
		Days   *int   `json:"days,omitempty"`
	}{BookID: bookID}
	if days > 0 {
		body.Days = &days
	}
	var out Borrowing
	return out, c.do(ctx, http.MethodPost, "/api/borrowings", nil, body, &out)
}

func (c *Client) MyBorrowings(ctx context.Context) ([]Borrowing, error) {
	var out []Borrowing
	return out, c.do(ctx, http.MethodGet, "/api/borrowings/my-borrowings", nil, nil, &out)
}

func (c *Client) Return(ctx context.Context, borrowingID string) (Borrowing, error) {
	var out Borrowing
	return out, c.do(ctx, http.MethodPut, "/api/borrowings/"+url.PathEscape(borrowingID)+"/return", nil, nil, &out)
}

func (c *Client) AllBorrowings(ctx context.Context) ([]Borrowing, error) {
	var out []Borrowing
	return out, c.do(ctx, http.MethodGet, "/api/borrowings/all", nil, nil, &out)
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	return out, c.do(ctx, http.MethodGet, "/api/users", nil, nil, &out)
}

func (c *Client) UpdateUser(ctx context.Context, id string, patch UserPatch) (User, error) {
	var out User
	return out, c.do(ctx, http.MethodPatch, "/api/users/"+url.PathEscape(id), nil, patch, &out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return errors.Wrap(err, "encode request")
		}
	}
	err := c.breaker.Call(func() error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		return c.send(ctx, method, path, query, body, "application/json", out)
	}, isClientError)
	return c.wrap(err)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	c.log.Debug("api call", zap.String("method", method), zap.String("url", target), zap.Int("status", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func decodeError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = string(bytes.TrimSpace(data))
		return apiErr
	}
	apiErr.Message, apiErr.Code = body.Message, body.Error
	return apiErr
}

func isClientError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status < http.StatusInternalServerError
}

func (c *Client) wrap(err error) error {
	if errors.Is(err, cb.ErrOpen) {
		return errors.Wrap(ErrUnavailable, fmt.Sprintf("too many failures, retry in a few seconds (%v)", err))
	}
	return err
}
