package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	"github.com/Astemirdum/library-rental/library/internal/handler"
	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/Astemirdum/library-rental/pkg/auth"
	md "github.com/Astemirdum/library-rental/pkg/middleware"
	"github.com/golang/mock/gomock"
	"github.com/juju/clock/testclock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/library-rental/library/internal/handler/mocks"
)

type store bool

func (s store) Connected() bool { return bool(s) }

var issuer = auth.NewIssuer(auth.Config{Secret: "handler-test", TTL: time.Hour})

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	token, _, err := issuer.Issue(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

type mocks struct {
	catalog   *service_mocks.MockCatalogService
	borrowing *service_mocks.MockBorrowingService
	identity  *service_mocks.MockIdentityService
}

type request struct {
	method string
	target string
	body   string
	auth   string
	ctype  string
}

type response struct {
	expectedCode int
	expectedBody string
}

func serve(t *testing.T, up bool, behavior func(m mocks), req request) *httptest.ResponseRecorder {
	t.Helper()
	c := gomock.NewController(t)
	m := mocks{
		catalog:   service_mocks.NewMockCatalogService(c),
		borrowing: service_mocks.NewMockBorrowingService(c),
		identity:  service_mocks.NewMockIdentityService(c),
	}
	if behavior != nil {
		behavior(m)
	}
	h := handler.New(m.catalog, m.borrowing, m.identity, store(up), issuer, zap.NewNop())

	r := httptest.NewRequest(req.method, req.target, strings.NewReader(req.body))
	if req.body != "" {
		ct := req.ctype
		if ct == "" {
			ct = "application/json"
		}
		r.Header.Set("Content-Type", ct)
	}
	if req.auth != "" {
		r.Header.Set(md.AuthorizationHeader, req.auth)
	}
	w := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(w, r)
	return w
}

func TestHandler_Books(t *testing.T) {
	t.Parallel()
	book := model.Book{
		ID:              "5b3c7a2e-0d52-4c8c-a0d4-7c7d7f0c1a11",
		Title:           "Dune",
		Author:          "Frank Herbert",
		ISBN:            "9780441013593",
		Genre:           "Fiction",
		Description:     "Spice",
		CoverImage:      model.DefaultCoverImage,
		TotalCopies:     2,
		AvailableCopies: 1,
		DailyFee:        0.5,
		PublishedYear:   1965,
	}

	tests := []struct {
		name         string
		up           bool
		mockBehavior func(m mocks)
		req          func(t *testing.T) request
		response     response
	}{
		{
			name: "list ok",
			up:   true,
			mockBehavior: func(m mocks) {
				m.catalog.EXPECT().
					ListBooks(gomock.Any(), model.BookFilter{Search: "dune", Genre: "Fiction", Page: 2, Limit: 5}).
					Return(model.ListBooks{Books: []model.Book{}, TotalPages: 1, CurrentPage: 2, Total: 3}, nil)
			},
			req: func(*testing.T) request {
				return request{method: http.MethodGet, target: "/api/books?search=dune&category=Fiction&page=2&limit=5"}
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"books":[],"totalPages":1,"currentPage":2,"total":3}`,
			},
		},
		{
			name: "list bad page",
			up:   true,
			req: func(*testing.T) request {
				return request{method: http.MethodGet, target: "/api/books?page=zero"}
			},
			response: response{expectedCode: http.StatusBadRequest, expectedBody: `{"message":"page is invalid"}`},
		},
		{
			name: "store disconnected",
			up:   false,
			req: func(*testing.T) request {
				return request{method: http.MethodGet, target: "/api/books"}
			},
			response: response{
				expectedCode: http.StatusServiceUnavailable,
				expectedBody: `{"message":"Database connection unavailable. Please check the database configuration.","error":"DATABASE_DISCONNECTED"}`,
			},
		},
		{
			name: "store failed mid request",
			up:   true,
			mockBehavior: func(m mocks) {
				m.catalog.EXPECT().GetBook(gomock.Any(), book.ID).
					Return(model.Book{}, errors.Wrap(errs.ErrStoreUnavailable, "dial tcp"))
			},
			req: func(*testing.T) request {
				return request{method: http.MethodGet, target: "/api/books/" + book.ID}
			},
			response: response{
				expectedCode: http.StatusServiceUnavailable,
				expectedBody: `{"message":"Database connection failed","error":"DATABASE_CONNECTION_FAILED"}`,
			},
		},
		{
			name: "get not found",
			up:   true,
			mockBehavior: func(m mocks) {
				m.catalog.EXPECT().GetBook(gomock.Any(), "missing").Return(model.Book{}, errs.ErrBookNotFound)
			},
			req: func(*testing.T) request {
				return request{method: http.MethodGet, target: "/api/books/missing"}
			},
			response: response{expectedCode: http.StatusNotFound, expectedBody: `{"message":"Book not found"}`},
		},
		{
			name: "create without token",
			up:   true,
			req: func(*testing.T) request {
				return request{method: http.MethodPost, target: "/api/books", body: `{}`}
			},
			response: response{expectedCode: http.StatusUnauthorized, expectedBody: `{"message":"No Authorization Header"}`},
		},
		{
			name: "create as user",
			up:   true,
			req: func(t *testing.T) request {
				return request{method: http.MethodPost, target: "/api/books", body: `{}`, auth: bearer(t, "u-1", auth.RoleUser)}
			},
			response: response{expectedCode: http.StatusForbidden, expectedBody: `{"message":"Access denied"}`},
		},
		{
			name: "create invalid genre",
			up:   true,
			req: func(t *testing.T) request {
				return request{
					method: http.MethodPost, target: "/api/books", auth: bearer(t, "a-1", auth.RoleAdmin),
					body: `{"title":"Dune","author":"Frank Herbert","isbn":"9780441013593","genre":"Poetry","description":"Spice","totalCopies":2,"dailyFee":0.5,"publishedYear":1965}`,
				}
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'CreateBookRequest.Genre' Error:Field validation for 'Genre' failed on the 'oneof' tag"}`,
			},
		},
		{
			name: "create ok",
			up:   true,
			mockBehavior: func(m mocks) {
				m.catalog.EXPECT().CreateBook(gomock.Any(), "a-1", model.CreateBookRequest{
					Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", Genre: "Fiction",
					Description: "Spice", TotalCopies: 2, DailyFee: 0.5, PublishedYear: 1965,
				}).Return(model.Book{ID: "new"}, nil)
			},
			req: func(t *testing.T) request {
				return request{
					method: http.MethodPost, target: "/api/books", auth: bearer(t, "a-1", auth.RoleAdmin),
					body: `{"title":"Dune","author":"Frank Herbert","isbn":"9780441013593","genre":"Fiction","description":"Spice","totalCopies":2,"dailyFee":0.5,"publishedYear":1965}`,
				}
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":"new","title":"","author":"","isbn":"","genre":"","description":"","coverImage":"","totalCopies":0,"availableCopies":0,"dailyFee":0,"publishedYear":0,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}`,
			},
		},
		{
			name: "update shrinks below borrowed",
			up:   true,
			mockBehavior: func(m mocks) {
				total := 1
				m.catalog.EXPECT().UpdateBook(gomock.Any(), book.ID, model.BookPatch{TotalCopies: &total}).
					Return(model.Book{}, errs.ErrInvalidCopies)
			},
			req: func(t *testing.T) request {
				return request{
					method: http.MethodPut, target: "/api/books/" + book.ID, auth: bearer(t, "a-1", auth.RoleAdmin),
					body: `{"totalCopies":1}`,
				}
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"totalCopies cannot be lower than the number of borrowed copies"}`,
			},
		},
		{
			name: "delete on loan",
			up:   true,
			mockBehavior: func(m mocks) {
				m.catalog.EXPECT().DeleteBook(gomock.Any(), book.ID).Return(errs.ErrBookOnLoan)
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodDelete, target: "/api/books/" + book.ID, auth: bearer(t, "a-1", auth.RoleAdmin)}
			},
			response: response{expectedCode: http.StatusConflict, expectedBody: `{"message":"Book has active borrowings"}`},
		},
		{
			name: "delete ok",
			up:   true,
			mockBehavior: func(m mocks) {
				m.catalog.EXPECT().DeleteBook(gomock.Any(), book.ID).Return(nil)
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodDelete, target: "/api/books/" + book.ID, auth: bearer(t, "a-1", auth.RoleAdmin)}
			},
			response: response{expectedCode: http.StatusOK, expectedBody: `{"message":"Book deleted successfully"}`},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, tt.up, tt.mockBehavior, tt.req(t))

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Borrowings(t *testing.T) {
	t.Parallel()
	borrowedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	loan := model.Borrowing{
		ID:         "loan-1",
		UserID:     "u-1",
		BookID:     "book-1",
		BorrowDate: borrowedAt,
		DueDate:    borrowedAt.Add(7 * 24 * time.Hour),
		DailyFee:   0.5,
		Status:     model.StatusBorrowed,
		CreatedAt:  borrowedAt,
		UpdatedAt:  borrowedAt,
	}
	loanJSON := `{"id":"loan-1","userId":"u-1","bookId":"book-1","borrowDate":"2024-05-01T09:00:00Z","dueDate":"2024-05-08T09:00:00Z","dailyFee":0.5,"totalFee":0,"lateFee":0,"status":"borrowed","isPaid":false,"createdAt":"2024-05-01T09:00:00Z","updatedAt":"2024-05-01T09:00:00Z"}`

	tests := []struct {
		name         string
		mockBehavior func(m mocks)
		req          func(t *testing.T) request
		response     response
	}{
		{
			name: "borrow default term",
			mockBehavior: func(m mocks) {
				m.borrowing.EXPECT().Borrow(gomock.Any(), "u-1", model.BorrowRequest{BookID: "book-1"}).Return(loan, nil)
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodPost, target: "/api/borrowings", body: `{"bookId":"book-1"}`, auth: bearer(t, "u-1", auth.RoleUser)}
			},
			response: response{expectedCode: http.StatusCreated, expectedBody: loanJSON},
		},
		{
			name: "borrow too long",
			req: func(t *testing.T) request {
				return request{method: http.MethodPost, target: "/api/borrowings", body: `{"bookId":"book-1","days":31}`, auth: bearer(t, "u-1", auth.RoleUser)}
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'BorrowRequest.Days' Error:Field validation for 'Days' failed on the 'max' tag"}`,
			},
		},
		{
			name: "borrow unavailable",
			mockBehavior: func(m mocks) {
				m.borrowing.EXPECT().Borrow(gomock.Any(), "u-1", gomock.Any()).Return(model.Borrowing{}, errs.ErrNotAvailable)
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodPost, target: "/api/borrowings", body: `{"bookId":"book-1","days":3}`, auth: bearer(t, "u-1", auth.RoleUser)}
			},
			response: response{expectedCode: http.StatusConflict, expectedBody: `{"message":"Book not available"}`},
		},
		{
			name: "borrow unexpected failure",
			mockBehavior: func(m mocks) {
				m.borrowing.EXPECT().Borrow(gomock.Any(), "u-1", gomock.Any()).Return(model.Borrowing{}, errors.New("boom"))
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodPost, target: "/api/borrowings", body: `{"bookId":"book-1"}`, auth: bearer(t, "u-1", auth.RoleUser)}
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"Something went wrong!","error":"INTERNAL_SERVER_ERROR"}`,
			},
		},
		{
			name: "mine",
			mockBehavior: func(m mocks) {
				m.borrowing.EXPECT().ListMine(gomock.Any(), "u-1").Return([]model.Borrowing{loan}, nil)
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodGet, target: "/api/borrowings/my-borrowings", auth: bearer(t, "u-1", auth.RoleUser)}
			},
			response: response{expectedCode: http.StatusOK, expectedBody: "[" + loanJSON + "]"},
		},
		{
			name: "return twice",
			mockBehavior: func(m mocks) {
				m.borrowing.EXPECT().Return(gomock.Any(), "u-1", "loan-1").Return(model.Borrowing{}, errs.ErrAlreadyReturned)
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodPut, target: "/api/borrowings/loan-1/return", auth: bearer(t, "u-1", auth.RoleUser)}
			},
			response: response{expectedCode: http.StatusBadRequest, expectedBody: `{"message":"Book already returned"}`},
		},
		{
			name: "return someone else's",
			mockBehavior: func(m mocks) {
				m.borrowing.EXPECT().Return(gomock.Any(), "u-2", "loan-1").Return(model.Borrowing{}, errs.ErrBorrowingNotFound)
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodPut, target: "/api/borrowings/loan-1/return", auth: bearer(t, "u-2", auth.RoleUser)}
			},
			response: response{expectedCode: http.StatusNotFound, expectedBody: `{"message":"Borrowing not found"}`},
		},
		{
			name: "all as user",
			mockBehavior: func(m mocks) {
				m.borrowing.EXPECT().ListAll(gomock.Any(), auth.User{ID: "u-1", Role: auth.RoleUser}).Return(nil, errs.ErrForbidden)
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodGet, target: "/api/borrowings/all", auth: bearer(t, "u-1", auth.RoleUser)}
			},
			response: response{expectedCode: http.StatusForbidden, expectedBody: `{"message":"Access denied"}`},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, true, tt.mockBehavior, tt.req(t))

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Auth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		mockBehavior func(m mocks)
		req          func(t *testing.T) request
		response     response
	}{
		{
			name: "login bad credentials",
			mockBehavior: func(m mocks) {
				m.identity.EXPECT().Login(gomock.Any(), model.LoginRequest{Email: "ann@example.com", Password: "x"}).
					Return(model.AuthResponse{}, errs.ErrInvalidCredentials)
			},
			req: func(*testing.T) request {
				return request{method: http.MethodPost, target: "/api/auth/login", body: `{"email":"ann@example.com","password":"x"}`}
			},
			response: response{expectedCode: http.StatusUnauthorized, expectedBody: `{"message":"Invalid credentials"}`},
		},
		{
			name: "login deactivated",
			mockBehavior: func(m mocks) {
				m.identity.EXPECT().Login(gomock.Any(), gomock.Any()).Return(model.AuthResponse{}, errs.ErrInactiveUser)
			},
			req: func(*testing.T) request {
				return request{method: http.MethodPost, target: "/api/auth/login", body: `{"email":"ann@example.com","password":"x"}`}
			},
			response: response{expectedCode: http.StatusForbidden, expectedBody: `{"message":"Account is deactivated"}`},
		},
		{
			name: "register taken",
			mockBehavior: func(m mocks) {
				m.identity.EXPECT().Register(gomock.Any(), model.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"}).
					Return(model.AuthResponse{}, errs.ErrEmailTaken)
			},
			req: func(*testing.T) request {
				return request{method: http.MethodPost, target: "/api/auth/register", body: `{"name":"Ann","email":"ann@example.com","password":"secret1"}`}
			},
			response: response{expectedCode: http.StatusConflict, expectedBody: `{"message":"User already exists"}`},
		},
		{
			name: "users as admin",
			mockBehavior: func(m mocks) {
				m.identity.EXPECT().ListUsers(gomock.Any()).Return([]model.User{}, nil)
			},
			req: func(t *testing.T) request {
				return request{method: http.MethodGet, target: "/api/users", auth: bearer(t, "a-1", auth.RoleAdmin)}
			},
			response: response{expectedCode: http.StatusOK, expectedBody: `[]`},
		},
		{
			name: "patch user invalid role",
			req: func(t *testing.T) request {
				return request{method: http.MethodPatch, target: "/api/users/u-1", body: `{"role":"root"}`, auth: bearer(t, "a-1", auth.RoleAdmin)}
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"Key: 'UserPatch.Role' Error:Field validation for 'Role' failed on the 'oneof' tag"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(t, true, tt.mockBehavior, tt.req(t))

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	clk := testclock.NewClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	tests := []struct {
		name         string
		up           bool
		expectedBody string
	}{
		{
			name:         "connected",
			up:           true,
			expectedBody: `{"status":"ok","database":"connected","timestamp":"2024-05-01T09:00:00Z"}`,
		},
		{
			name:         "disconnected is still ok",
			up:           false,
			expectedBody: `{"status":"ok","database":"disconnected","timestamp":"2024-05-01T09:00:00Z"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			h := handler.New(
				service_mocks.NewMockCatalogService(c),
				service_mocks.NewMockBorrowingService(c),
				service_mocks.NewMockIdentityService(c),
				store(tt.up), issuer, zap.NewNop(),
				handler.WithClock(clk),
			)
			w := httptest.NewRecorder()
			h.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_UploadCover(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("cover", "dune.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := serve(t, true, func(m mocks) {
		m.catalog.EXPECT().UploadCover(gomock.Any(), "book-1", "dune.png", "application/octet-stream", gomock.Any()).
			Return(model.Book{}, errs.ErrCoverStorageDisabled)
	}, request{
		method: http.MethodPost,
		target: "/api/books/book-1/cover",
		body:   buf.String(),
		ctype:  mw.FormDataContentType(),
		auth:   bearer(t, "a-1", auth.RoleAdmin),
	})

	require.Equal(t, http.StatusNotImplemented, w.Code)
	require.Equal(t, `{"message":"cover storage is not configured"}`, strings.Trim(w.Body.String(), "\n"))
}
