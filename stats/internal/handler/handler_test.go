package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-rental/pkg/auth"
	md "github.com/Astemirdum/library-rental/pkg/middleware"
	"github.com/Astemirdum/library-rental/stats/internal/handler"
	"github.com/Astemirdum/library-rental/stats/internal/model"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/library-rental/stats/internal/handler/mocks"
)

type store bool

func (s store) Connected() bool { return bool(s) }

func TestHandler_GetStats(t *testing.T) {
	t.Parallel()
	issuer := auth.NewIssuer(auth.Config{Secret: "stats-test", TTL: time.Hour})
	token := func(role string) string {
		tok, _, err := issuer.Issue("u-1", role)
		require.NoError(t, err)
		return "Bearer " + tok
	}
	last := time.Date(2024, 5, 9, 12, 0, 0, 0, time.UTC)

	type mockBehavior func(s *service_mocks.MockStatsService)
	tests := []struct {
		name         string
		up           bool
		auth         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "admin",
			up:   true,
			auth: token(auth.RoleAdmin),
			mockBehavior: func(s *service_mocks.MockStatsService) {
				s.EXPECT().GetStats(gomock.Any()).Return(model.StatsInfo{Data: []model.Stats{{
					UserID: "u-2", UserName: "Ann", Borrowed: 3, Returned: 2, Overdue: 1, Active: 1,
					FeesCollected: 5.75, LateFees: 0.75, LastActivity: last,
				}}}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"data":[{"userId":"u-2","userName":"Ann","borrowed":3,"returned":2,"overdue":1,"active":1,"feesCollected":5.75,"lateFees":0.75,"lastActivity":"2024-05-09T12:00:00Z"}]}`,
		},
		{
			name:         "user",
			up:           true,
			auth:         token(auth.RoleUser),
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"Access denied"}`,
		},
		{
			name:         "anonymous",
			up:           true,
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"No Authorization Header"}`,
		},
		{
			name:         "store down",
			up:           false,
			auth:         token(auth.RoleAdmin),
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"message":"Database connection unavailable. Please check the database configuration.","error":"DATABASE_DISCONNECTED"}`,
		},
		{
			name: "query failed",
			up:   true,
			auth: token(auth.RoleAdmin),
			mockBehavior: func(s *service_mocks.MockStatsService) {
				s.EXPECT().GetStats(gomock.Any()).Return(model.StatsInfo{}, errors.New("boom"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"Something went wrong!","error":"INTERNAL_SERVER_ERROR"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			svc := service_mocks.NewMockStatsService(c)
			if tt.mockBehavior != nil {
				tt.mockBehavior(svc)
			}
			h := handler.New(svc, store(tt.up), issuer, zap.NewNop())

			r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
			if tt.auth != "" {
				r.Header.Set(md.AuthorizationHeader, tt.auth)
			}
			w := httptest.NewRecorder()
			h.NewRouter().ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	h := handler.New(service_mocks.NewMockStatsService(c), store(false), nil, zap.NewNop())

	w := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/manage/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
