package handler

import (
	"net/http"

	"github.com/Astemirdum/library-rental/pkg/auth"
	"github.com/Astemirdum/library-rental/pkg/health"
	md "github.com/Astemirdum/library-rental/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	statsSvc StatsService
	store    health.Checker
	tokens   md.TokenParser
	log      *zap.Logger
}

func New(statsSvc StatsService, store health.Checker, tokens md.TokenParser, log *zap.Logger) *Handler {
	return &Handler{
		statsSvc: statsSvc,
		store:    store,
		tokens:   tokens,
		log:      log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{StackSize: 4 << 10}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.RequireStore(h.store),
		md.JwtAuthentication(h.tokens),
		md.RequireRole(auth.RoleAdmin),
	)
	api.GET("/stats", h.GetStats)
	return e
}

func (h *Handler) Health(c echo.Context) error {
	if !h.store.Connected() {
		return c.String(http.StatusServiceUnavailable, health.StatusDisconnected)
	}
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) GetStats(c echo.Context) error {
	stat, err := h.statsSvc.GetStats(c.Request().Context())
	if err != nil {
		h.log.Error("GetStats", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, md.ErrorResponse{
			Message: "Something went wrong!",
			Error:   md.CodeInternal,
		})
	}
	return c.JSON(http.StatusOK, stat)
}
