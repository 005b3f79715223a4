package handler

import (
	"net/http"

	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/Astemirdum/library-rental/pkg/auth"
	"github.com/Astemirdum/library-rental/pkg/health"
	md "github.com/Astemirdum/library-rental/pkg/middleware"
	"github.com/Astemirdum/library-rental/pkg/validate"
	_ "github.com/Astemirdum/library-rental/swagger"
	"github.com/juju/clock"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	catalogSvc   CatalogService
	borrowingSvc BorrowingService
	identitySvc  IdentityService
	store        health.Checker
	tokens       md.TokenParser
	clock        clock.Clock
	log          *zap.Logger
}

type Option func(*Handler)

func WithClock(clk clock.Clock) Option {
	return func(h *Handler) {
		h.clock = clk
	}
}

func New(
	catalogSvc CatalogService,
	borrowingSvc BorrowingService,
	identitySvc IdentityService,
	store health.Checker,
	tokens md.TokenParser,
	log *zap.Logger,
	opts ...Option,
) *Handler {
	h := &Handler{
		catalogSvc:   catalogSvc,
		borrowingSvc: borrowingSvc,
		identitySvc:  identitySvc,
		store:        store,
		tokens:       tokens,
		clock:        clock.WallClock,
		log:          log.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

const coverBodyLimit = "5M"

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Validator = validate.NewCustomValidator()

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.GET("/health", h.Health)

	var (
		data    = api.Group("", md.RequireStore(h.store))
		authMW  = md.JwtAuthentication(h.tokens)
		adminMW = md.RequireRole(auth.RoleAdmin)
	)

	data.GET("/books", h.ListBooks)
	data.GET("/books/:id", h.GetBook)
	data.POST("/books", h.CreateBook, authMW, adminMW)
	data.PUT("/books/:id", h.UpdateBook, authMW, adminMW)
	data.DELETE("/books/:id", h.DeleteBook, authMW, adminMW)
	data.POST("/books/:id/cover", h.UploadCover, middleware.BodyLimit(coverBodyLimit), authMW, adminMW)

	data.POST("/borrowings", h.Borrow, authMW)
	data.GET("/borrowings/my-borrowings", h.ListMine, authMW)
	data.PUT("/borrowings/:id/return", h.Return, authMW)
	data.GET("/borrowings/all", h.ListAll, authMW)

	data.POST("/auth/register", h.Register)
	data.POST("/auth/login", h.Login)
	data.GET("/auth/me", h.Me, authMW)
	data.GET("/users", h.ListUsers, authMW, adminMW)
	data.PATCH("/users/:id", h.UpdateUser, authMW, adminMW)

	return e
}

// Health godoc
// @Summary Service and store status
// @Tags health
// @Produce json
// @Success 200 {object} model.Health
// @Router /api/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Health{
		Status:    "ok",
		Database:  health.Status(h.store),
		Timestamp: h.clock.Now().UTC(),
	})
}

func caller(c echo.Context) (auth.User, error) {
	user, err := auth.GetUser(c.Request().Context())
	if err != nil {
		return auth.User{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return user, nil
}
