package handler

import (
	"net/http"

	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/labstack/echo/v4"
)

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param req body model.RegisterRequest true "account"
// @Success 201 {object} model.AuthResponse
// @Failure 409 {object} model.Message
// @Router /api/auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.identitySvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param req body model.LoginRequest true "credentials"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} model.Message
// @Router /api/auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.identitySvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Me(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	me, err := h.identitySvc.Me(c.Request().Context(), user.ID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, me)
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.identitySvc.ListUsers(c.Request().Context())
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var patch model.UserPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user, err := h.identitySvc.UpdateUser(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
