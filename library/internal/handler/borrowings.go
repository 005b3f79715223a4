package handler

import (
	"net/http"

	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/labstack/echo/v4"
)

// Borrow godoc
// @Summary Borrow a book
// @Tags borrowings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param req body model.BorrowRequest true "book and term, days defaults to 7"
// @Success 201 {object} model.Borrowing
// @Failure 400 {object} model.Message
// @Failure 404 {object} model.Message
// @Failure 409 {object} model.Message
// @Router /api/borrowings [post]
func (h *Handler) Borrow(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loan, err := h.borrowingSvc.Borrow(c.Request().Context(), user.ID, req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, loan)
}

// ListMine godoc
// @Summary Loans of the caller with current fees
// @Tags borrowings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} model.Borrowing
// @Router /api/borrowings/my-borrowings [get]
func (h *Handler) ListMine(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	loans, err := h.borrowingSvc.ListMine(c.Request().Context(), user.ID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

// Return godoc
// @Summary Return a borrowed book
// @Tags borrowings
// @Security BearerAuth
// @Produce json
// @Param id path string true "borrowing id"
// @Success 200 {object} model.Borrowing
// @Failure 400 {object} model.Message
// @Failure 404 {object} model.Message
// @Router /api/borrowings/{id}/return [put]
func (h *Handler) Return(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	loan, err := h.borrowingSvc.Return(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, loan)
}

// ListAll godoc
// @Summary Every loan, admin only
// @Tags borrowings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} model.Borrowing
// @Failure 403 {object} model.Message
// @Router /api/borrowings/all [get]
func (h *Handler) ListAll(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	loans, err := h.borrowingSvc.ListAll(c.Request().Context(), user)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}
