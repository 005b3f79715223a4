package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-rental/library/internal/model"
	"github.com/labstack/echo/v4"
)

// ListBooks godoc
// @Summary List books
// @Tags books
// @Produce json
// @Param search query string false "title or author substring"
// @Param genre query string false "genre, All for any"
// @Param page query int false "page, from 1"
// @Param limit query int false "page size"
// @Success 200 {object} model.ListBooks
// @Router /api/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	filter := model.BookFilter{
		Search: c.QueryParam("search"),
		Genre:  c.QueryParam("genre"),
	}
	if filter.Genre == "" {
		filter.Genre = c.QueryParam("category")
	}
	var err error
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if filter.Page, err = strconv.Atoi(pageParam); err != nil || filter.Page < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if filter.Limit, err = strconv.Atoi(limitParam); err != nil || filter.Limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit is invalid")
		}
	}

	books, err := h.catalogSvc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} model.Book
// @Failure 404 {object} model.Message
// @Router /api/books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.catalogSvc.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary Add a book
// @Tags books
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param book body model.CreateBookRequest true "book"
// @Success 201 {object} model.Book
// @Router /api/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalogSvc.CreateBook(c.Request().Context(), user.ID, req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, book)
}

// UpdateBook godoc
// @Summary Update a book
// @Tags books
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "book id"
// @Param patch body model.BookPatch true "fields to change"
// @Success 200 {object} model.Book
// @Router /api/books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	var patch model.BookPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.catalogSvc.UpdateBook(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary Delete a book without open loans
// @Tags books
// @Security BearerAuth
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} model.Message
// @Failure 409 {object} model.Message
// @Router /api/books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.catalogSvc.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.Message{Message: "Book deleted successfully"})
}

// UploadCover godoc
// @Summary Upload a cover image
// @Tags books
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "book id"
// @Param cover formData file true "image"
// @Success 200 {object} model.Book
// @Failure 501 {object} model.Message
// @Router /api/books/{id}/cover [post]
func (h *Handler) UploadCover(c echo.Context) error {
	fh, err := c.FormFile("cover")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cover file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	book, err := h.catalogSvc.UploadCover(c.Request().Context(), c.Param("id"), fh.Filename, fh.Header.Get(echo.HeaderContentType), f)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}
