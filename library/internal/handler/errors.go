package handler

import (
	"net/http"

	"github.com/Astemirdum/library-rental/library/internal/errs"
	md "github.com/Astemirdum/library-rental/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// httpError maps domain errors onto status codes. Anything unknown is logged
// and reported as a generic 500.
func (h *Handler) httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrBookNotFound),
		errors.Is(err, errs.ErrBorrowingNotFound),
		errors.Is(err, errs.ErrUserNotFound),
		errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrAlreadyReturned),
		errors.Is(err, errs.ErrInvalidCopies),
		errors.Is(err, errs.ErrInvalidDays),
		errors.Is(err, errs.ErrEmptyPatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotAvailable),
		errors.Is(err, errs.ErrBookOnLoan),
		errors.Is(err, errs.ErrEmailTaken),
		errors.Is(err, errs.ErrISBNTaken),
		errors.Is(err, errs.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrForbidden),
		errors.Is(err, errs.ErrInactiveUser):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrCoverStorageDisabled):
		return echo.NewHTTPError(http.StatusNotImplemented, err.Error())
	case errors.Is(err, errs.ErrStoreUnavailable):
		h.log.Warn("store unavailable", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, md.ErrorResponse{
			Message: errs.ErrStoreUnavailable.Error(),
			Error:   md.CodeDatabaseConnectionFailed,
		})
	}
	h.log.Error("unhandled error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, md.ErrorResponse{
		Message: "Something went wrong!",
		Error:   md.CodeInternal,
	})
}
