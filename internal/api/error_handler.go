package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/akazantsev/imgpatch/internal/models"
	"github.com/akazantsev/imgpatch/internal/service"
	"github.com/akazantsev/imgpatch/internal/util"
)

// ErrorHandler конвертирует ошибки сервисов в контрактные HTTP ответы.
// Тела "Invalid JSON Patch" и "Invalid File Format" - фиксированные
// литералы, их проверяют клиенты.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var writeErr error
		var respErr util.ResponseError

		switch {
		case errors.As(err, &respErr):
			writeErr = c.JSON(respErr.Status, map[string]string{"msg": respErr.Msg})
		case errors.Is(err, service.ErrWrongCredentials):
			writeErr = c.JSON(http.StatusUnauthorized, models.MessageResponse{Message: "Wrong credentials"})
		case errors.Is(err, service.ErrInvalidDocument):
			writeErr = c.String(http.StatusBadRequest, "Invalid JSON Document")
		case errors.Is(err, service.ErrInvalidPatch):
			writeErr = c.String(http.StatusBadRequest, "Invalid JSON Patch")
		case errors.Is(err, service.ErrUnsupportedFormat), errors.Is(err, service.ErrImageDecode):
			writeErr = c.String(http.StatusBadRequest, "Invalid File Format")
		case errors.Is(err, service.ErrUpstreamFetch):
			writeErr = c.JSON(http.StatusBadGateway, models.MessageResponse{Message: err.Error()})
		default:
			var he *echo.HTTPError
			if errors.As(err, &he) {
				if he.Code == http.StatusInternalServerError {
					log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
				}
				writeErr = c.JSON(he.Code, models.MessageResponse{Message: fmt.Sprintf("%v", he.Message)})
				break
			}

			log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
			writeErr = c.JSON(http.StatusInternalServerError, models.MessageResponse{Message: "internal server error"})
		}

		if writeErr != nil {
			log.Errorw("failed to write error response", "error", writeErr)
		}
	}
}
