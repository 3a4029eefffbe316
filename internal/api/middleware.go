package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/akazantsev/imgpatch/internal/models"
	"github.com/akazantsev/imgpatch/internal/service"
	"github.com/akazantsev/imgpatch/internal/util"
)

const bearerScheme = "Bearer"

// TokenAuthMiddleware гейтит маршрут по bearer токену требуемого типа.
// Валидация выполняется ровно один раз на запрос, результат нигде
// не кэшируется. Subject кладется в контекст Echo.
//
// Статусы повторяют контракт исходного сервиса: отсутствующий или
// кривой заголовок - 401, истекший токен - 401, невалидный токен или
// токен не того типа - 422.
func TokenAuthMiddleware(tokens *service.TokenService, requiredType string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return util.NewResponseError(http.StatusUnauthorized, "Missing Authorization Header")
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, bearerScheme) || token == "" {
				return util.NewResponseError(http.StatusUnauthorized,
					"Bad Authorization header. Expected value 'Bearer <JWT>'")
			}

			subject, err := tokens.Validate(token, requiredType)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrTokenExpired):
					return util.NewResponseError(http.StatusUnauthorized, "Token has expired")
				case errors.Is(err, service.ErrWrongTokenType):
					if requiredType == models.TokenTypeAccess {
						return util.NewResponseError(http.StatusUnprocessableEntity, "Only access tokens are allowed")
					}
					return util.NewResponseError(http.StatusUnprocessableEntity, "Only refresh tokens are allowed")
				default:
					return util.NewResponseError(http.StatusUnprocessableEntity, "Invalid token")
				}
			}

			c.Set(models.MwSubjectKey, subject)

			return next(c)
		}
	}
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
