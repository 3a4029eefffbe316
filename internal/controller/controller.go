package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/akazantsev/imgpatch/internal/models"
	"github.com/akazantsev/imgpatch/internal/service"
)

type Controller struct {
	zapLogger   *zap.SugaredLogger
	authService *service.AuthService
	patchEngine *service.PatchEngine
	thumbnails  *service.ThumbnailPipeline
}

func NewController(logger *zap.SugaredLogger, authService *service.AuthService,
	patchEngine *service.PatchEngine, thumbnails *service.ThumbnailPipeline,
) *Controller {
	return &Controller{
		zapLogger:   logger,
		authService: authService,
		patchEngine: patchEngine,
		thumbnails:  thumbnails,
	}
}

// (GET /).
func (c *Controller) Index(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, models.MessageResponse{Message: "Hello, World!"})
}

// (POST /login).
// Неизвестный пользователь - это 200 с сообщением, а не 401.
// Контракт унаследован от исходного сервиса намеренно.
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	pair, err := c.authService.Login(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return ctx.JSON(http.StatusOK, models.MessageResponse{
				Message: fmt.Sprintf("User %s doesn't exist", req.Username),
			})
		}
		return err
	}

	return ctx.JSON(http.StatusOK, models.LoginResponse{
		Message:      fmt.Sprintf("Logged in as %s", req.Username),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// (POST /token/refresh).
// Выпускает только новый access токен; refresh токен остается как есть.
func (c *Controller) Refresh(ctx echo.Context) error {
	subject, ok := ctx.Get(models.MwSubjectKey).(string)
	if !ok || subject == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing subject")
	}

	accessToken, err := c.authService.Refresh(subject)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.RefreshResponse{AccessToken: accessToken})
}

// (POST /jsonpatch).
func (c *Controller) JSONPatch(ctx echo.Context) error {
	var req models.PatchRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	patched, err := c.patchEngine.Apply([]byte(req.JSONObject), []byte(req.JSONPatch))
	if err != nil {
		return err
	}

	return ctx.JSONBlob(http.StatusOK, patched)
}

// (POST /thumbnail).
func (c *Controller) Thumbnail(ctx echo.Context) error {
	var req models.ThumbnailRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	asset, err := c.thumbnails.Thumbnail(ctx.Request().Context(), req.ImageURL)
	if err != nil {
		return err
	}

	return ctx.Blob(http.StatusOK, asset.ContentType, asset.Bytes)
}
