package api

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	oapimiddleware "github.com/oapi-codegen/echo-middleware"
	"go.uber.org/zap"

	"github.com/akazantsev/imgpatch/internal/controller"
	"github.com/akazantsev/imgpatch/internal/models"
	"github.com/akazantsev/imgpatch/internal/service"
	"github.com/akazantsev/imgpatch/internal/util"
)

const (
	shutdownTimeout = 5 * time.Second
)

type API struct {
	server          *echo.Echo
	controller      *controller.Controller
	log             *zap.SugaredLogger
	gracefulTimeout time.Duration
	cleanupFuncs    []func()
}

func NewAPI(c *controller.Controller, tokens *service.TokenService, sc *util.ServerConfig,
	l *zap.SugaredLogger, cleanupFuncs []func(),
) *API {
	e := echo.New()
	e.HideBanner = true

	e.Server.Addr = sc.ServerAddr
	e.Server.WriteTimeout = sc.WriteTimeout
	e.Server.ReadTimeout = sc.ReadTimeout
	e.Server.IdleTimeout = sc.IdleTimeout
	e.HTTPErrorHandler = ErrorHandler(l)

	a := &API{
		server:          e,
		controller:      c,
		log:             l,
		gracefulTimeout: sc.GracefulTimeout,
		cleanupFuncs:    cleanupFuncs,
	}

	swagger, err := controller.GetSwagger()
	if err != nil {
		l.Fatalf("Failed to load OpenAPI specification: %v", err)
	}
	swagger.Servers = nil

	e.Use(echomiddleware.RequestLoggerWithConfig(GetLoggerMiddlewareConfig(a)))
	// Невалидная форма тела запроса (пропущенное поле, лишнее поле,
	// не тот тип) отбрасывается до входа в обработчики.
	e.Use(oapimiddleware.OapiRequestValidator(swagger))

	e.GET("/", c.Index)
	e.POST("/login", c.Login)
	e.POST("/token/refresh", c.Refresh, TokenAuthMiddleware(tokens, models.TokenTypeRefresh))
	e.POST("/jsonpatch", c.JSONPatch, TokenAuthMiddleware(tokens, models.TokenTypeAccess))
	e.POST("/thumbnail", c.Thumbnail, TokenAuthMiddleware(tokens, models.TokenTypeAccess))

	return a
}

// Echo exposes the configured handler, mostly for tests.
func (a *API) Echo() *echo.Echo {
	return a.server
}

func (a *API) Run(ctxBackground context.Context) {
	ctx, stop := signal.NotifyContext(ctxBackground, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.ListenGracefulShutdown(ctx)
}

func (a *API) ListenGracefulShutdown(ctx context.Context) {
	go func() {
		err := a.server.Start(a.server.Server.Addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()
	a.log.Infof("Listening on: %s", a.server.Server.Addr)

	<-ctx.Done()
	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		a.log.Errorf("shutdown: %v", err)
	}

	longShutdown := make(chan struct{}, 1)

	go func() {
		time.Sleep(a.gracefulTimeout)
		longShutdown <- struct{}{}
	}()

	select {
	case <-shutdownCtx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			a.log.Info("server shutdown completed")
		} else {
			a.log.Errorf("server shutdown: %v", ctx.Err())
		}
	case <-longShutdown:
		a.log.Infof("finished")
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
}
