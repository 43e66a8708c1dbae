package rest

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"
	"github.com/pot-code/go-storefront/internal/domain"
	infra "github.com/pot-code/go-storefront/internal/infrastructure"
	"github.com/pot-code/go-storefront/internal/infrastructure/auth"
	"github.com/pot-code/go-storefront/internal/infrastructure/driver"
	"github.com/pot-code/go-storefront/internal/infrastructure/logging"
	"github.com/pot-code/go-storefront/internal/infrastructure/validate"
	"github.com/pot-code/go-storefront/internal/interfaces/rest/handler"
	"github.com/pot-code/go-storefront/internal/interfaces/rest/middleware"
	"github.com/pot-code/go-storefront/internal/validation"
	"go.elastic.co/apm/module/apmechov4"
	"go.uber.org/zap"
)

// Dependencies everything the http transport needs
type Dependencies struct {
	DB          driver.ITransactionalDB
	KV          driver.KeyValueDB
	UserUseCase domain.UserUseCase
	Runner      *validation.Runner
	Config      *infra.AppConfig
	Logger      *zap.Logger
}

// NewServer create the http transport server
func NewServer(deps *Dependencies) *echo.Echo {
	var (
		app       = echo.New()
		option    = deps.Config
		logger    = deps.Logger
		runner    = deps.Runner
		validator = validate.NewValidator()
		websocket = infra.NewWebsocket()
		blacklist = auth.NewTokenBlacklist(deps.KV)
		jwtUtil   = auth.NewJWTUtil(option.Security.JWTMethod,
			option.Security.JWTSecret,
			option.Security.TokenName,
			option.SessionTimeout)
		jwtMiddleware = middleware.VerifyToken(jwtUtil, &middleware.ValidateTokenOption{
			InBlackList: blacklist.Contains,
		})
		refreshMiddleware = middleware.RefreshToken(jwtUtil, &middleware.RefreshTokenOption{
			Threshold: option.SessionRefresh,
		})
	)
	app.HideBanner = true
	app.HidePort = true

	registerLivenessProbe(app, deps.DB, deps.KV)
	if option.Env == infra.EnvDevelopment {
		registerProfileEndpoints(app)
	}
	app.Use(middleware.Logging(logger, &middleware.LoggingConfig{
		Skipper: func(e echo.Context) bool {
			return strings.HasPrefix(e.Request().RequestURI, "/healthz")
		},
	}))
	app.Use(middleware.ErrorHandling(
		&middleware.ErrorHandlingOption{
			Handler: func(c echo.Context, err error) {
				traceID := c.Response().Header().Get(echo.HeaderXRequestID)
				logging.ExtractLoggerFromContext(c.Request().Context()).Error(err.Error())
				c.JSON(http.StatusInternalServerError,
					handler.NewRESTStandardError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetTraceID(traceID),
				)
			},
			HTTPErrorHandler: func(c echo.Context, err *echo.HTTPError) {
				traceID := c.Response().Header().Get(echo.HeaderXRequestID)
				c.JSON(err.Code, handler.NewRESTStandardError(err.Code, fmt.Sprint(err.Message)).SetTraceID(traceID))
			},
		},
	))
	app.Use(echo_middleware.Secure())
	if option.DevOP.APM {
		app.Use(apmechov4.Middleware())
	}
	app.Use(echo_middleware.CORS())
	app.Use(middleware.AbortRequest(&middleware.AbortRequestOption{
		Timeout: option.RequestTimeout,
	}))

	var (
		UserHandler       = handler.NewUserHandler(jwtUtil, blacklist, deps.UserUseCase, validator)
		ProfileHandler    = handler.NewProfileHandler(jwtUtil, deps.UserUseCase)
		ValidationHandler = handler.NewValidationHandler(runner)
		validateBody      = func(set string) []echo.MiddlewareFunc {
			return []echo.MiddlewareFunc{middleware.ValidateBody(runner, set)}
		}
	)

	createEndpoint(app,
		&endpoint{
			apiVersion:  "api/v1",
			middlewares: []echo.MiddlewareFunc{echo_middleware.RequestID(), middleware.SetTraceLogger(logger)},
			groups: []*apiGroup{
				{
					prefix: "/user",
					routes: []*route{
						{"POST", "/sign-up", UserHandler.HandleSignUp, validateBody(validation.FormRegister)},
						{"POST", "/login", UserHandler.HandleSignIn, validateBody(validation.FormLogin)},
						{"PUT", "/sign-out", UserHandler.HandleSignOut, nil},
						{"GET", "/exists", UserHandler.HandleUserExists, nil},
						{"POST", "/forgot-password", UserHandler.HandleForgotPassword, validateBody(validation.FormForgotPassword)},
						{"POST", "/reset-password/:token", UserHandler.HandleResetPassword, validateBody(validation.FormResetPassword)},
					},
				},
				{
					prefix:      "/profile",
					middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
					routes: []*route{
						{"GET", "", ProfileHandler.HandleGetProfile, nil},
						{"PUT", "", ProfileHandler.HandleUpdateProfile, validateBody(validation.FormUpdateProfile)},
						{"PUT", "/email", ProfileHandler.HandleUpdateEmail, []echo.MiddlewareFunc{
							middleware.ValidateBody(runner, validation.FormUpdateEmail, &middleware.ValidateBodyOption{
								Prepare: ProfileHandler.InjectSessionEmail,
							}),
						}},
						{"PUT", "/password", ProfileHandler.HandleUpdatePassword, validateBody(validation.FormUpdatePassword)},
					},
				},
				{
					prefix: "/validate",
					routes: []*route{
						{"POST", "/:form", ValidationHandler.HandleDryRun, nil},
					},
				},
				{
					prefix: "/password",
					routes: []*route{
						{"POST", "/strength", ValidationHandler.HandlePasswordStrength, nil},
					},
				},
				{
					prefix: "/ws",
					routes: []*route{
						{"GET", "/validate", websocket.WithHeartbeat(ValidationHandler.HandleLiveValidation), nil},
					},
				},
			},
		})
	return app
}

// Serve start app and block until ctx is done or the listener fails
func Serve(ctx context.Context, app *echo.Echo, option *infra.AppConfig, logger *zap.Logger) error {
	printRoutes(app, logger)

	errc := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", option.Host, option.Port)
		logger.Info("Start listening", zap.String("server.address", addr))
		errc <- app.Start(addr)
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), option.RequestTimeout)
		defer cancel()
		return app.Shutdown(shutdownCtx)
	}
}

func printRoutes(app *echo.Echo, logger *zap.Logger) {
	for _, route := range app.Routes() {
		if !strings.HasPrefix(route.Name, "github.com/labstack/echo") {
			logger.Info("Registered route", zap.String("method", route.Method), zap.String("path", route.Path))
		}
	}
}

func registerLivenessProbe(app *echo.Echo, db driver.ITransactionalDB, kv driver.KeyValueDB) {
	app.GET("/healthz", func(c echo.Context) error {
		ctx := c.Request().Context()
		if db.Ping(ctx) == nil && kv.Ping(ctx) == nil {
			return c.NoContent(http.StatusOK)
		}
		return c.NoContent(http.StatusServiceUnavailable)
	})
}

func registerProfileEndpoints(app *echo.Echo) {
	expvarHandler := expvar.Handler()
	app.GET("/debug/vars", func(c echo.Context) error {
		expvarHandler.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	})
	app.GET("/debug/pprof/", func(c echo.Context) error {
		pprof.Index(c.Response().Writer, c.Request())
		return nil
	})
	app.GET("/debug/pprof/:name", func(c echo.Context) error {
		switch c.Param("name") {
		case "cmdline":
			pprof.Cmdline(c.Response().Writer, c.Request())
		case "profile":
			pprof.Profile(c.Response().Writer, c.Request())
		case "symbol":
			pprof.Symbol(c.Response().Writer, c.Request())
		case "trace":
			pprof.Trace(c.Response().Writer, c.Request())
		default:
			pprof.Handler(c.Param("name")).ServeHTTP(c.Response().Writer, c.Request())
		}
		return nil
	})
}
