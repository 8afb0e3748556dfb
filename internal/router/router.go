package router

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskboard/internal/auth"
	"taskboard/internal/handler"
	"taskboard/internal/logging"
	"taskboard/web"
)

// APIPrefix is the base path of every JSON endpoint.
const APIPrefix = "/api/v1"

// Deps bundles what Register wires into the echo instance.
type Deps struct {
	Logger        logging.Logger
	LimiterStore  middleware.RateLimiterStore
	JWTService    *auth.JWTService
	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps) {
	e.HTTPErrorHandler = NewErrorHandler(d.Logger)
	// rate limiting keys on the socket address; X-Forwarded-For is client controlled
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	e.Use(middleware.RequestID())
	e.Use(RequestLogger(d.Logger))
	e.Use(Recover(d.Logger))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		Skipper:               isSwagger,
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "no-referrer",
	}))
	e.Use(middleware.CORS())
	e.Use(RateLimiter(d.LimiterStore))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.StaticFS("/", echo.MustSubFS(web.Assets, "public"))

	api := e.Group(APIPrefix)

	// Public routes
	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/login", d.AuthHandler.Login)
	api.GET("/health", d.HealthHandler.Health)

	// Secured routes (require a bearer token)
	secured := api.Group("", d.JWTService.Middleware())
	secured.POST("/tasks", d.TaskHandler.Create)
	secured.GET("/tasks", d.TaskHandler.List)
	secured.PUT("/tasks/:id", d.TaskHandler.Update)
	secured.DELETE("/tasks/:id", d.TaskHandler.Delete)
}

func isSwagger(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/swagger/")
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
