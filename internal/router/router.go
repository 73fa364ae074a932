package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bookshelf/internal/auth"
	"bookshelf/internal/config"
	"bookshelf/internal/handler"
	"bookshelf/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	reviewHandler *handler.ReviewHandler,
	chatbotHandler *handler.ChatbotHandler,
	suggestHandler *handler.SuggestHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes: echo-jwt checks the signature, Identity resolves the
	// claims to a stored user and rejects blacklisted tokens.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))
	secured.Use(auth.Identity(userRepo, tokenStore))

	secured.GET("/me", func(c echo.Context) error {
		user, ok := auth.CurrentUser(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		return c.JSON(http.StatusOK, user)
	})

	// Review routes
	secured.GET("/reviews", reviewHandler.List)
	secured.POST("/reviews", reviewHandler.Create)
	secured.GET("/reviews/stats", reviewHandler.Stats)
	secured.GET("/reviews/:id", reviewHandler.Get)
	secured.PUT("/reviews/:id", reviewHandler.Update)
	secured.DELETE("/reviews/:id", reviewHandler.Delete)

	// Chatbot and external suggestions
	secured.POST("/chatbot", chatbotHandler.Chat)
	secured.GET("/suggestions", suggestHandler.Suggestions)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
