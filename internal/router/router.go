package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"gatehouse/internal/auth"
	"gatehouse/internal/config"
	"gatehouse/internal/errors"
	"gatehouse/internal/handler"
	"gatehouse/internal/model"
)

var startTime = time.Now()

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(startTime).Seconds(),
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/validate-token", authHandler.ValidateToken)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// The parse func hands back our own claims type so downstream
	// middleware and handlers see role and status directly.
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
	})

	userGroup := api.Group("/user", jwtMiddleware, RequireRole(model.RoleUser))
	userGroup.GET("/profile", userHandler.Profile)
	userGroup.GET("/status", userHandler.Status)

	adminGroup := api.Group("/admin", jwtMiddleware, RequireRole(model.RoleAdmin))
	adminGroup.GET("/pending-users", adminHandler.PendingUsers)
	adminGroup.PUT("/approve/:id", adminHandler.Approve)
	adminGroup.PUT("/reject/:id", adminHandler.Reject)
	adminGroup.GET("/stats", adminHandler.Stats)
}

// RequireRole gates a route group by role. Admins pass every requirement;
// regular users pass only the "user" requirement.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := handler.CurrentClaims(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "invalid token",
					Code:  "UNAUTHENTICATED",
				})
			}

			if claims.Role != model.RoleAdmin && claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "insufficient role",
					Code:  "FORBIDDEN",
				})
			}

			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
