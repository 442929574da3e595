package handler

import (
	"github.com/labstack/echo/v4"

	"gatehouse/internal/auth"
)

// CurrentClaims returns the JWT claims placed on the context by the auth
// middleware.
func CurrentClaims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get("user").(*auth.Claims)
	return claims, ok
}
