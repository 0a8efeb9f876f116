package middleware

// identity.go holds helpers shared by the middleware in this package for
// naming the requester in rate-limit and cache keys.

import (
	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id from the context, or
// "anon" for unauthenticated requests so anonymous traffic shares one
// bucket per IP.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
