package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-freezer-inventory/internal/model"
)

// RequireMinRole enforces the role ladder readonly < user < admin: the
// request passes when the authenticated role ranks at least as high as min.
// It assumes JWTAuth has already stored the "role" claim in the context;
// an absent or unknown role is rejected with 403.
func RequireMinRole(min string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !model.RoleAtLeast(role, min) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
