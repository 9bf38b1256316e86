package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stackload-app/stackload/backend/internal/access"
)

// AccessControl evaluates the decision table once per request. API responses
// get the hardening headers regardless of the decision outcome.
func AccessControl(table *access.Table) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if strings.HasPrefix(req.URL.Path, "/api/") {
				h := c.Response().Header()
				h.Set("X-Content-Type-Options", "nosniff")
				h.Set("X-Frame-Options", "DENY")
			}

			decision := table.Decide(req.URL.Path, req.Method, SubjectFrom(c))
			switch decision.Kind {
			case access.KindDenyRedirect, access.KindForbidden:
				return c.Redirect(http.StatusFound, decision.Location)
			}
			return next(c)
		}
	}
}
