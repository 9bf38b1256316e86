package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackload-app/stackload/backend/internal/access"
)

func runAccessControl(t *testing.T, method, path string, subject *access.Subject) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if subject != nil {
		c.Set(SubjectContextKey, subject)
	}

	reached := false
	handler := AccessControl(access.NewTable())(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, reached
}

func TestAccessControlAllowedAPIRequestCarriesHardeningHeaders(t *testing.T) {
	rec, reached := runAccessControl(t, http.MethodGet, "/api/posts/7", nil)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

// The hardening headers are set before the decision runs, so a denied API
// request carries them too.
func TestAccessControlDeniedAPIRequestCarriesHardeningHeaders(t *testing.T) {
	rec, reached := runAccessControl(t, http.MethodPost, "/api/posts", nil)

	assert.False(t, reached)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/signin?callbackUrl=%2Fapi%2Fposts", rec.Header().Get("Location"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestAccessControlAnonymousRedirectsToSignIn(t *testing.T) {
	rec, reached := runAccessControl(t, http.MethodGet, "/api/notifications", nil)

	assert.False(t, reached)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/signin?callbackUrl=%2Fapi%2Fnotifications", rec.Header().Get("Location"))
}

func TestAccessControlUnderPrivilegedRedirectsHome(t *testing.T) {
	member := &access.Subject{ID: "u1", Email: "u1@example.com", Role: "user"}
	rec, reached := runAccessControl(t, http.MethodGet, "/admin/techs", member)

	assert.False(t, reached)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAccessControlNonAPIPagesSkipHardeningHeaders(t *testing.T) {
	rec, reached := runAccessControl(t, http.MethodGet, "/techs/react", nil)

	assert.True(t, reached)
	assert.Empty(t, rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("X-Frame-Options"))
}
