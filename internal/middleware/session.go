package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/stackload-app/stackload/backend/internal/access"
	"github.com/stackload-app/stackload/backend/internal/models"
)

// SessionCookieName carries the signed session token
const SessionCookieName = "stackload_session"

// SessionTTL is how long an issued session stays valid
const SessionTTL = 72 * time.Hour

// SubjectContextKey is where the resolved subject lives in the echo context
const SubjectContextKey = "subject"

// Session resolves the caller's subject from the session cookie (or a Bearer
// token for API clients) and stores it in the request context. Any parse or
// claims failure leaves the request anonymous; it never fails the request.
func Session(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tokenString := extractToken(c); tokenString != "" {
				if subject := parseSubject(tokenString, jwtSecret); subject != nil {
					c.Set(SubjectContextKey, subject)
				}
			}
			return next(c)
		}
	}
}

// SubjectFrom returns the authenticated subject, or nil for anonymous requests
func SubjectFrom(c echo.Context) *access.Subject {
	if s, ok := c.Get(SubjectContextKey).(*access.Subject); ok {
		return s
	}
	return nil
}

// IssueToken signs a session token for the user
func IssueToken(user *models.User, jwtSecret string) (string, error) {
	claims := &models.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// SessionCookie builds the httpOnly cookie carrying the session token
func SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(SessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearedSessionCookie builds an expired cookie that signs the caller out
func ClearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// parseSubject verifies the token and converts its claims to a subject.
// Malformed claims are treated as anonymous, never as an error.
func parseSubject(tokenString, jwtSecret string) *access.Subject {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	if claims.UserID == "" {
		return nil
	}
	return &access.Subject{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
}
