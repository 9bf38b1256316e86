package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stackload-app/stackload/backend/internal/middleware"
	"github.com/stackload-app/stackload/backend/internal/models"
	"github.com/stackload-app/stackload/backend/internal/repositories"
	"github.com/stackload-app/stackload/backend/internal/response"
)

// Machine-readable sign-in error codes exposed on /auth/error
var authErrorMessages = map[string]string{
	"Configuration": "There is a problem with the server configuration.",
	"AccessDenied":  "You do not have permission to sign in.",
	"Verification":  "The sign in link is no longer valid.",
	"Default":       "Unable to sign in.",
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{userRepository: userRepo, jwtSecret: jwtSecret}
}

// RegisterAuthRoutes registers the token-issuing endpoints. These live under
// the auth callback prefix and are never gated by the access table.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/signout", h.SignOut)
}

// RegisterAuthPages registers the sign-in and error page endpoints
func (h *AuthHandler) RegisterAuthPages(e *echo.Echo) {
	e.GET("/auth/signin", h.SignInPage)
	e.GET("/auth/error", h.AuthError)
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	// Check if user with this email already exists
	if _, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email); err == nil {
		return response.Error(c, http.StatusConflict, response.CodeConflict, "User with this email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create account")
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create account")
	}

	return h.issueSession(c, http.StatusCreated, user)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Invalid email or password")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to sign in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Invalid email or password")
	}

	return h.issueSession(c, http.StatusOK, user)
}

// SignOut clears the session cookie
func (h *AuthHandler) SignOut(c echo.Context) error {
	c.SetCookie(middleware.ClearedSessionCookie())
	return response.OK(c, http.StatusOK, echo.Map{"message": "Signed out"})
}

// SignInPage is the redirect target for unauthenticated requests. It echoes
// the callbackUrl so the client can return the user after sign-in.
func (h *AuthHandler) SignInPage(c echo.Context) error {
	return response.OK(c, http.StatusOK, echo.Map{
		"page":        "signin",
		"callbackUrl": c.QueryParam("callbackUrl"),
	})
}

// AuthError exposes machine-readable sign-in error codes. Unknown codes
// collapse to Default.
func (h *AuthHandler) AuthError(c echo.Context) error {
	code := c.QueryParam("error")
	message, ok := authErrorMessages[code]
	if !ok {
		code = "Default"
		message = authErrorMessages[code]
	}
	return response.OK(c, http.StatusOK, echo.Map{"code": code, "message": message})
}

func (h *AuthHandler) issueSession(c echo.Context, status int, user *models.User) error {
	token, err := middleware.IssueToken(user, h.jwtSecret)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to generate token")
	}
	c.SetCookie(middleware.SessionCookie(token))
	return response.OK(c, status, echo.Map{"token": token, "user": user})
}
