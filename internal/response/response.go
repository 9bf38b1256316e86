// Package response implements the JSON envelope returned by every API
// handler: {success, data?, error?, pagination?}. Handlers never reply with
// an unstructured body, success or failure.
package response

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Machine-readable error codes
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL"
)

// ErrorBody carries the client-facing error detail
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Pagination describes the page window of a list response
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Envelope is the uniform response shape
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// NewPagination computes the page descriptor for a list response
func NewPagination(page, limit int, total int64) *Pagination {
	return &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// OK writes a success envelope with the given status and payload
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// Paginated writes a success envelope with a pagination block
func Paginated(c echo.Context, data any, page, limit int, total int64) error {
	return c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Data:       data,
		Pagination: NewPagination(page, limit, total),
	})
}

// Error writes a failure envelope
func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Envelope{Success: false, Error: &ErrorBody{Message: message, Code: code}})
}

// ErrorWithDetails writes a failure envelope carrying structured details,
// e.g. field-level validation messages
func ErrorWithDetails(c echo.Context, status int, code, message string, details any) error {
	return c.JSON(status, Envelope{Success: false, Error: &ErrorBody{Message: message, Code: code, Details: details}})
}
