package apperror

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Error is a domain failure carrying the HTTP status it maps to. Every
// handled error is rendered by Handler as {"message": ..., "code": ...}.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound marks a missing or inactive entity.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Unauthorized marks a missing or invalid bearer token.
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden marks a business-rule or role violation.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// BadRequest marks missing fields, duplicate entities and illegal arguments.
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Internal marks file or IO failures and other unexpected errors.
func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// Handler is the centralized echo error handler. It converts every error
// into the uniform {message, code} JSON body.
func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	switch e := err.(type) {
	case *Error:
		status = e.Status
		message = e.Message
	case *echo.HTTPError:
		status = e.Code
		if m, ok := e.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	_ = c.JSON(status, echo.Map{
		"message": message,
		"code":    strconv.Itoa(status),
	})
}
