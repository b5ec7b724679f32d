package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ApiError carries a transport status alongside the message so the
// top-level handler can translate it without inspecting error text.
type ApiError struct {
	StatusCode int
	Message    string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(status int, msg string) *ApiError {
	return &ApiError{StatusCode: status, Message: msg}
}

func BadRequest(msg string) *ApiError {
	return NewApiError(fiber.StatusBadRequest, msg)
}

func Unauthorized(msg string) *ApiError {
	return NewApiError(fiber.StatusUnauthorized, msg)
}

func NotFound(msg string) *ApiError {
	return NewApiError(fiber.StatusNotFound, msg)
}

func Conflict(msg string) *ApiError {
	return NewApiError(fiber.StatusConflict, msg)
}

func Internal(msg string) *ApiError {
	return NewApiError(fiber.StatusInternalServerError, msg)
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}, message string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    true,
	})
}

// ErrorHandler is the single boundary translator: every error that
// escapes a handler becomes the same response envelope. Unknown
// errors default to 500 without leaking internals.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	var apiErr *ApiError
	var fiberErr *fiber.Error
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
		message = apiErr.Message
	} else if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}

	return ctx.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"data":       nil,
		"message":    message,
		"success":    false,
	})
}
