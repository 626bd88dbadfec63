package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an application error so the HTTP layer can map it
// to a status and a machine-readable code without string matching.
type Kind int

const (
	KindInvalidRequest Kind = iota
	KindAuthentication
	KindNotFound
	KindAccessDenied
	KindBusinessRule
	KindWithdrawalNotAllowed
	KindConfirmationRequired
	KindConflict
	KindInternal
)

type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to the status the route layer responds with.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidRequest, KindBusinessRule:
		return fiber.StatusBadRequest
	case KindAuthentication:
		return fiber.StatusUnauthorized
	case KindNotFound:
		return fiber.StatusNotFound
	case KindAccessDenied, KindWithdrawalNotAllowed:
		return fiber.StatusForbidden
	case KindConfirmationRequired, KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func newError(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func InvalidRequest(code, message string) *AppError {
	return newError(KindInvalidRequest, code, message)
}

func Authentication(message string) *AppError {
	return newError(KindAuthentication, "AUTHENTICATION_ERROR", message)
}

func NotFound(code, message string) *AppError {
	return newError(KindNotFound, code, message)
}

func AccessDenied(message string) *AppError {
	return newError(KindAccessDenied, "ACCESS_DENIED", message)
}

func BusinessRule(message string) *AppError {
	return newError(KindBusinessRule, "BUSINESS_RULE_VIOLATION", message)
}

func WithdrawalNotAllowed(message string) *AppError {
	return newError(KindWithdrawalNotAllowed, "WITHDRAWAL_NOT_ALLOWED", message)
}

func ConfirmationRequired(message string) *AppError {
	return newError(KindConfirmationRequired, "CONFIRMATION_REQUIRED", message)
}

func Conflict(code, message string) *AppError {
	return newError(KindConflict, code, message)
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "internal server error", Err: err}
}

// WithDetails attaches extra payload fields (e.g. the college a project
// belongs to on an access denial, or withdrawal warnings).
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
