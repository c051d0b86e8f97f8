package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/frahmantamala/finance-ops/internal/access"
)

type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeAuthenticated ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeAuthorization ErrorType = "AUTHORIZATION_ERROR"
	ErrorTypeConflict      ErrorType = "CONFLICT"
	ErrorTypeDependency    ErrorType = "DEPENDENCY_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount      ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDescription ErrorCode = "INVALID_DESCRIPTION"
	ErrCodeInvalidCategory    ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidDate        ErrorCode = "INVALID_DATE"
	ErrCodeInvalidDepartment  ErrorCode = "INVALID_DEPARTMENT"
	ErrCodeInvalidRole        ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidGrade       ErrorCode = "INVALID_GRADE"
	ErrCodeInvalidStatus      ErrorCode = "INVALID_STATUS"

	ErrCodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"

	ErrCodeTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeInvoiceNotFound     ErrorCode = "INVOICE_NOT_FOUND"
	ErrCodeProjectNotFound     ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeNotificationMissing ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeEmailTaken ErrorCode = "EMAIL_ALREADY_REGISTERED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeDependencyFailed ErrorCode = "DEPENDENCY_FAILED"
)

type AppError struct {
	Type       ErrorType     `json:"type"`
	Code       ErrorCode     `json:"code"`
	Message    string        `json:"message"`
	Reason     access.Reason `json:"reason,omitempty"`
	Details    interface{}   `json:"details,omitempty"`
	StatusCode int           `json:"-"`
	Cause      error         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewAuthenticationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthenticated,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewDependencyError hides the cause from callers; the boundary logs it.
func NewDependencyError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDependency,
		Code:       ErrCodeDependencyFailed,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewDenialError maps an access denial onto the HTTP taxonomy:
// token problems are 401, structural problems 400, the rest 403.
func NewDenialError(reason access.Reason, message string) *AppError {
	e := &AppError{
		Type:       ErrorTypeAuthorization,
		Code:       ErrorCode(strings.ToUpper(strings.ReplaceAll(string(reason), "-", "_"))),
		Message:    message,
		Reason:     reason,
		StatusCode: http.StatusForbidden,
	}
	switch {
	case reason.Authentication():
		e.Type = ErrorTypeAuthenticated
		e.StatusCode = http.StatusUnauthorized
	case reason == access.ReasonInvalidRequest:
		e.Type = ErrorTypeValidation
		e.StatusCode = http.StatusBadRequest
	}
	return e
}

func FromDecision(d access.Decision) *AppError {
	return NewDenialError(d.Reason, d.Message)
}

// FromScopeError maps a failure to build the scope predicate. Filters
// outside the caller's scope and missing departments are client problems;
// anything else is a wiring fault.
func FromScopeError(err error) *AppError {
	var denied *access.DeniedError
	switch {
	case errors.As(err, &denied):
		return NewDenialError(denied.Reason, denied.Message)
	case errors.Is(err, access.ErrEmptyDepartment):
		return NewDenialError(access.ReasonInvalidRequest, "Department is required for department scope")
	}
	return NewDependencyError("failed to build query scope", err)
}

var (
	ErrTransactionNotFound = NewNotFoundError("Transaction not found", ErrCodeTransactionNotFound)
	ErrInvoiceNotFound     = NewNotFoundError("Invoice not found", ErrCodeInvoiceNotFound)
	ErrProjectNotFound     = NewNotFoundError("Project not found", ErrCodeProjectNotFound)
	ErrUserNotFound        = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrNotificationMissing = NewNotFoundError("Notification not found", ErrCodeNotificationMissing)

	ErrInvalidStatusTransition = NewValidationError("Only pending records can be approved or rejected", ErrCodeInvalidStatusTransition)
	ErrEmailTaken              = NewConflictError("Email already registered", ErrCodeEmailTaken)
	ErrInvalidRole             = NewValidationError("Invalid role", ErrCodeInvalidRole)
	ErrInvalidDepartment       = NewValidationError("Invalid department", ErrCodeInvalidDepartment)

	ErrInvalidCredentials = NewAuthenticationError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewAuthenticationError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewAuthenticationError("Token has expired", ErrCodeTokenExpired)
)

// IsAppError unwraps err looking for an *AppError. An access.DeniedError
// anywhere in the chain is converted on the way out.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	var denied *access.DeniedError
	if errors.As(err, &denied) {
		return NewDenialError(denied.Reason, denied.Message), true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code    ErrorCode     `json:"code"`
		Message string        `json:"message"`
		Reason  access.Reason `json:"reason,omitempty"`
		Details interface{}   `json:"details,omitempty"`
	}{
		Code:    e.Code,
		Message: e.Message,
		Reason:  e.Reason,
		Details: e.Details,
	})
}
