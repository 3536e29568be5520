package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes exposed in the API error envelope
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeInvalidCustomerID    = "INVALID_CUSTOMER_ID"
	CodeInvalidProductID     = "INVALID_PRODUCT_ID"
	CodeInvalidParameterType = "INVALID_PARAMETER_TYPE"
	CodeWishlistLimit        = "WISHLIST_LIMIT_EXCEEDED"
	CodeProductAlreadyExists = "PRODUCT_ALREADY_EXISTS"
	CodeProductNotFound      = "PRODUCT_NOT_FOUND"
	CodeCustomerNotFound     = "CUSTOMER_NOT_FOUND"
	CodeNotFound             = "NOT_FOUND"
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodeTooManyRequests      = "TOO_MANY_REQUESTS"
	CodeInternal             = "INTERNAL_SERVER_ERROR"
)

// InternalErrorMessage is the only message ever returned for unclassified failures.
const InternalErrorMessage = "An unexpected error occurred. Please try again later."

// ApplicationError represents a domain-specific error
type ApplicationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *ApplicationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// As extracts an *ApplicationError from err's chain.
func As(err error) (*ApplicationError, bool) {
	var appErr *ApplicationError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an ApplicationError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// Error constructors
func NewValidationError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewInvalidCustomerIDError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeInvalidCustomerID,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewInvalidProductIDError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeInvalidProductID,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewInvalidParameterTypeError(param, expected string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeInvalidParameterType,
		Message: fmt.Sprintf("Invalid parameter '%s': expected %s", param, expected),
		Status:  http.StatusBadRequest,
	}
}

func NewWishlistLimitExceededError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeWishlistLimit,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewProductAlreadyExistsError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeProductAlreadyExists,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func NewProductNotFoundError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeProductNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

func NewCustomerNotFoundError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeCustomerNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

func NewNotFoundError(resource string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

func NewMethodNotAllowedError(method string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeMethodNotAllowed,
		Message: fmt.Sprintf("Method %s is not allowed on this resource", method),
		Status:  http.StatusMethodNotAllowed,
	}
}

func NewTooManyRequestsError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    CodeTooManyRequests,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

// NewInternalError wraps err behind the fixed opaque message.
func NewInternalError(err error) *ApplicationError {
	return &ApplicationError{
		Code:    CodeInternal,
		Message: InternalErrorMessage,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}
