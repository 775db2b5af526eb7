package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeInvalidScore        = "INVALID_SCORE"
	ErrCodeInvalidTiming       = "INVALID_TIMING"
	ErrCodeInvalidPurchase     = "INVALID_PURCHASE"
	ErrCodeInvalidJourneyData  = "INVALID_JOURNEY_DATA"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeInsufficientData    = "INSUFFICIENT_DATA"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeStoreUnavailable    = "STORE_UNAVAILABLE"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "INVALID_SCORE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same error code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewInvalidScoreError rejects a score outside the server's bounds.
func NewInvalidScoreError(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidScore,
		Message: fmt.Sprintf("invalid score value: %s", reason),
		Status:  400,
	}
}

// NewInvalidTimingError rejects a suspiciously fast round.
func NewInvalidTimingError(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidTiming,
		Message: fmt.Sprintf("invalid completion time: %s", reason),
		Status:  400,
	}
}

// NewInvalidPurchaseError rejects a purchase that does not match the price table.
func NewInvalidPurchaseError(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidPurchase,
		Message: fmt.Sprintf("invalid purchase: %s", reason),
		Status:  400,
	}
}

// NewInvalidJourneyDataError rejects malformed or implausible journey progress.
func NewInvalidJourneyDataError(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidJourneyData,
		Message: fmt.Sprintf("invalid journey data: %s", reason),
		Status:  400,
	}
}

// NewInsufficientBalanceError rejects a purchase the player cannot afford.
func NewInsufficientBalanceError(have, need int) *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientBalance,
		Message: fmt.Sprintf("insufficient gears: have %d, need %d", have, need),
		Status:  400,
	}
}

// NewInsufficientDataError reports a catalog too small for the request.
func NewInsufficientDataError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientData,
		Message: message,
		Status:  422,
	}
}

// NewConflictError reports a uniqueness violation (e.g. username taken).
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
	}
}

// NewRateLimitedError reports that the per-user request budget is spent.
func NewRateLimitedError() *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: "rate limit exceeded, please try again later",
		Status:  429,
	}
}

// NewStoreUnavailableError wraps a store failure that survived retries.
func NewStoreUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeStoreUnavailable,
		Message: "player store unavailable",
		Status:  503,
		Err:     err,
	}
}

// NewUnauthorizedError reports a request with no usable identity.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  401,
	}
}
