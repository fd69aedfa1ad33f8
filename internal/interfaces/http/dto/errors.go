package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeNotAuthenticated is kept verbatim so clients can redirect to login
	ErrCodeNotAuthenticated = "NOT_AUTHENTICATED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeStorageQuota is used when the draft slot budget would be exceeded
	ErrCodeStorageQuota = "STORAGE_QUOTA_EXCEEDED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	ErrCodeNotAuthenticated: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeStorageQuota: http.StatusInsufficientStorage,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Memory cards
	"CARD_NOT_FOUND":            http.StatusNotFound,
	"CARD_FORBIDDEN":            http.StatusForbidden,
	"CARD_NOT_PAID":             http.StatusNotFound,
	"EVENT_NAME_REQUIRED":       http.StatusBadRequest,
	"EVENT_NAME_TOO_LONG":       http.StatusBadRequest,
	"PERSON_NAME_REQUIRED":      http.StatusBadRequest,
	"PERSON_NAME_TOO_LONG":      http.StatusBadRequest,
	"CELEBRATION_DATE_REQUIRED": http.StatusBadRequest,
	"INVALID_CELEBRATION_DATE":  http.StatusBadRequest,
	"INVALID_EXPIRY_DATE":       http.StatusBadRequest,
	"INVALID_SPOTIFY_LINK":      http.StatusBadRequest,
	"INVALID_THEME":             http.StatusBadRequest,
	"INVALID_EMOJI":             http.StatusBadRequest,
	"MESSAGE_TOO_LONG":          http.StatusBadRequest,
	"DRAFTS_NOT_CLEARED":        http.StatusInternalServerError,
	"PHOTO_UPLOAD_FAILED":       http.StatusUnprocessableEntity,

	// Payments
	"CARD_ALREADY_PAID":          http.StatusConflict,
	"CARD_ID_REQUIRED":           http.StatusBadRequest,
	"SESSION_ID_REQUIRED":        http.StatusBadRequest,
	"INVALID_CARD_ID":            http.StatusBadRequest,
	"INVALID_SESSION_ID":         http.StatusBadRequest,
	"INVALID_AMOUNT":             http.StatusBadRequest,
	"INVALID_CURRENCY":           http.StatusBadRequest,
	"INVALID_PAYMENT_RETURN":     http.StatusBadRequest,
	"INVALID_WEBHOOK_SIGNATURE":  http.StatusBadRequest,
	"PAYMENT_SESSION_FORBIDDEN":  http.StatusForbidden,
	"PAYMENT_RETURN_IN_PROGRESS": http.StatusConflict,

	// Identity
	"EMAIL_TAKEN":         http.StatusConflict,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"INVALID_FULL_NAME":   http.StatusBadRequest,
	"INVALID_AVATAR":      http.StatusBadRequest,
	"INVALID_USER_ID":     http.StatusBadRequest,
	"USER_NOT_FOUND":      http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps the shared domain error codes to the ERR_ format
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"UNAUTHORIZED":     ErrCodeUnauthorized,
	"FORBIDDEN":        ErrCodeForbidden,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
