package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for request binding failures
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"
	ErrCodeAccountSuspended   = "ERR_ACCOUNT_SUSPENDED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes. The marketplace reports these as bad requests.
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// Checkout and shipping error codes
const (
	ErrCodeCheckoutEmpty             = "ERR_CHECKOUT_EMPTY"
	ErrCodeCheckoutExpired           = "ERR_CHECKOUT_EXPIRED"
	ErrCodeCheckoutClosed            = "ERR_CHECKOUT_CLOSED"
	ErrCodeCheckoutAddressRequired   = "ERR_CHECKOUT_ADDRESS_REQUIRED"
	ErrCodeCheckoutShippingRequired  = "ERR_CHECKOUT_SHIPPING_REQUIRED"
	ErrCodeCheckoutEmailRequired     = "ERR_CHECKOUT_EMAIL_REQUIRED"
	ErrCodeCheckoutCurrencyMismatch  = "ERR_CHECKOUT_CURRENCY_MISMATCH"
	ErrCodeProductUnavailable        = "ERR_PRODUCT_UNAVAILABLE"
	ErrCodeShippingUnavailable       = "ERR_SHIPPING_UNAVAILABLE"
	ErrCodeShippingMethodUnavailable = "ERR_SHIPPING_METHOD_UNAVAILABLE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountLocked:      http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeAccountSuspended:   http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusBadRequest,
	ErrCodeBusinessRule:      http.StatusBadRequest,
	ErrCodeInsufficientStock: http.StatusBadRequest,

	ErrCodeCheckoutEmpty:             http.StatusBadRequest,
	ErrCodeCheckoutExpired:           http.StatusBadRequest,
	ErrCodeCheckoutClosed:            http.StatusBadRequest,
	ErrCodeCheckoutAddressRequired:   http.StatusBadRequest,
	ErrCodeCheckoutShippingRequired:  http.StatusBadRequest,
	ErrCodeCheckoutEmailRequired:     http.StatusBadRequest,
	ErrCodeCheckoutCurrencyMismatch:  http.StatusBadRequest,
	ErrCodeProductUnavailable:        http.StatusBadRequest,
	ErrCodeShippingUnavailable:       http.StatusBadRequest,
	ErrCodeShippingMethodUnavailable: http.StatusBadRequest,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// clientErrorPrefixes classifies domain codes that have no explicit entry.
// Domain validation codes (INVALID_PRICE, QUANTITY_LIMIT, ...) are client errors.
var clientErrorPrefixes = []struct {
	prefix string
	status int
}{
	{"ERR_INVALID_", http.StatusBadRequest},
	{"ERR_CHECKOUT_", http.StatusBadRequest},
	{"ERR_ALREADY_", http.StatusConflict},
	{"ERR_HAS_", http.StatusConflict},
	{"ERR_TOKEN_", http.StatusUnauthorized},
	{"ERR_CANNOT_", http.StatusForbidden},
	{"ERR_", http.StatusBadRequest},
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes outside the ERR_ namespace are unknown and map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if code == ErrCodeUnknown || !strings.HasPrefix(code, "ERR_") {
		return http.StatusInternalServerError
	}
	for _, p := range clientErrorPrefixes {
		if strings.HasPrefix(code, p.prefix) {
			return p.status
		}
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes whose name differs from the API code
var LegacyErrorCodeMapping = map[string]string{
	"VALIDATION_ERROR":     ErrCodeValidation,
	"EMAIL_ALREADY_EXISTS": ErrCodeAlreadyExists,
	"ALREADY_OWNED":        ErrCodeAlreadyExists,
	"TOKEN_MAX_REFRESH":    ErrCodeTokenInvalid,
	"INTERNAL_ERROR":       ErrCodeInternal,
	"PASSWORD_HASH_ERROR":  ErrCodeInternal,
	"STORAGE_ERROR":        ErrCodeInternal,
	"STORAGE_DISABLED":     ErrCodeInternal,
	"EXPORT_DISABLED":      ErrCodeInternal,
	"ITEM_NOT_FOUND":       ErrCodeNotFound,
	"IMAGE_NOT_FOUND":      ErrCodeNotFound,
}

// NormalizeErrorCode converts a domain error code to the ERR_ namespace.
// Codes already in the namespace pass through unchanged; empty input is unknown.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}

// IsServerError reports whether a normalized code should be hidden from clients
func IsServerError(code string) bool {
	return GetHTTPStatus(code) >= http.StatusInternalServerError
}
