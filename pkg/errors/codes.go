package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeRateLimited        ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Aliases
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Catalog Error Codes.  Static reference data that fails validation is a
// configuration defect and must abort start-up.
const (
	ErrCodeCatalogInvalid      ErrorCode = "CAT_001"
	ErrCodeCatalogMissingEntry ErrorCode = "CAT_002"
	ErrCodeCatalogUnknownName  ErrorCode = "CAT_003"
)

// Calendar Error Codes
const (
	ErrCodeRootNotBracketed  ErrorCode = "CAL_001"
	ErrCodeYearOutOfRange    ErrorCode = "CAL_002"
	ErrCodeTimezoneInvalid   ErrorCode = "CAL_003"
	ErrCodeEphemerisMethod   ErrorCode = "CAL_004"
	ErrCodeBoundaryPolicy    ErrorCode = "CAL_005"
	ErrCodeSolarTermNotFound ErrorCode = "CAL_006"
)

// Input Error Codes
const (
	ErrCodeInvalidBirthInput ErrorCode = "INP_001"
	ErrCodeInvalidOptions    ErrorCode = "INP_002"
)

// Unsupported-combination Error Codes
const (
	ErrCodeUnsupportedCombination ErrorCode = "UNS_001"
	ErrCodeLunarInputUnsupported  ErrorCode = "UNS_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeCatalogInvalid:      http.StatusInternalServerError,
	ErrCodeCatalogMissingEntry: http.StatusInternalServerError,
	ErrCodeCatalogUnknownName:  http.StatusInternalServerError,

	ErrCodeRootNotBracketed:  http.StatusInternalServerError,
	ErrCodeYearOutOfRange:    http.StatusBadRequest,
	ErrCodeTimezoneInvalid:   http.StatusBadRequest,
	ErrCodeEphemerisMethod:   http.StatusBadRequest,
	ErrCodeBoundaryPolicy:    http.StatusBadRequest,
	ErrCodeSolarTermNotFound: http.StatusInternalServerError,

	ErrCodeInvalidBirthInput: http.StatusBadRequest,
	ErrCodeInvalidOptions:    http.StatusBadRequest,

	ErrCodeUnsupportedCombination: http.StatusUnprocessableEntity,
	ErrCodeLunarInputUnsupported:  http.StatusUnprocessableEntity,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeRateLimited:        "rate limit exceeded",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeCatalogInvalid:      "reference catalog is malformed",
	ErrCodeCatalogMissingEntry: "reference catalog is missing an entry",
	ErrCodeCatalogUnknownName:  "reference catalog names an unknown symbol",

	ErrCodeRootNotBracketed:  "solar term root could not be bracketed",
	ErrCodeYearOutOfRange:    "year outside supported range",
	ErrCodeTimezoneInvalid:   "invalid timezone",
	ErrCodeEphemerisMethod:   "unknown ephemeris method",
	ErrCodeBoundaryPolicy:    "unknown boundary policy",
	ErrCodeSolarTermNotFound: "solar term not found",

	ErrCodeInvalidBirthInput: "invalid birth input",
	ErrCodeInvalidOptions:    "invalid engine options",

	ErrCodeUnsupportedCombination: "unsupported input combination",
	ErrCodeLunarInputUnsupported:  "lunar calendar input is not supported",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
