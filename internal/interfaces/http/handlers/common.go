// Package handlers implements the HTTP handlers of the chart API.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorBody is the error payload.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// writeAppError maps err to its HTTP status through the error code.  Server
// errors are masked to the code's default message.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown || code == errors.CodeOK {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatusForCode(code)

	body := ErrorBody{
		Code:      code.String(),
		Message:   errors.DefaultMessageForCode(code),
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	if status < http.StatusInternalServerError {
		var ae *errors.AppError
		if stderrors.As(err, &ae) {
			body.Message = ae.Message
			body.Detail = ae.Detail
			if body.Detail == "" && ae.Cause != nil {
				body.Detail = ae.Cause.Error()
			}
		} else {
			body.Message = err.Error()
		}
	}
	writeJSON(w, status, ErrorResponse{Error: body})
}

// decodeJSON reads a single JSON document of at most maxBytes into dst.
// Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst interface{}) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.Newf(errors.ErrCodeBadRequest, "request body exceeds %d bytes", tooLarge.Limit)
		case stderrors.Is(err, io.EOF):
			return errors.New(errors.ErrCodeBadRequest, "request body is empty")
		default:
			return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed JSON body").WithDetail(err.Error())
		}
	}
	if dec.More() {
		return errors.New(errors.ErrCodeBadRequest, "request body must hold a single JSON document")
	}
	return nil
}

// NotFound writes the JSON 404 used for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeAppError(w, r, errors.New(errors.ErrCodeNotFound, "no route for "+r.URL.Path))
}

// MethodNotAllowed writes the JSON 405 used for known routes.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	body := ErrorBody{
		Code:      errors.ErrCodeBadRequest.String(),
		Message:   r.Method + " is not allowed on " + r.URL.Path,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: body})
}

// badRequest builds a 400 error for a malformed path or query parameter.
func badRequest(param, value string) error {
	return errors.New(errors.ErrCodeBadRequest, fmt.Sprintf("invalid %s", param)).WithDetail(value)
}

//Personal.AI order the ending
