package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"devconnect/log"
)

// Application error codes. They loosely map to HTTP status codes, but the
// mapping happens in one place only (ErrorStatusCode), so the rest of the
// app can reason about errors without knowing anything about HTTP.
const (
	ECONFLICT       = "conflict"
	EFORBIDDEN      = "forbidden"
	EINTERNAL       = "internal"
	EINVALID        = "invalid"
	ENOTFOUND       = "not_found"
	ENOTIMPLEMENTED = "not_implemented"
	EUNAUTHORIZED   = "unauthorized"
)

// Error represents an application error. Code is machine-readable,
// Message is human-readable and safe to show to an end user.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("devconnect error: code=%s message=%s", e.Code, e.Message)
}

// Errorf returns an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode extracts the code of an error. Non-application errors are
// considered internal, since we don't know anything about them.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage extracts the user-facing message of an error. Non-application
// errors get a generic message so internals never leak to a client.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

var codes = map[string]int{
	ECONFLICT:       http.StatusBadRequest,
	EFORBIDDEN:      http.StatusForbidden,
	EINVALID:        http.StatusBadRequest,
	ENOTFOUND:       http.StatusNotFound,
	ENOTIMPLEMENTED: http.StatusNotImplemented,
	EUNAUTHORIZED:   http.StatusUnauthorized,
	EINTERNAL:       http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ReturnError writes an error to the response as a json envelope of the form
// {"error": "<message>"}. Internal errors are additionally logged, since
// they're the ones nobody anticipated.
func ReturnError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrorCode(err), ErrorMessage(err)
	if code == EINTERNAL {
		LogError(r, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ErrorStatusCode(code))
	json.NewEncoder(w).Encode(&errorResponse{Error: message})
}

// errorResponse is the json error envelope returned to api clients.
type errorResponse struct {
	Error string `json:"error"`
}

// LogError logs an error together with the request it occurred on.
func LogError(r *http.Request, err error) {
	log.Error("[http] error: %s %s: %s", r.Method, r.URL.Path, err)
}
