package actions

import (
	"errors"
	"fmt"
	"net/http"
)

// ClientError is a problem with the caller's input. It maps to 400.
type ClientError struct {
	msg string
}

func (e *ClientError) Error() string {
	return e.msg
}

// BadRequest builds a ClientError from a format string.
func BadRequest(format string, args ...interface{}) error {
	return &ClientError{msg: fmt.Sprintf(format, args...)}
}

// MissingParameter reports an absent query parameter.
func MissingParameter(key string) error {
	return BadRequest("Missing query parameter: %s", key)
}

// InvalidParameter reports a query parameter that failed to parse.
func InvalidParameter(key string) error {
	return BadRequest("Invalid query parameter: %s", key)
}

// InsufficientFundsError is returned when the sender cannot cover the
// transfer plus the network fee. Have and Need are lamports. It maps to 400.
type InsufficientFundsError struct {
	Have uint64
	Need uint64
	// RequestedSOL is the amount as the caller asked for it. When set it is
	// shown in place of Need, matching the success message.
	RequestedSOL float64
}

func (e *InsufficientFundsError) Error() string {
	need := FormatSOL(e.Need)
	if e.RequestedSOL > 0 {
		need = formatAmount(e.RequestedSOL)
	}
	return fmt.Sprintf("Insufficient balance: you have %s SOL but need %s SOL + fees",
		FormatSOL(e.Have), need)
}

// UpstreamError wraps a failed RPC call. It maps to 500.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "RPC error: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// InternalError wraps a failure to assemble or encode a transaction. It maps to 500.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return "Serialization error: " + e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// StatusCode maps an error from this package to the HTTP status the caller should see.
func StatusCode(err error) int {
	var clientErr *ClientError
	var fundsErr *InsufficientFundsError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &clientErr), errors.As(err, &fundsErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Reason classifies an error for metrics labels.
func Reason(err error) string {
	var clientErr *ClientError
	var fundsErr *InsufficientFundsError
	var upstreamErr *UpstreamError
	switch {
	case errors.As(err, &fundsErr):
		return "insufficient_funds"
	case errors.As(err, &clientErr):
		return "client"
	case errors.As(err, &upstreamErr):
		return "upstream"
	default:
		return "internal"
	}
}
