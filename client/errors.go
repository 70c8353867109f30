package client

import (
	"errors"
	"fmt"
)

// ErrNetworkUnavailable marks transport-level failures (DNS, refused
// connection, timeout). Callers match it with errors.Is to decide whether a
// degraded demo mode is worth offering.
var ErrNetworkUnavailable = errors.New("network unavailable")

// AuthError means the credentials or session were rejected. The only fatal
// error in the taxonomy: the caller must force a re-login.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed: %s", e.Message)
}

// ApiError is any other non-success HTTP response. Recoverable via retry.
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ParseError means the response envelope was not one of the known shapes or
// the payload did not decode. Treated like an ApiError by callers.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized response: %s", e.Message)
}
