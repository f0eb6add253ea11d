package error

import (
	"fmt"
	"net/http"
)

// BackendUnreachableError means the inference server refused the connection.
type BackendUnreachableError string

func (err BackendUnreachableError) Error() string {
	return string(err)
}

func (err BackendUnreachableError) ErrCode() string {
	return "BACKEND_UNREACHABLE"
}

func (err BackendUnreachableError) StatusCode() int {
	return http.StatusServiceUnavailable
}

// BackendTimeoutError means the inference call exceeded its bounded wait.
type BackendTimeoutError string

func (err BackendTimeoutError) Error() string {
	return string(err)
}

func (err BackendTimeoutError) ErrCode() string {
	return "BACKEND_TIMEOUT"
}

func (err BackendTimeoutError) StatusCode() int {
	return http.StatusGatewayTimeout
}

// BackendError carries a non-2xx response from the inference server.
// The upstream status is propagated to the caller as-is.
type BackendError struct {
	Status int
	Body   string
}

func (err BackendError) Error() string {
	return fmt.Sprintf("inference backend error: %s", err.Body)
}

func (err BackendError) ErrCode() string {
	return "BACKEND_ERROR"
}

func (err BackendError) StatusCode() int {
	if err.Status == 0 {
		return http.StatusBadGateway
	}
	return err.Status
}
