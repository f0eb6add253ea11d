package error

import "net/http"

// StoreUnavailableError signals that the session store could not be reached.
// Requests failing with it are never retried by the gateway.
type StoreUnavailableError string

func (err StoreUnavailableError) Error() string {
	return string(err)
}

func (err StoreUnavailableError) ErrCode() string {
	return "STORE_UNAVAILABLE"
}

func (err StoreUnavailableError) StatusCode() int {
	return http.StatusServiceUnavailable
}
