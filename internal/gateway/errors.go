package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidResponse marks a 2xx reply whose body does not match the contract.
var ErrInvalidResponse = errors.New("invalid response from booking service")

// StatusError is a non-2xx reply from the booking service.
type StatusError struct {
	Op     string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: booking service responded %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: booking service responded %d: %s", e.Op, e.Code, e.Detail)
}

// IsPermanent reports whether retrying err cannot succeed: a 4xx other than
// 408 and 429, or a malformed response body.
func IsPermanent(err error) bool {
	if errors.Is(err, ErrInvalidResponse) {
		return true
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}

	switch statusErr.Code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return statusErr.Code >= 400 && statusErr.Code < 500
}
