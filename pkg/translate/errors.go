package translate

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrEmptyResult is returned by engines that want to flag an empty translation
// explicitly. The gateway treats it the same as an empty string.
var ErrEmptyResult = errors.New("provider returned an empty translation")

// ProviderError indicates a translation backend failure (network, quota, timeout, bad status).
type ProviderError struct {
	Engine  string
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s provider error: %s: %v", e.Engine, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s provider error: %s", e.Engine, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the failure was the call running out of time.
func (e *ProviderError) Timeout() bool {
	return IsTimeout(e.Cause)
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func providerError(engine, message string, cause error) error {
	return &ProviderError{Engine: engine, Message: message, Cause: cause}
}
