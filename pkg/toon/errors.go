package toon

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidResponse = errors.New("invalid response from device")
	ErrRateLimited     = errors.New("rate limited by device")
)

// DeviceError is returned when the Toon answers with a non-2xx status.
type DeviceError struct {
	StatusCode int
	Message    string
}

func (e *DeviceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("device returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("device returned status %d: %s", e.StatusCode, e.Message)
}

// Is reports ErrRateLimited for HTTP 429 responses, so callers can use
// errors.Is without inspecting the status code.
func (e *DeviceError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}
