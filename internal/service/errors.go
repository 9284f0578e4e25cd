package service

import "fmt"

// UpstreamFetchError reports a failed call to the weather provider: the provider
// was unreachable, answered with a non-2xx status or sent a body that is not JSON.
// StatusCode is zero when no response was received.
type UpstreamFetchError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
