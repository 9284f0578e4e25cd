package archive

import "strings"

// ValidationError reports a store request that cannot be sent upstream.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}
