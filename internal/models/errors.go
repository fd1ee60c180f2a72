package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// InvalidRecordError reports a wire record that could not be decoded at all.
type InvalidRecordError struct {
	Kind   string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid %s record: %s", e.Kind, e.Reason)
}
