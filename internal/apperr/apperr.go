// Package apperr holds the error kinds shared by the service layer so the
// HTTP layer can map them to status codes in one place.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced entity that does not exist. Repos wrap it
// with the entity name and id.
var ErrNotFound = errors.New("not found")

// Validation is a client-caused input error. Its reason is safe to return
// to the caller verbatim.
type Validation struct {
	Reason string
}

func (e *Validation) Error() string { return e.Reason }

func Validationf(format string, args ...any) error {
	return &Validation{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a Validation error.
func IsValidation(err error) bool {
	var v *Validation
	return errors.As(err, &v)
}
