package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation")
	ErrBusiness   = errors.New("business rule")
)

func NotFound(resource string, id any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, resource, id)
}

func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func Business(msg string) error {
	return fmt.Errorf("%w: %s", ErrBusiness, msg)
}
