package errs

import (
	"errors"
	"fmt"
)

var ErrMissingAuthorization = errors.New("Missing authorization")

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string {
	return e.msg
}

func NotFound(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// BadRequestError reports malformed or inconsistent input.
type BadRequestError struct {
	msg string
}

func (e *BadRequestError) Error() string {
	return e.msg
}

func BadRequest(format string, args ...any) error {
	return &BadRequestError{msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsBadRequest(err error) bool {
	var br *BadRequestError
	return errors.As(err, &br)
}
