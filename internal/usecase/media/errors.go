package media

import "errors"

var (
	ErrMediaNotFound    = errors.New("media not found")
	ErrInvalidToken     = errors.New("invalid or expired upload token")
	ErrTokenAlreadyUsed = errors.New("upload token already used")
)

// ValidationError is a user-facing rejection of the request input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidationError reports whether err carries a user-facing validation message.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
