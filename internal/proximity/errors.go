package proximity

import "errors"

// ConfigError indicates the classifier cannot run as configured: an unknown
// or mismatched source coordinate reference system, an unsupported distance
// method, or invalid thresholds.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps an error as a configuration failure.
func NewConfigError(err error) *ConfigError {
	return &ConfigError{Err: err}
}

// IsConfigError returns true if any error in the chain is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// PreconditionError indicates the inputs violate a classifier precondition:
// an empty reference-region set or a malformed geometry.
type PreconditionError struct {
	Err error
}

func (e *PreconditionError) Error() string {
	return e.Err.Error()
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// NewPreconditionError wraps an error as a precondition failure.
func NewPreconditionError(err error) *PreconditionError {
	return &PreconditionError{Err: err}
}

// IsPreconditionError returns true if any error in the chain is a PreconditionError.
func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
