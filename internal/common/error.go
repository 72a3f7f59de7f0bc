package common

import "fmt"

// ServiceError is the single error type the service layer hands to its callers.
// Kind is one of the sentinel errors of this package; Err keeps the
// underlying cause for logging. errors.Is matches both.
type ServiceError struct {
	Op   string
	Kind error
	Err  error
}

// NewServiceError wraps err for operation op. A nil kind defaults to ErrDatabase.
func NewServiceError(op string, kind error, err error) *ServiceError {
	if kind == nil {
		kind = ErrDatabase
	}
	return &ServiceError{Op: op, Kind: kind, Err: err}
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
