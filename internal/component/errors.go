package component

import (
	"errors"
	"fmt"

	"github.com/zjrosen/vellum/internal/capability"
)

// Definition errors
var (
	ErrNilManager              = errors.New("manager cannot be nil")
	ErrNilDefinition           = errors.New("definition cannot be nil")
	ErrEmptyName               = errors.New("definition name cannot be empty")
	ErrInvalidHandle           = errors.New("invalid handle")
	ErrDuplicateHandle         = errors.New("handle already registered")
	ErrDuplicateComponent      = errors.New("component value already defined")
	ErrUnimplementedCapability = errors.New("declared capability not implemented by manager")
	ErrMalformedCapabilities   = errors.New("malformed capability declaration")
	ErrRegistryClosed          = errors.New("registry closed")
	ErrHandleSpaceExhausted    = errors.New("handle space exhausted")
)

// ErrCapabilityViolation is matched by every *CapabilityViolationError.
var ErrCapabilityViolation = errors.New("capability violation")

// DefinitionError reports a definition that cannot be created or registered.
// It is returned synchronously from Define and Registry.Register.
type DefinitionError struct {
	Name   string
	Handle Handle
	Err    error
}

func (e *DefinitionError) Error() string {
	if e.Handle != 0 {
		return fmt.Sprintf("define component %q (handle %d): %v", e.Name, e.Handle, e.Err)
	}
	return fmt.Sprintf("define component %q: %v", e.Name, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// CapabilityViolationError reports a manager operation invoked without the
// capability that gates it. It points at a defect in the caller, not at bad
// input, and is never recoverable within the pass.
type CapabilityViolationError struct {
	Definition string
	Operation  string
	Required   capability.Flag
	Declared   capability.Set
}

func (e *CapabilityViolationError) Error() string {
	return fmt.Sprintf("capability violation: %s called on %s without %q (declared %s)",
		e.Operation, e.Definition, e.Required.String(), e.Declared)
}

func (e *CapabilityViolationError) Unwrap() error {
	return ErrCapabilityViolation
}

// ManagerHookError carries an error returned by a manager hook. The message
// is the hook's own message; Unwrap returns the hook's error unchanged.
type ManagerHookError struct {
	Hook       string
	Definition string
	Err        error
}

func (e *ManagerHookError) Error() string {
	return e.Err.Error()
}

func (e *ManagerHookError) Unwrap() error {
	return e.Err
}
