package curry

import "errors"

// Sentinels matched by InvocationError.
var (
	ErrNotCallable      = errors.New("fn must receive a function as its first parameter")
	ErrNoArguments      = errors.New("fn must receive at least one argument to pass to the function, otherwise there is no need to use fn.")
	ErrArgumentMismatch = errors.New("arguments do not match the function signature")
)

// InvocationError reports curry misuse: a target that does not resolve to a
// function, a curry with no fixed arguments, or arguments the target cannot
// accept. Errors returned by the target itself are never wrapped in it.
type InvocationError struct {
	Target string
	Err    error
	Detail string
}

func (e *InvocationError) Error() string {
	msg := e.Err.Error()
	if e.Target != "" {
		msg += " (target: " + e.Target + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
