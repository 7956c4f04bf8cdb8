package render

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownComponent = errors.New("component is not defined")
	ErrNotInScope       = errors.New("component is not in template scope")
	ErrUnkeyable        = errors.New("component value cannot key the template table")
	ErrNoHandler        = errors.New("element has no handler for event")
	ErrDetached         = errors.New("element is no longer rendered")
	ErrTornDown         = errors.New("renderer torn down")
)

// PassError reports a rejected render pass. Nothing the pass rendered is
// committed.
type PassError struct {
	Pass      string
	Component string
	Err       error
}

func (e *PassError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("render pass %s rejected in %s: %v", e.Pass, e.Component, e.Err)
	}
	return fmt.Sprintf("render pass %s rejected: %v", e.Pass, e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}
