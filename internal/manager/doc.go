// Package manager provides the three stock component managers.
//
// Each manager computes its capability set once, when it is constructed, and
// returns that same set for every component it manages:
//
//	ClassManager         create-args, create-instance, update-hook, will-destroy
//	                     (+ async-lifecycle with WithAsyncLifecycle)
//	FunctionManager      prepare-args, create-args, update-hook
//	TemplateOnlyManager  none
package manager

import (
	"errors"
)

var (
	ErrAlreadyDestroyed = errors.New("instance already destroyed")
	ErrNilConstructor   = errors.New("component has no constructor")
	ErrForeignState     = errors.New("state was not created by this manager")
)
