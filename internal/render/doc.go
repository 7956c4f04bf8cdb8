// Package render is a small rendering collaborator for component
// definitions.
//
// Templates are built in Go from nodes (El, Text, Show, When, Invoke) and
// expressions (Lit, This, Arg, Fn) and attached to component values through
// a side table on the Runtime. A Renderer turns a root component into
// markup, reconciling component instances by template position: the same
// definition at the same position is updated, anything else is created
// fresh and the old instance destroyed. Elements keep their identity across
// passes, so tests can hold an *Element, click it, settle and look again.
//
// Rendering is single-threaded. Callers must not render, dispatch or settle
// the same Renderer from more than one goroutine at a time.
package render
