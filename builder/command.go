// Package builder implements the index-algebra entry point of the
// substrate: a vector-command algebra describing how to obtain columns
// without evaluating them, a dispatcher (Virtual) that answers each
// algebraic request lazily whenever a lazy path exists, and the default
// eager builder it falls back to.
package builder

import (
	"fmt"

	"github.com/hupe1980/lazyframe/source"
)

// VectorCommand describes how to obtain a vector. Commands are inert
// values: nothing is evaluated until a VectorBuilder interprets them, so
// passing commands around preserves laziness.
type VectorCommand[V any] interface {
	isVectorCommand()
}

// Return uses an existing source as-is.
type Return[V any] struct {
	Source source.Source[V]
}

// Empty is the zero-length vector.
type Empty[V any] struct{}

// GetRange restricts a command to a contiguous address range.
type GetRange[V any] struct {
	Cmd   VectorCommand[V]
	Range source.Range
}

// GetSet restricts a command to an explicit, ordered address set.
type GetSet[V any] struct {
	Cmd VectorCommand[V]
	Set source.AddressSet
}

// Combined folds several equal-length commands pointwise.
type Combined[V any] struct {
	Cmds []VectorCommand[V]
	Fold source.Fold[V]
}

// Custom applies a caller-supplied construction to the sources obtained
// from its inputs.
type Custom[V any] struct {
	Cmds []VectorCommand[V]
	Fn   func(sources []source.Source[V]) (source.Source[V], error)
}

func (Return[V]) isVectorCommand()   {}
func (Empty[V]) isVectorCommand()    {}
func (GetRange[V]) isVectorCommand() {}
func (GetSet[V]) isVectorCommand()   {}
func (Combined[V]) isVectorCommand() {}
func (Custom[V]) isVectorCommand()   {}

// VectorBuilder interprets vector commands. The eager implementation
// materializes; a lazy interpreter may instead compose views.
type VectorBuilder[V any] interface {
	Build(cmd VectorCommand[V]) (source.Source[V], error)
}

// ErrUnsupportedOperation is a named error type for an index-algebra
// request that has no lazy implementation for the given index kind and
// must not silently fall back to materialization.
type ErrUnsupportedOperation struct {
	Op     string
	Reason string
}

func (e *ErrUnsupportedOperation) Error() string {
	return fmt.Sprintf("unsupported operation %s: %s", e.Op, e.Reason)
}

// ErrUnknownCommand is a named error type for a vector command the
// builder does not recognize.
type ErrUnknownCommand struct {
	Cmd string
}

func (e *ErrUnknownCommand) Error() string {
	return fmt.Sprintf("unknown vector command %s", e.Cmd)
}

const reasonAvoidMaterialization = "no lazy path exists; falling back would force full materialization, avoid materialization by materializing explicitly first"
