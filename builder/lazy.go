package builder

import (
	"fmt"

	"github.com/hupe1980/lazyframe/source"
)

// Lazy interprets vector commands by composing views instead of
// materializing: range and set restrictions become sub-vector views and
// combinations become combined sources. Nothing is resolved until the
// returned source is actually read.
//
// Lazy carries no mutable state; a shared instance is safe for concurrent
// use.
type Lazy[V any] struct{}

// NewLazy creates the lazy command interpreter.
func NewLazy[V any]() *Lazy[V] {
	return &Lazy[V]{}
}

// Build composes cmd into a view over the underlying sources.
func (l *Lazy[V]) Build(cmd VectorCommand[V]) (source.Source[V], error) {
	switch c := cmd.(type) {
	case Empty[V]:
		return source.FromCells[V](nil), nil

	case Return[V]:
		return c.Source, nil

	case GetRange[V]:
		inner, err := l.Build(c.Cmd)
		if err != nil {
			return nil, err
		}
		return inner.Slice(c.Range)

	case GetSet[V]:
		inner, err := l.Build(c.Cmd)
		if err != nil {
			return nil, err
		}
		return inner.Select(c.Set), nil

	case Combined[V]:
		sources := make([]source.Source[V], len(c.Cmds))
		for i, sub := range c.Cmds {
			s, err := l.Build(sub)
			if err != nil {
				return nil, err
			}
			sources[i] = s
		}
		return source.Combine(c.Fold, sources...)

	case Custom[V]:
		sources := make([]source.Source[V], len(c.Cmds))
		for i, sub := range c.Cmds {
			s, err := l.Build(sub)
			if err != nil {
				return nil, err
			}
			sources[i] = s
		}
		return c.Fn(sources)

	default:
		return nil, &ErrUnknownCommand{Cmd: fmt.Sprintf("%T", cmd)}
	}
}

var (
	_ VectorBuilder[int64] = (*Lazy[int64])(nil)
	_ VectorBuilder[int64] = (*Eager[int64, int64])(nil)
)
