// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"
)

// Registry maps an output format to the handler for one report kind.
type Registry[T any] struct {
	kind string
	fns  map[string]func(io.Writer, []T) error
}

func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, fns: map[string]func(io.Writer, []T) error{}}
}

// Register installs fn for format. Last registration wins.
func (r *Registry[T]) Register(format string, fn func(io.Writer, []T) error) { r.fns[format] = fn }

// Formats lists registered formats in sorted order.
func (r *Registry[T]) Formats() []string {
	out := make([]string, 0, len(r.fns))
	for f := range r.fns {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (r *Registry[T]) Has(format string) bool {
	_, ok := r.fns[format]
	return ok
}

// Write renders rows with the handler for format.
func (r *Registry[T]) Write(format string, w io.Writer, rows []T) error {
	fn, ok := r.fns[format]
	if !ok {
		return fmt.Errorf("unknown %s format %q (no writer registered)", r.kind, format)
	}
	return fn(w, rows)
}

// Start spins up a goroutine that collects rows from the returned channel
// and renders them once it is closed. Broken pipes are not reported.
func Start[T any](out io.Writer, reg *Registry[T], format string, bufSize int) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)
	go func() {
		var rows []T
		for v := range in {
			rows = append(rows, v)
		}
		err := reg.Write(format, out, rows)
		if IsBrokenPipe(err) {
			err = nil
		}
		done <- err
	}()
	return in, done
}
