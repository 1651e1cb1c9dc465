// core/ace/stream.go
package ace

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"acekit/core/assembly"
)

// DefaultQueueSize bounds how many built contigs may wait for the consumer.
const DefaultQueueSize = 4

type StreamOptions struct {
	QueueSize int
	// Want selects contigs by id; nil builds all of them.
	Want func(id string) bool
}

// ContigIterator yields contigs parsed on a background goroutine.
//
//	it := ace.Stream(ctx, r, ace.StreamOptions{})
//	defer it.Close()
//	for it.Next() {
//		c := it.Contig()
//	}
//	if err := it.Err(); err != nil { ... }
type ContigIterator struct {
	ch     chan *assembly.Contig
	done   chan struct{}
	cancel context.CancelFunc
	cur    *assembly.Contig
	err    error // set by the producer before done is closed
	closed bool
}

// Stream starts parsing r and returns an iterator over its contigs. The
// producer blocks while the queue is full. Close, or cancelling ctx, stops
// it at the next section boundary.
func Stream(ctx context.Context, r io.Reader, opt StreamOptions) *ContigIterator {
	if opt.QueueSize <= 0 {
		opt.QueueSize = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(ctx)
	it := &ContigIterator{
		ch:     make(chan *assembly.Contig, opt.QueueSize),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go it.produce(ctx, r, opt.Want)
	return it
}

func (it *ContigIterator) produce(ctx context.Context, r io.Reader, want func(string) bool) {
	defer close(it.done)
	defer close(it.ch)
	v := NewContigBuilderVisitor(func(c *assembly.Contig) error {
		select {
		case it.ch <- c:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	v.Want = want
	err := Parse(ctx, r, v)
	if err == nil {
		err = v.Err()
	}
	it.err = err
}

// Next advances to the next contig. It returns false when the input is
// exhausted, on error, or after Close.
func (it *ContigIterator) Next() bool {
	if it.closed {
		return false
	}
	c, ok := <-it.ch
	if !ok {
		<-it.done
		it.cur = nil
		return false
	}
	it.cur = c
	return true
}

// Contig returns the contig produced by the last successful Next.
func (it *ContigIterator) Contig() *assembly.Contig { return it.cur }

// Err returns the error that ended the stream, if any. Cancellation caused
// by Close is not reported.
func (it *ContigIterator) Err() error {
	select {
	case <-it.done:
	default:
		return nil
	}
	if it.closed && errors.Is(it.err, context.Canceled) {
		return nil
	}
	return it.err
}

// Close stops the producer and waits for it to exit. It is safe to call
// more than once.
func (it *ContigIterator) Close() error {
	if !it.closed {
		it.closed = true
		it.cancel()
		for range it.ch {
		}
		<-it.done
	}
	return it.Err()
}
