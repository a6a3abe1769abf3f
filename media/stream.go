package media

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// ChunkProducer lazily produces a response body as a sequence of byte
// chunks. The channel must be closed when the sequence ends; the
// producer should stop when ctx is cancelled.
type ChunkProducer func(ctx context.Context) <-chan []byte

// ErrStreamNotFunction is returned when a streaming body source is not a
// function at all.
var ErrStreamNotFunction = errors.New("media: stream source must be a chunk-producing function")

// ErrStreamNotIncremental is returned when a streaming body source is a
// function but does not produce an incremental chunk sequence, e.g. a
// plain function or one returning a single value.
var ErrStreamNotIncremental = errors.New("media: stream source must produce a lazy sequence of chunks")

// Producer checks that v really is an incremental chunk producer and
// rejects everything else before any bytes are sent. Accepted forms:
//
//	media.ChunkProducer
//	func(context.Context) <-chan []byte
//	<-chan []byte
//
// Failures are checkable with errors.Is against ErrStreamNotFunction
// and ErrStreamNotIncremental.
func Producer(v any) (ChunkProducer, error) {
	switch src := v.(type) {
	case ChunkProducer:
		return src, nil
	case func(context.Context) <-chan []byte:
		return src, nil
	case chan []byte:
		return fromChannel(src), nil
	case <-chan []byte:
		return fromChannel(src), nil
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %T", ErrStreamNotFunction, v)
	}
	return nil, fmt.Errorf("%w: got %T", ErrStreamNotIncremental, v)
}

func fromChannel(ch <-chan []byte) ChunkProducer {
	return func(ctx context.Context) <-chan []byte {
		out := make(chan []byte)
		go func() {
			defer close(out)
			for {
				select {
				case chunk, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- chunk:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}
}
