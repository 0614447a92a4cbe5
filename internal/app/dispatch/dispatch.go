// Package dispatch выполняет запросы параллельно, а их результаты передает
// в обработчики строго по одному, так вывод меняется только из одного места
package dispatch

import (
	"context"

	"github.com/sourcegraph/conc/stream"
)

// Stream партия фоновых операций одного экрана.
// Обработчики результатов вызываются по одному в порядке постановки операций.
type Stream struct {
	s *stream.Stream
}

// New maxGoroutines <= 0 снимает ограничение
func New(maxGoroutines int) *Stream {
	s := stream.New()
	if maxGoroutines > 0 {
		s = s.WithMaxGoroutines(maxGoroutines)
	}
	return &Stream{s: s}
}

// Wait ждет все операции и их обработчики, паника внутри пробрасывается сюда
func (s *Stream) Wait() {
	s.s.Wait()
}

// Go выполняет op в своей горутине и передает результат cb
func Go[T any](ctx context.Context, s *Stream, op func(ctx context.Context) (T, error), cb func(T, error)) {
	s.s.Go(func() stream.Callback {
		res, err := op(ctx)
		return func() {
			cb(res, err)
		}
	})
}
