package streaming

import (
	"context"
	"sync"
)

// Channel starts s and delivers the selected kinds (every kind when none are given) on the
// returned channel. When ctx ends the stream is stopped and the channel closed.
func Channel(ctx context.Context, s Stream, selected ...EventKind) (<-chan Event, error) {
	if len(selected) == 0 {
		selected = kinds
	}

	ch := make(chan Event, 64)

	var (
		mu     sync.Mutex
		closed bool
	)

	handler := func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
		}
	}

	for _, kind := range selected {
		if err := s.On(kind, handler); err != nil {
			return nil, err
		}
	}

	s.Start()

	go func() {
		<-ctx.Done()
		s.Stop()

		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch, nil
}
