// Package memory is a single-process ChangeNotifier.
package memory

import (
	"context"
	"sync"

	"lostfound/internal/domain"
	"lostfound/internal/port"
)

// subscriberBuffer bounds how many undelivered changes a subscriber may
// hold. A full buffer already guarantees the subscriber will re-read, so
// further changes are dropped for it.
const subscriberBuffer = 16

type notifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan domain.ReportChange
}

// NewNotifier creates an in-memory ChangeNotifier.
func NewNotifier() port.ChangeNotifier {
	return &notifier{subs: make(map[int]chan domain.ReportChange)}
}

func (n *notifier) Publish(_ context.Context, change domain.ReportChange) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, ch := range n.subs {
		select {
		case ch <- change:
		default:
		}
	}
	return nil
}

func (n *notifier) Subscribe(ctx context.Context) (<-chan domain.ReportChange, func(), error) {
	ch := make(chan domain.ReportChange, subscriberBuffer)

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = ch
	n.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	cancel := func() {
		once.Do(func() {
			close(done)
			n.mu.Lock()
			delete(n.subs, id)
			close(ch)
			n.mu.Unlock()
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel, nil
}
