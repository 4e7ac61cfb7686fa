package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/port"
)

// NotificationQueue accepts outbound notifications without blocking.
type NotificationQueue interface {
	// Enqueue reports whether n was accepted. A full queue drops n.
	Enqueue(n domain.Notification) bool
}

// NotificationConfig holds settings for the notification dispatcher.
type NotificationConfig struct {
	Workers        int
	QueueSize      int
	SendTimeout    time.Duration
	FailureLogSize int
}

// NotificationDispatcher is the outbox for transactional email. Sends are
// fire-and-forget: a failure is logged and recorded, never retried, and
// never surfaces to the caller that enqueued it.
type NotificationDispatcher struct {
	sender port.EmailSender
	cfg    NotificationConfig
	logger *zap.Logger
	queue  chan domain.Notification
	wg     sync.WaitGroup

	// stateMu guards stopped. Enqueue holds the read lock across its send
	// so nothing lands in the queue after the workers begin their drain.
	stateMu sync.RWMutex
	stopped bool

	mu       sync.Mutex
	failures []domain.NotificationFailure
}

// NewNotificationDispatcher creates a NotificationDispatcher.
func NewNotificationDispatcher(sender port.EmailSender, cfg NotificationConfig, logger *zap.Logger) *NotificationDispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.FailureLogSize <= 0 {
		cfg.FailureLogSize = 100
	}
	return &NotificationDispatcher{
		sender: sender,
		cfg:    cfg,
		logger: logger,
		queue:  make(chan domain.Notification, cfg.QueueSize),
	}
}

// Enqueue queues n for delivery. Once the dispatcher has stopped, n is
// rejected and recorded as a failure.
func (d *NotificationDispatcher) Enqueue(n domain.Notification) bool {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()

	if d.stopped {
		d.logger.Warn("notification dispatcher stopped, dropping",
			zap.String("kind", string(n.Kind)), zap.String("to", n.To))
		d.recordFailure(n, fmt.Errorf("dispatcher stopped"))
		return false
	}

	select {
	case d.queue <- n:
		return true
	default:
		d.logger.Warn("notification queue full, dropping",
			zap.String("kind", string(n.Kind)), zap.String("to", n.To))
		d.recordFailure(n, fmt.Errorf("queue full"))
		return false
	}
}

// Start runs the workers until ctx is canceled. On shutdown each worker
// drains what is already queued, then Start returns once all have exited.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.logger.Info("notification dispatcher started",
		zap.Int("workers", d.cfg.Workers), zap.Int("queue_size", d.cfg.QueueSize))

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work(ctx)
	}
	d.wg.Wait()
	d.logger.Info("notification dispatcher stopped")
}

func (d *NotificationDispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.markStopped()
			d.drain()
			return
		case n := <-d.queue:
			d.send(n)
		}
	}
}

func (d *NotificationDispatcher) markStopped() {
	d.stateMu.Lock()
	d.stopped = true
	d.stateMu.Unlock()
}

func (d *NotificationDispatcher) drain() {
	for {
		select {
		case n := <-d.queue:
			d.send(n)
		default:
			return
		}
	}
}

func (d *NotificationDispatcher) send(n domain.Notification) {
	// Each send gets its own deadline so shutdown does not cut drains short.
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification sender panicked",
				zap.String("kind", string(n.Kind)), zap.Any("panic", r))
			d.recordFailure(n, fmt.Errorf("panic: %v", r))
		}
	}()

	err := d.sender.Send(ctx, port.EmailMessage{Kind: n.Kind, To: n.To, Variables: n.Variables})
	if err != nil {
		err = domain.NotificationFailed(err)
		d.logger.Error("notification send failed",
			zap.String("kind", string(n.Kind)), zap.String("to", n.To), zap.Error(err))
		d.recordFailure(n, err)
		return
	}
	d.logger.Debug("notification sent", zap.String("kind", string(n.Kind)), zap.String("to", n.To))
}

func (d *NotificationDispatcher) recordFailure(n domain.Notification, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures = append(d.failures, domain.NotificationFailure{
		Kind:     n.Kind,
		To:       n.To,
		Error:    err.Error(),
		FailedAt: time.Now().UTC(),
	})
	if limit := d.cfg.FailureLogSize; len(d.failures) > limit {
		d.failures = append([]domain.NotificationFailure(nil), d.failures[len(d.failures)-limit:]...)
	}
}

// Failures returns recorded failures, oldest first.
func (d *NotificationDispatcher) Failures() []domain.NotificationFailure {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.NotificationFailure, len(d.failures))
	copy(out, d.failures)
	return out
}
