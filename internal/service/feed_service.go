package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/port"
)

// FeedQuery narrows what a live feed subscriber sees. Stats always cover
// every report.
type FeedQuery struct {
	Search   string
	Category string
}

// FeedSnapshot is one delivery to a live feed subscriber.
type FeedSnapshot struct {
	Reports []domain.Report    `json:"reports"`
	Stats   domain.ReportStats `json:"stats"`
}

// FeedService serves the live, newest-first report feed.
type FeedService interface {
	// Subscribe delivers a snapshot immediately and again after every
	// change to the reports collection.
	Subscribe(ctx context.Context, q FeedQuery) (*Subscription, error)
}

// Subscription is a live feed handle. A slow reader only ever sees the
// newest snapshot.
type Subscription struct {
	updates chan FeedSnapshot
	done    chan struct{}
	once    sync.Once
	release func()
}

// Updates returns the snapshot channel. It is closed once the subscription
// ends.
func (s *Subscription) Updates() <-chan FeedSnapshot {
	return s.updates
}

// Close ends the subscription and releases the underlying change
// subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		s.release()
	})
}

// offer replaces any undelivered snapshot with snap. Only the subscription
// goroutine sends, so the second send cannot block.
func (s *Subscription) offer(snap FeedSnapshot) {
	select {
	case s.updates <- snap:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	s.updates <- snap
}

type feedService struct {
	repo     port.ReportRepository
	notifier port.ChangeNotifier
	logger   *zap.Logger
}

// NewFeedService creates a new FeedService implementation.
func NewFeedService(repo port.ReportRepository, notifier port.ChangeNotifier, logger *zap.Logger) FeedService {
	return &feedService{repo: repo, notifier: notifier, logger: logger}
}

func (s *feedService) Subscribe(ctx context.Context, q FeedQuery) (*Subscription, error) {
	changes, release, err := s.notifier.Subscribe(ctx)
	if err != nil {
		return nil, domain.Persistence(err)
	}

	first, err := s.snapshot(ctx, q)
	if err != nil {
		release()
		return nil, err
	}

	sub := &Subscription{
		updates: make(chan FeedSnapshot, 1),
		done:    make(chan struct{}),
		release: release,
	}
	sub.updates <- first

	go func() {
		defer close(sub.updates)
		defer sub.Close()
		for {
			select {
			case <-sub.done:
				return
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				snap, err := s.snapshot(ctx, q)
				if err != nil {
					if ctx.Err() == nil {
						s.logger.Warn("feed refresh failed", zap.Error(err))
					}
					continue
				}
				sub.offer(snap)
			}
		}
	}()

	return sub, nil
}

func (s *feedService) snapshot(ctx context.Context, q FeedQuery) (FeedSnapshot, error) {
	all, err := s.repo.List(ctx, domain.ReportFilter{})
	if err != nil {
		return FeedSnapshot{}, domain.Persistence(err)
	}
	return FeedSnapshot{
		Reports: domain.FilterReports(all, q.Search, q.Category),
		Stats:   domain.ComputeStats(all),
	}, nil
}
