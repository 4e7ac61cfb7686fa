package port

import (
	"context"

	"lostfound/internal/domain"
)

// ChangeNotifier fans report changes out to live feed subscribers.
type ChangeNotifier interface {
	Publish(ctx context.Context, change domain.ReportChange) error
	// Subscribe returns a channel of changes and a cancel func that
	// releases the subscription. The channel is closed after cancel or
	// when ctx is done.
	Subscribe(ctx context.Context) (<-chan domain.ReportChange, func(), error)
}
