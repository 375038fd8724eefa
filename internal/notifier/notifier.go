package notifier

import (
	"context"

	"arxiv-alert/internal/feed"
)

// Notifier delivers a batch of matched papers to some destination.
// Calling Notify with an empty batch is a no-op.
type Notifier interface {
	Notify(ctx context.Context, papers []feed.Paper) error
}
