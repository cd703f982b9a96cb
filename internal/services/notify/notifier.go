package notify

import (
	"context"
	"log/slog"

	"github.com/kringleapp/kringle/internal/model"
)

// Notifier is informed once match generation completes. Calls are
// fire-and-forget: the match controller does not await them and their
// failure never affects generation.
type Notifier interface {
	MatchesGenerated(ctx context.Context, event *model.Event, assignments int)
}

// LogNotifier logs generation events; a delivery integration (email, chat)
// can replace it without touching the controller.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that writes to the given logger
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

var _ Notifier = (*LogNotifier)(nil)

// MatchesGenerated logs that matches are ready for an event
func (n *LogNotifier) MatchesGenerated(ctx context.Context, event *model.Event, assignments int) {
	n.logger.Info("matches generated, participants can reveal",
		slog.String("event_id", string(event.ID)),
		slog.String("event_name", event.Name),
		slog.Int("assignments", assignments),
	)
}
