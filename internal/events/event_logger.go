package events

import (
	"context"
	"log/slog"
)

// LogEvent writes evt to logger at a level derived from its type.
func LogEvent(ctx context.Context, logger *slog.Logger, evt ProgressEvent) {
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelDebug
	switch evt.Type {
	case EventError:
		level = slog.LevelError
	case EventFinished:
		level = slog.LevelInfo
	case EventProgress:
		if p, ok := evt.Payload.(ProgressPayload); ok && p.Error != "" {
			level = slog.LevelWarn
		}
	}
	logger.LogAttrs(ctx, level, "progress event",
		slog.String("session", evt.SessionID),
		slog.String("type", string(evt.Type)),
		slog.String("event_id", evt.EventID),
		slog.Any("payload", evt.Payload),
	)
}
