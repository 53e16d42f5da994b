package workflow

import (
	"context"
	"sync"
	"visit-route-service/internal/domain"
	"visit-route-service/pkg/logging"
)

// LogNotifier writes notifications through the structured logger.
type LogNotifier struct {
	Logger *logging.Logger
}

func (n LogNotifier) Notify(ctx context.Context, note domain.Notification) {
	logger := n.Logger
	if logger == nil {
		logger = logging.Default()
	}
	args := []any{"title", note.Title, "body", note.Body}
	if note.Warning {
		args = append(args, "warning", true)
	}
	if note.Level == domain.LevelError {
		logger.ErrorContext(ctx, "notification", args...)
		return
	}
	logger.InfoContext(ctx, "notification", args...)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (r *Recorder) Notify(ctx context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *Recorder) All() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.items...)
}

// NotifierFunc adapts a function to ports.Notifier.
type NotifierFunc func(ctx context.Context, n domain.Notification)

func (f NotifierFunc) Notify(ctx context.Context, n domain.Notification) { f(ctx, n) }
