package ports

import (
	"context"
	"visit-route-service/internal/domain"
)

// Notifier delivers user-visible notifications.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}
