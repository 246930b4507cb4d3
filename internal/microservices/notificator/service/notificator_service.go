package service

import (
	"context"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/domain"
	"ghost-kitchen/internal/store"
)

type NotificatorService struct {
	notifier store.Notifier
	lg       *logger.Logger
	// seen is called after each logged change; tests hook it
	seen func(domain.Change)
}

func NewNotificatorService(n store.Notifier) *NotificatorService {
	return &NotificatorService{notifier: n, lg: logger.New("notification-subscriber"), seen: func(domain.Change) {}}
}

// Notify logs every store change until ctx ends.
func (ns *NotificatorService) Notify(ctx context.Context) error {
	changes, err := ns.notifier.Subscribe(ctx)
	if err != nil {
		return err
	}
	ns.lg.Info("subscribed", nil)
	for ch := range changes {
		ns.lg.Info("change_received", map[string]any{
			"key":    ch.Key,
			"source": ch.Source,
			"at":     ch.At,
		})
		ns.seen(ch)
	}
	ns.lg.Info("unsubscribed", nil)
	return nil
}
