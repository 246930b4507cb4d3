// Package store is the shared key-value persistence every component reads
// and writes: a text store plus a change broadcast.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"ghost-kitchen/internal/domain"
)

const (
	KeyClients      = "clients"
	KeyOrders       = "orders"
	KeyMascotImage  = "mascot_image"
	activeKeyPrefix = "active_client:"
)

// ActiveClientKey scopes the active-client pointer to a browsing session.
func ActiveClientKey(sessionID string) string { return activeKeyPrefix + sessionID }

type Store interface {
	// Get reports ok=false for a missing key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type Notifier interface {
	Notify(ctx context.Context, ch domain.Change) error
	// Subscribe delivers changes until ctx is done, then closes the channel.
	Subscribe(ctx context.Context) (<-chan domain.Change, error)
}

func encodeChange(ch domain.Change) ([]byte, error) {
	b, err := json.Marshal(ch)
	if err != nil {
		return nil, fmt.Errorf("marshal change: %w", err)
	}
	return b, nil
}

func decodeChange(b []byte) (domain.Change, error) {
	var ch domain.Change
	if err := json.Unmarshal(b, &ch); err != nil {
		return domain.Change{}, fmt.Errorf("unmarshal change: %w", err)
	}
	return ch, nil
}
