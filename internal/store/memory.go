package store

import (
	"context"
	"sync"

	"ghost-kitchen/internal/domain"
)

const subscriberBuffer = 16

// Memory is a process-local Store and Notifier.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string

	subMu sync.Mutex
	subs  map[chan domain.Change]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]string),
		subs: make(map[chan domain.Change]struct{}),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Notify never blocks: a subscriber with a full buffer misses the change and
// catches up on its next poll.
func (m *Memory) Notify(_ context.Context, ch domain.Change) error {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for sub := range m.subs {
		select {
		case sub <- ch:
		default:
		}
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context) (<-chan domain.Change, error) {
	sub := make(chan domain.Change, subscriberBuffer)
	m.subMu.Lock()
	m.subs[sub] = struct{}{}
	m.subMu.Unlock()

	go func() {
		<-ctx.Done()
		m.subMu.Lock()
		delete(m.subs, sub)
		close(sub)
		m.subMu.Unlock()
	}()
	return sub, nil
}
