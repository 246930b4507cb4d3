package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/domain"
)

// PGChangeChannel is the LISTEN/NOTIFY channel for store changes.
const PGChangeChannel = "store_changes"

// PGStore keeps every key as one row of kv_store.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore { return &PGStore{pool: pool} }

func (p *PGStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return v, true, nil
}

func (p *PGStore) Set(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// PGNotifier broadcasts changes with pg_notify and listens on a dedicated
// pooled connection per subscriber.
type PGNotifier struct {
	pool *pgxpool.Pool
	lg   *logger.Logger
}

func NewPGNotifier(pool *pgxpool.Pool) *PGNotifier {
	return &PGNotifier{pool: pool, lg: logger.New("store-postgres")}
}

func (p *PGNotifier) Notify(ctx context.Context, ch domain.Change) error {
	b, err := encodeChange(ch)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, PGChangeChannel, string(b)); err != nil {
		return fmt.Errorf("pg_notify: %w", err)
	}
	return nil
}

func (p *PGNotifier) Subscribe(ctx context.Context) (<-chan domain.Change, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen conn: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+PGChangeChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen: %w", err)
	}

	out := make(chan domain.Change, subscriberBuffer)
	go func() {
		defer close(out)
		// the session still holds LISTEN state, so it must not go back to the pool
		defer func() { _ = conn.Hijack().Close(context.Background()) }()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					p.lg.Warn("listen_failed", err, nil)
				}
				return
			}
			ch, err := decodeChange([]byte(n.Payload))
			if err != nil {
				p.lg.Warn("change_decode_failed", err, map[string]any{"payload": n.Payload})
				continue
			}
			select {
			case out <- ch:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
