package store

import (
	"context"

	"ghost-kitchen/internal/common/logger"
	"ghost-kitchen/internal/connections/rabbitmq"
	"ghost-kitchen/internal/domain"
)

// AMQPNotifier publishes changes to the notifications fanout exchange; each
// subscriber gets its own exclusive queue.
type AMQPNotifier struct {
	client *rabbitmq.Client
	lg     *logger.Logger
}

func NewAMQPNotifier(client *rabbitmq.Client) *AMQPNotifier {
	return &AMQPNotifier{client: client, lg: logger.New("store-amqp")}
}

func (a *AMQPNotifier) Notify(ctx context.Context, ch domain.Change) error {
	b, err := encodeChange(ch)
	if err != nil {
		return err
	}
	return a.client.Publish(ctx, rabbitmq.NotificationsExchange, "", b)
}

func (a *AMQPNotifier) Subscribe(ctx context.Context) (<-chan domain.Change, error) {
	msgs, err := a.client.ConsumeFanout(ctx, rabbitmq.NotificationsExchange)
	if err != nil {
		return nil, err
	}
	out := make(chan domain.Change, subscriberBuffer)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				ch, err := decodeChange(d.Body)
				if err != nil {
					a.lg.Warn("change_decode_failed", err, map[string]any{"payload": string(d.Body)})
					continue
				}
				select {
				case out <- ch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
