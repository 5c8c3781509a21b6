package directory

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ReloadListener subscribes to a redis channel and triggers a directory
// reload on every message. The configuration collaborator publishes to the
// channel whenever tenant configuration changes.
type ReloadListener struct {
	client   *redis.Client
	provider *Provider
	channel  string
	logger   *slog.Logger
}

// NewReloadListener wires a redis pub/sub subscription to a provider.
func NewReloadListener(client *redis.Client, provider *Provider, channel string, logger *slog.Logger) *ReloadListener {
	return &ReloadListener{client: client, provider: provider, channel: channel, logger: logger}
}

// Run blocks consuming reload notifications until ctx is cancelled. A failed
// reload keeps the previous snapshot and is logged, not fatal: the next
// notification retries with fresh configuration.
func (l *ReloadListener) Run(ctx context.Context) error {
	sub := l.client.Subscribe(ctx, l.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if l.logger != nil {
				l.logger.InfoContext(ctx, "reload notification received",
					"channel", msg.Channel,
					"payload", msg.Payload,
				)
			}
			if err := l.provider.Reload(ctx); err != nil && l.logger != nil {
				l.logger.ErrorContext(ctx, "notified reload failed", "error", err)
			}
		}
	}
}
