package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/magicshop-api/internal/events"
)

// ChangeChannel is the notification channel the change triggers publish on.
const ChangeChannel = "shop_changes"

// Listener holds a dedicated connection subscribed to ChangeChannel and
// forwards every notification to an event emitter.
type Listener struct {
	url        string
	emitter    events.EventEmitter
	logger     *slog.Logger
	minBackoff time.Duration
	maxBackoff time.Duration

	// OnReconnect, when set, is called before each reconnection attempt.
	OnReconnect func()
}

// NewListener creates a Listener for the database at url.
func NewListener(url string, emitter events.EventEmitter, logger *slog.Logger) *Listener {
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		url:        url,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "change_listener")),
		minBackoff: 500 * time.Millisecond,
		maxBackoff: 30 * time.Second,
	}
}

// Run listens until ctx is cancelled, reconnecting with capped exponential
// backoff whenever the connection fails. It returns ctx.Err() on shutdown.
func (l *Listener) Run(ctx context.Context) error {
	backoff := l.minBackoff
	for {
		connected, err := l.listen(ctx)
		if ctx.Err() != nil {
			l.logger.Info("change listener stopped")
			return ctx.Err()
		}
		if connected {
			backoff = l.minBackoff
		}

		l.logger.Warn("change listener disconnected",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, l.maxBackoff)
		if l.OnReconnect != nil {
			l.OnReconnect()
		}
	}
}

// listen runs one connection until it fails. connected reports whether
// LISTEN succeeded before the failure.
func (l *Listener) listen(ctx context.Context) (connected bool, err error) {
	conn, err := pgx.Connect(ctx, l.url)
	if err != nil {
		return false, fmt.Errorf("connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ChangeChannel}.Sanitize()); err != nil {
		return false, fmt.Errorf("listen: %w", err)
	}
	l.logger.Info("listening for store changes", slog.String("channel", ChangeChannel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return true, err
		}
		l.dispatch(ctx, n.Payload)
	}
}

// dispatch decodes one payload and emits it. Bad payloads and handler
// failures are logged and dropped.
func (l *Listener) dispatch(ctx context.Context, payload string) {
	event, err := events.DecodeChangeEvent(payload)
	if err != nil {
		l.logger.Warn("skipping undecodable notification",
			slog.String("error", err.Error()),
			slog.String("payload", payload))
		return
	}
	if err := l.emitter.EmitEvent(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		l.logger.Error("failed to emit change event",
			slog.String("error", err.Error()),
			slog.String("store_id", event.StoreID.String()),
			slog.String("kind", string(event.Kind)))
	}
}

func nextBackoff(current, limit time.Duration) time.Duration {
	return min(current*2, limit)
}
