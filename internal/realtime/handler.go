package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/phrazzld/magicshop-api/internal/config"
	"github.com/phrazzld/magicshop-api/internal/events"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
)

// Snapshot is one message pushed to clients: the full current value of
// one kind of store data.
type Snapshot struct {
	Kind events.ChangeKind `json:"kind"`
	Data any               `json:"data"`
}

// SnapshotLoader loads the current data for the requested kinds, in the
// order requested.
type SnapshotLoader interface {
	LoadSnapshots(ctx context.Context, storeID uuid.UUID, kinds []events.ChangeKind) ([]Snapshot, error)
}

// Handler upgrades requests to websockets and streams snapshots.
type Handler struct {
	hub          *Hub
	loader       SnapshotLoader
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	writeTimeout time.Duration
	logger       *slog.Logger
}

// NewHandler creates a websocket handler. allowedOrigins lists browser
// origins permitted to connect; "*" allows any and empty allows
// same-origin only.
func NewHandler(
	hub *Hub,
	loader SnapshotLoader,
	cfg config.RealtimeConfig,
	allowedOrigins []string,
	logger *slog.Logger,
) (*Handler, error) {
	if hub == nil {
		return nil, errors.New("hub cannot be nil")
	}
	if loader == nil {
		return nil, errors.New("snapshot loader cannot be nil")
	}
	if cfg.PingInterval <= 0 || cfg.WriteTimeout <= 0 {
		return nil, fmt.Errorf("ping interval and write timeout must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:    hub,
		loader: loader,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		pingInterval: cfg.PingInterval,
		writeTimeout: cfg.WriteTimeout,
		logger:       logger.With(slog.String("component", "realtime_handler")),
	}, nil
}

// originChecker returns nil for an empty list, which leaves gorilla's
// same-origin check in place.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.ContainsFunc(allowed, func(a string) bool {
			return strings.EqualFold(strings.TrimRight(a, "/"), origin)
		})
	}
}

// Serve streams snapshots of storeID until the client disconnects. It
// pushes every kind first, then whichever kinds change.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, storeID uuid.UUID) {
	log := logger.FromContextOrDefault(r.Context(), h.logger).
		With(slog.String("store_id", storeID.String()))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := h.hub.Subscribe(storeID)
	defer h.hub.Unsubscribe(sub)

	done := h.readPump(conn)
	defer func() {
		_ = conn.Close()
		<-done
	}()

	if err := h.push(ctx, conn, storeID, events.Kinds); err != nil {
		h.fail(conn, log, err)
		return
	}

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			log.Debug("realtime client disconnected")
			return
		case <-ctx.Done():
			return
		case <-sub.Notify():
			kinds := sub.Drain()
			if len(kinds) == 0 {
				continue
			}
			if err := h.push(ctx, conn, storeID, kinds); err != nil {
				h.fail(conn, log, err)
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(h.writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Debug("ping failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

// readPump discards client messages and answers control frames. The
// returned channel closes when the connection fails or is closed.
func (h *Handler) readPump(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})
	pongWait := 2 * h.pingInterval

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}

func (h *Handler) push(ctx context.Context, conn *websocket.Conn, storeID uuid.UUID, kinds []events.ChangeKind) error {
	snapshots, err := h.loader.LoadSnapshots(ctx, storeID, kinds)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}
	for _, snap := range snapshots {
		if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
			return err
		}
		if err := conn.WriteJSON(snap); err != nil {
			return fmt.Errorf("write %s snapshot: %w", snap.Kind, err)
		}
	}
	return nil
}

func (h *Handler) fail(conn *websocket.Conn, log *slog.Logger, err error) {
	log.Warn("realtime stream stopped", slog.String("error", err.Error()))
	msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "snapshot unavailable")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.writeTimeout))
}
