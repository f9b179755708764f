package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/api"
	"github.com/phrazzld/magicshop-api/internal/config"
	"github.com/phrazzld/magicshop-api/internal/domain/stocking"
	"github.com/phrazzld/magicshop-api/internal/events"
	"github.com/phrazzld/magicshop-api/internal/platform/gemini"
	"github.com/phrazzld/magicshop-api/internal/platform/markdown"
	"github.com/phrazzld/magicshop-api/internal/platform/metrics"
	"github.com/phrazzld/magicshop-api/internal/platform/postgres"
	"github.com/phrazzld/magicshop-api/internal/realtime"
	"github.com/phrazzld/magicshop-api/internal/service"
	"github.com/phrazzld/magicshop-api/internal/service/auth"
)

// tokenPurger removes expired entries from the revoked token list.
type tokenPurger interface {
	PurgeRevoked(ctx context.Context) (int64, error)
}

// application holds the shared dependencies of the server and ensures
// they are released on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	// Services
	jwtService        auth.JWTService
	authFlow          api.AuthFlow
	tokenPurger       tokenPurger
	userService       service.UserService
	itemService       service.ItemService
	displayService    service.DisplayService
	settingsService   service.SettingsService
	shopService       service.ShopService
	storefrontService service.StorefrontService

	// Change propagation
	listener *postgres.Listener
	live     api.LiveServer
}

// newApplication wires stores, services and the change pipeline on top of
// an open database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	// Stores
	userStore := postgres.NewPostgresUserStore(db, logger)
	itemStore := postgres.NewPostgresItemStore(db, logger)
	displayStore := postgres.NewPostgresDisplayStore(db, logger)
	settingsStore := postgres.NewPostgresSettingsStore(db, logger)
	tokenStore := postgres.NewPostgresTokenStore(db, logger)

	drafter, err := newDrafter(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	stock, err := stocking.NewServiceWithParams(stocking.NewParams(stocking.ParamsConfig{
		Common:    cfg.Shop.Quotas.Common,
		Uncommon:  cfg.Shop.Quotas.Uncommon,
		Rare:      cfg.Shop.Quotas.Rare,
		VeryRare:  cfg.Shop.Quotas.VeryRare,
		Legendary: cfg.Shop.Quotas.Legendary,
		Gachapon:  cfg.Shop.Quotas.Gachapon,
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stocking service: %w", err)
	}

	aliases, err := parseStoreAliases(cfg.Shop.StoreAliases)
	if err != nil {
		return nil, err
	}

	if app.userService, err = service.NewUserService(userStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	if app.itemService, err = service.NewItemService(itemStore, db, drafter, logger); err != nil {
		return nil, fmt.Errorf("failed to create item service: %w", err)
	}
	if app.displayService, err = service.NewDisplayService(
		itemStore, displayStore, stock, app.metrics, logger,
	); err != nil {
		return nil, fmt.Errorf("failed to create display service: %w", err)
	}
	if app.settingsService, err = service.NewSettingsService(settingsStore, logger); err != nil {
		return nil, fmt.Errorf("failed to create settings service: %w", err)
	}
	if app.shopService, err = service.NewShopService(
		app.itemService, app.displayService, app.settingsService, logger,
	); err != nil {
		return nil, fmt.Errorf("failed to create shop service: %w", err)
	}
	if app.storefrontService, err = service.NewStorefrontService(
		userStore, settingsStore, app.displayService, markdown.NewRenderer(), aliases, logger,
	); err != nil {
		return nil, fmt.Errorf("failed to create storefront service: %w", err)
	}

	// Authentication
	if app.jwtService, err = auth.NewJWTService(cfg.Auth); err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	authService, err := auth.NewService(
		auth.NewGitHubProvider(cfg.GitHub),
		auth.NewStateSealer(cfg.Auth.JWTSecret, auth.StateLifetime),
		app.jwtService,
		app.userService,
		tokenStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	app.authFlow = authService
	app.tokenPurger = authService
	logger.Info("authentication initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	// Database notifications fan out to websocket subscribers.
	hub := realtime.NewHub(app.metrics, logger)
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(hub)

	app.listener = postgres.NewListener(cfg.Database.URL, emitter, logger)
	app.listener.OnReconnect = app.metrics.ListenerReconnected

	live, err := realtime.NewHandler(
		hub, api.NewShopSnapshots(app.shopService), cfg.Realtime, cfg.Server.AllowedOrigins, logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create realtime handler: %w", err)
	}
	app.live = live

	logger.Info("application initialized")
	return app, nil
}

// newDrafter returns nil when no API key is configured, leaving
// description drafting disabled.
func newDrafter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (service.DescriptionDrafter, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Info("description drafting disabled")
		return nil, nil
	}
	drafter, err := gemini.NewGeminiDrafter(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize description drafter: %w", err)
	}
	logger.Info("description drafting enabled", slog.String("model", cfg.ModelName))
	return drafter, nil
}

func parseStoreAliases(raw map[string]string) (map[string]uuid.UUID, error) {
	aliases := make(map[string]uuid.UUID, len(raw))
	for name, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("store alias %q: %w", name, err)
		}
		aliases[name] = id
	}
	return aliases, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
