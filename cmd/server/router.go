package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/magicshop-api/internal/api"
	apiMiddleware "github.com/phrazzld/magicshop-api/internal/api/middleware"
	"github.com/phrazzld/magicshop-api/internal/domain"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.NewMetricsMiddleware(app.metrics))

	authHandler := api.NewAuthHandler(app.authFlow, app.userService, app.config.Auth, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	itemHandler := api.NewItemHandler(app.itemService, app.logger)
	displayHandler := api.NewDisplayHandler(app.displayService, app.logger)
	settingsHandler := api.NewSettingsHandler(app.settingsService, app.logger)
	shopHandler := api.NewShopHandler(app.shopService, app.storefrontService, app.live, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Get("/auth/github/login", authHandler.Login)
		r.Get("/auth/github/callback", authHandler.Callback)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/storefront/{ref}", shopHandler.GetStorefront)

		// Browsers cannot set headers on a websocket upgrade.
		r.With(authMiddleware.AuthenticateQuery).Get("/live", shopHandler.Live)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)
			r.Get("/shop", shopHandler.GetShop)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", itemHandler.ListItems)
				r.Post("/", itemHandler.CreateItem)
				r.Post("/describe", itemHandler.DescribeItem)
				r.Post("/import", itemHandler.ImportItems)
				r.Get("/{id}", itemHandler.GetItem)
				r.Put("/{id}", itemHandler.UpdateItem)
				r.Delete("/{id}", itemHandler.DeleteItem)
				r.Post("/{id}/purchase", itemHandler.SetPurchased)
			})

			for _, surface := range []domain.Surface{domain.SurfaceFrontRoom, domain.SurfaceGachapon} {
				base := "/" + string(surface)
				r.Get(base, displayHandler.Current(surface))
				r.Put(base, displayHandler.Save(surface))
				r.Post(base+"/randomize", displayHandler.Randomize(surface))
				r.Post(base+"/restock", displayHandler.Restock(surface))
			}
			r.Post("/gachapon/spin", displayHandler.Spin)

			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.SaveSettings)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", app.metrics.Handler())

	return r
}
