package app

import (
	"github.com/go-chi/chi/v5/middleware"

	"github.com/angelofallars/ticketprice/app/route/price"
)

// RegisterRoutes mounts the middleware and routes. Later calls are no-ops,
// so options must be set before the first call.
func (a *App) RegisterRoutes() {
	a.routes.Do(func() {
		a.router.Use(middleware.RequestID)
		a.router.Use(middleware.RealIP)
		a.router.Use(middleware.Logger)
		a.router.Use(middleware.Recoverer)

		price.NewHandlerGroup(a.svcPricing, a.apiToken, a.slog).Mount(a.router)
	})
}
