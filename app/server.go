package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelofallars/ticketprice/internal/service"
)

type App struct {
	host     string
	port     int
	apiToken string

	slog   *slog.Logger
	router chi.Router
	routes sync.Once

	svcPricing service.Pricing
}

func New(slog *slog.Logger, svcPricing service.Pricing) *App {
	return &App{
		host: "localhost",
		port: 3000,

		router: chi.NewRouter(),
		slog:   slog,

		svcPricing: svcPricing,
	}
}

func (a *App) WithHost(host string) *App {
	a.host = host
	return a
}

func (a *App) WithPort(port uint) *App {
	a.port = int(port)
	return a
}

// WithAPIToken requires token on every pricing endpoint.
func (a *App) WithAPIToken(token string) *App {
	a.apiToken = token
	return a
}

// Handler registers the routes on first use and returns the root handler.
func (a *App) Handler() http.Handler {
	a.RegisterRoutes()
	return a.router
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	server := http.Server{
		Addr:    addr,
		Handler: a.Handler(),

		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.slog.Info("server started listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.slog.Info("server shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
