package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/billbook/billbook/internal/config"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, store, router, and server lifecycle.
type Application struct {
	cfg   config.Application
	deps  *Dependencies
	store *Store
	srv   *http.Server
}

// NewApplication loads the configuration and constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}
	return NewApplicationWithConfig(context.Background(), cfg)
}

func NewApplicationWithConfig(ctx context.Context, cfg config.Application) (*Application, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	deps := BuildDependencies(store, cfg)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      SetupMiddleware(r, cfg),
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, store: store, srv: srv}, nil
}

// Handler exposes the fully wrapped HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.srv.Handler
}

// Run starts the HTTP server and blocks until it fails or the process is interrupted.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s (store: %s)", a.srv.Addr, a.cfg.Store.Backend)
		errs <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}

func (a *Application) Close() {
	a.deps.Close()
	a.store.Close()
}
