// Package app initializes and runs the application: configuration, logging,
// the in-memory stores, session handling, routing, and graceful shutdown.
package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tinyapp/internal/config"
	"tinyapp/internal/identitystore"
	"tinyapp/internal/ipchecker"
	"tinyapp/internal/linkstore"
	"tinyapp/internal/logger"
	"tinyapp/internal/router"
	"tinyapp/internal/service"
	"tinyapp/internal/session"
)

// App encapsulates the configuration and the HTTP handler of the URL
// shortener service.
type App struct {
	cfg         *config.Config
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing the logger
// - creating the in-memory identity and link stores
// - setting up sessions, the service layer and the router
func New() (*App, error) {
	app := &App{}

	var err error
	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(app.cfg.LogLevel); err != nil {
		return nil, err
	}

	sessionSigningKey, err := base64.URLEncoding.DecodeString(app.cfg.SessionSigningKey)
	if err != nil {
		return nil, fmt.Errorf("decoding the session signing key: %w", err)
	}

	users := identitystore.New()
	links := linkstore.New()

	svc := service.New(users, links, app.cfg.ShortURLBase)

	sessions := session.New(
		users,
		app.cfg.SessionCookieName,
		app.cfg.VisitorCookieName,
		sessionSigningKey,
	)

	statsIPChecker, err := ipchecker.New(app.cfg.TrustedSubnet)
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(svc, sessions, statsIPChecker)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support. The stores are
// process memory only, so nothing is persisted on exit.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal, exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return nil

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}
