// Command devapi serves an in-memory authentication API for local
// development of the form.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/authform/internal/devapi"
	"github.com/nfrund/authform/internal/logging"
)

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	seed := flag.Bool("seed", true, "create a demo account (demo@example.com / password123)")
	signingKey := flag.String("signing-key", os.Getenv("DEVAPI_SIGNING_KEY"), "HMAC key for access tokens (random when empty)")
	flag.Parse()

	logging.New()

	var opts []devapi.Option
	if *signingKey != "" {
		opts = append(opts, devapi.WithSigningKey([]byte(*signingKey)))
	}
	api := devapi.New(opts...)
	if *seed {
		if err := api.Seed("Demo", "demo@example.com", "password123"); err != nil {
			slog.Error("Failed to seed demo account", "error", err)
			os.Exit(1)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	api.Routes(e.Group(""))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting development API", "address", *addr)
		if err := e.Start(*addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Development API stopped", "error", err)
			stop()
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down", "error", err)
	}
}
