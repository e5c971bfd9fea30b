package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/authform/internal/app"
	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/diagnostics"
	"github.com/nfrund/authform/internal/i18n"
	"github.com/nfrund/authform/internal/logging"
	"github.com/nfrund/authform/internal/pubsub"
	"github.com/nfrund/authform/internal/server"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
)

func main() {
	// Load reads .env first so LOG_FORMAT and LOG_LEVEL can come from it.
	cfg, err := config.Load()
	logger := logging.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	injector := app.NewInjector(cfg, afero.NewOsFs())
	defer app.Close(injector)

	s, err := do.Invoke[*server.Server](injector)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	bus := do.MustInvoke[*pubsub.WatermillBridge](injector)
	if err := diagnostics.Listen(ctx, bus, logger); err != nil {
		slog.Error("Failed to subscribe to diagnostics", "error", err)
	}

	if cfg.MessagesFile != "" {
		catalog := do.MustInvoke[*i18n.Catalog](injector)
		if err := catalog.Watch(ctx, cfg.MessagesFile); err != nil {
			slog.Error("Failed to watch messages file", "path", cfg.MessagesFile, "error", err)
		}
	}

	if err := s.Start(ctx, cfg.AppAddr); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
