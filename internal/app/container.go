// Package app wires the application's services together.
package app

import (
	"fmt"
	"log/slog"

	"github.com/nfrund/authform/internal/apiclient"
	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/diagnostics"
	"github.com/nfrund/authform/internal/formsession"
	"github.com/nfrund/authform/internal/handlers"
	"github.com/nfrund/authform/internal/i18n"
	"github.com/nfrund/authform/internal/pubsub"
	"github.com/nfrund/authform/internal/rendering"
	"github.com/nfrund/authform/internal/server"
	"github.com/nfrund/authform/internal/storage"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
)

// NewInjector registers every service of the application. Services are
// built lazily on first invocation, so the CLI only pays for what it uses.
func NewInjector(cfg *config.Config, fs afero.Fs) do.Injector {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.ProvideValue(i, fs)

	do.Provide(i, newCatalog)
	do.Provide(i, newBus)
	do.Provide(i, newReporter)
	do.Provide(i, newFormSessions)
	do.Provide(i, newAPIClient)
	do.Provide(i, newRenderer)
	do.Provide(i, newFileStore)
	do.Provide(i, newServer)

	return i
}

func newCatalog(i do.Injector) (*i18n.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	catalog := i18n.New(do.MustInvoke[afero.Fs](i), cfg.Lang)
	if cfg.MessagesFile != "" {
		if err := catalog.Load(cfg.MessagesFile); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func newBus(i do.Injector) (*pubsub.WatermillBridge, error) {
	return pubsub.NewWatermillBridge(), nil
}

func newReporter(i do.Injector) (*diagnostics.Reporter, error) {
	return diagnostics.NewReporter(do.MustInvoke[*pubsub.WatermillBridge](i)), nil
}

func newFormSessions(i do.Injector) (*formsession.Service, error) {
	return formsession.NewService(), nil
}

func newAPIClient(i do.Injector) (*apiclient.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.APITimeout)), nil
}

func newRenderer(i do.Injector) (*rendering.UniversalRenderer, error) {
	return rendering.NewUniversalRenderer(), nil
}

func newFileStore(i do.Injector) (*storage.FileStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("no credentials file configured")
	}
	return storage.NewFileStore(do.MustInvoke[afero.Fs](i), cfg.CredentialsFile), nil
}

func newServer(i do.Injector) (*server.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if err := cfg.RequireSessionSecret(); err != nil {
		return nil, err
	}

	catalog, err := do.Invoke[*i18n.Catalog](i)
	if err != nil {
		return nil, err
	}
	renderer := do.MustInvoke[*rendering.UniversalRenderer](i)

	formHandler := handlers.NewFormHandler(handlers.FormDependencies{
		Sessions: do.MustInvoke[*formsession.Service](i),
		API:      do.MustInvoke[*apiclient.Client](i),
		Catalog:  catalog,
		Reporter: do.MustInvoke[*diagnostics.Reporter](i),
		Renderer: renderer,
	})

	return server.New(server.Dependencies{
		SessionSecret: cfg.SessionSecret,
		FormHandler:   formHandler,
		HomeHandler:   handlers.NewHomeHandler(catalog),
		Renderer:      renderer,
	}), nil
}

// Close stops the background services that were started.
func Close(i do.Injector) {
	if svc, err := do.Invoke[*formsession.Service](i); err == nil {
		svc.Shutdown()
	}
	if bus, err := do.Invoke[*pubsub.WatermillBridge](i); err == nil {
		if err := bus.Close(); err != nil {
			slog.Error("Failed to close event bus", "error", err)
		}
	}
}
