package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nfrund/authform/internal/apiclient"
	"github.com/nfrund/authform/internal/app"
	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/i18n"
	"github.com/nfrund/authform/internal/logging"
	"github.com/nfrund/authform/internal/storage"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
)

// environment is what a command needs to run the form.
type environment struct {
	api     form.APIClient
	store   storage.Store
	printer form.Printer
}

// loadEnvironment reads the configuration and builds the services.
func loadEnvironment() (environment, func(), error) {
	cfg, err := config.Load()
	logging.New()
	if err != nil {
		return environment{}, nil, err
	}

	injector := app.NewInjector(cfg, afero.NewOsFs())
	cleanup := func() { app.Close(injector) }

	catalog, err := do.Invoke[*i18n.Catalog](injector)
	if err != nil {
		cleanup()
		return environment{}, nil, err
	}
	store, err := do.Invoke[*storage.FileStore](injector)
	if err != nil {
		cleanup()
		return environment{}, nil, err
	}

	return environment{
		api:     do.MustInvoke[*apiclient.Client](injector),
		store:   store,
		printer: catalog.Printer(cfg.Lang),
	}, cleanup, nil
}

// submit runs the form held by h and reports the outcome on out. The error
// text is the message the form would show.
func submit(ctx context.Context, out io.Writer, env environment, h *form.Holder) error {
	ctrl := form.NewController(form.Dependencies{
		API:     env.api,
		Storage: env.store,
		Printer: env.printer,
		OnToken: func(string) {
			name, _ := env.store.Get(form.KeyName)
			fmt.Fprintln(out, env.printer.Sprintf(i18n.MsgWelcome, name))
		},
	})

	s := ctrl.Submit(ctx, h)
	if s.ErrorMsg != "" {
		return errors.New(s.ErrorMsg)
	}
	if s.SuccessMsg != "" {
		fmt.Fprintln(out, s.SuccessMsg)
	}
	return nil
}
