// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-zk-vault/internal/adapter"
	"github.com/MKhiriev/go-zk-vault/internal/app"
	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/internal/metrics"
	"github.com/MKhiriev/go-zk-vault/internal/service"
	"github.com/MKhiriev/go-zk-vault/internal/store"
	"github.com/MKhiriev/go-zk-vault/internal/utils"
	"github.com/MKhiriev/go-zk-vault/models"
)

// defaultLocalUser owns the bundles of a local store when --user is not set.
const defaultLocalUser int64 = 1

// App is the zkvault command line. It is built once per process; the
// services are connected by the root command before any subcommand runs.
type App struct {
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	prompter  Prompter
	clipboard Clipboard
	build     models.AppBuildInfo

	configPath string
	userID     int64

	cfg      *config.StructuredConfig
	log      *logger.Logger
	services *service.ClientServices
	closer   io.Closer
}

type Option func(*App)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in, a.out, a.errOut = in, &lockedWriter{w: out}, errOut
	}
}

func WithPrompter(p Prompter) Option {
	return func(a *App) {
		a.prompter = p
	}
}

func WithClipboard(c Clipboard) Option {
	return func(a *App) {
		a.clipboard = c
	}
}

func WithBuildInfo(info models.AppBuildInfo) Option {
	return func(a *App) {
		a.build = info
	}
}

func NewApp(opts ...Option) *App {
	a := &App{
		in:        os.Stdin,
		out:       &lockedWriter{w: os.Stdout},
		errOut:    os.Stderr,
		clipboard: systemClipboard{},
		build:     models.NewAppBuildInfo("", "", ""),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.prompter == nil {
		a.prompter = NewPrompter(a.in, a.errOut)
	}
	return a
}

// Execute runs the command line with args and prints a failure the way a
// user should read it.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	defer a.close()

	err := root.ExecuteContext(ctx)
	if err != nil {
		a.printError(err)
	}
	return err
}

// connect loads the configuration and builds the services for one user.
func (a *App) connect(cmd *cobra.Command) error {
	cfg, err := config.GetClientConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	a.cfg = cfg
	a.log = logger.NewClientLogger("zkvault", cfg.Log.Path, cfg.Log.Level)

	ctx := a.log.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	var storage store.BundleStorage
	userID := a.userID

	switch cfg.Adapter.Mode {
	case config.ModeRemote:
		tokenUser, err := utils.ParseUserIDFromJWT(cfg.Adapter.Token)
		if err != nil {
			return fmt.Errorf("%w: %v", adapter.ErrUnauthorized, err)
		}
		if userID == 0 {
			userID = tokenUser
		}
		if storage, err = adapter.NewHTTPBundleStorage(cfg.Adapter, a.log); err != nil {
			return fmt.Errorf("error creating bundle server adapter: %w", err)
		}
	default:
		if userID == 0 {
			userID = defaultLocalUser
		}
		storages, err := store.NewClientStorages(ctx, cfg.Storage, a.log)
		if err != nil {
			return fmt.Errorf("error opening local store: %w", err)
		}
		storage, a.closer = storages.BundleStorage, storages
	}

	a.log.Debug().Str("mode", cfg.Adapter.Mode).Int64("user_id", userID).Msg("client connected")
	a.services = service.NewClientServices(userID, storage, cfg, metrics.Nop(), a.log)
	return nil
}

func (a *App) close() {
	if a.services != nil {
		a.services.Vault.Lock()
	}
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.log.Err(err).Str("func", "*App.close").Msg("error closing local store")
		}
		a.closer = nil
	}
}

func (a *App) printError(err error) {
	msg := app.Describe(err)
	fmt.Fprintln(a.errOut, color.RedString("✗ ")+msg.Text)
	if msg.Hint != "" {
		fmt.Fprintln(a.errOut, color.CyanString("→ ")+msg.Hint)
	}
	if a.log != nil {
		a.log.Err(err).Str("func", "*App.Execute").Msg("command failed")
	}
}

// lockedWriter serializes writes from the command loop and the auto-lock
// worker.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

var errPasswordsDoNotMatch = errors.New(app.MsgPasswordsDoNotMatch)
var errEmptyInput = errors.New(app.MsgEmptyInput)
