// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"path/filepath"

	"tailor-cli/internal/config"
	"tailor-cli/internal/hostenv"
	"tailor-cli/internal/state"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: all Cobra command handlers receive an App
	// reference and delegate work through its service interfaces.
	App struct {
		Config  ConfigProvider
		Host    HostService
		History HistoryOpener

		// cfg is the configuration loaded by the root command's
		// PersistentPreRunE; nil until a command runs under the root.
		cfg *config.Config
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests supply
	// fakes to run commands on hosts the real detector refuses.
	Dependencies struct {
		Config  ConfigProvider
		Host    HostService
		History HistoryOpener
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// HostService profiles the machine an install runs on.
	HostService interface {
		Detect(ctx context.Context) (*hostenv.Profile, error)
	}

	// HistoryStore is the persistence surface for install outcome records.
	// *state.Store satisfies it.
	HistoryStore interface {
		Path() string
		Load() ([]state.Record, error)
		Append(rec state.Record) (state.Record, error)
	}

	// HistoryOpener opens the record store backing a state file path.
	HistoryOpener interface {
		Open(path string) HistoryStore
	}

	// hostService is the production HostService backed by live detection.
	hostService struct{}

	// storeOpener is the production HistoryOpener returning file-backed stores.
	storeOpener struct{}
)

// NewApp creates an App with production defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Host == nil {
		deps.Host = hostService{}
	}
	if deps.History == nil {
		deps.History = storeOpener{}
	}

	return &App{
		Config:  deps.Config,
		Host:    deps.Host,
		History: deps.History,
	}
}

func (hostService) Detect(ctx context.Context) (*hostenv.Profile, error) {
	return hostenv.Detect(ctx)
}

func (storeOpener) Open(path string) HistoryStore {
	return state.NewStore(path)
}

// config returns the configuration loaded by the root command, or the
// built-in defaults when a command runs without the root wiring.
func (a *App) config() *config.Config {
	if a.cfg != nil {
		return a.cfg
	}
	return config.DefaultConfig()
}

// historyStore resolves the outcome record store for the active
// configuration: state_dir when set, the per-OS default location otherwise.
func (a *App) historyStore() (HistoryStore, error) {
	cfg := a.config()
	if cfg.StateDir != "" {
		return a.History.Open(filepath.Join(string(cfg.StateDir), state.FileName)), nil
	}

	path, err := state.DefaultPath()
	if err != nil {
		return nil, err
	}
	return a.History.Open(path), nil
}

// workRoot resolves the effective install working root: the --work-root
// flag beats the configured work_root, which beats the process working
// directory (the planner's own default).
func (a *App) workRoot(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return string(a.config().WorkRoot)
}
