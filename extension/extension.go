// Package extension provides the Forge extension adapter for finledger.
//
// It implements the forge.Extension interface to integrate the ledger
// engine into a Forge application with DI registration, lifecycle
// management and an optional HTTP procedure handler.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.finledger" or
// "finledger" keys.
package extension

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/finledger"
	"github.com/xraph/finledger/api"
	"github.com/xraph/finledger/fx"
	"github.com/xraph/finledger/store"
	"github.com/xraph/finledger/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "finledger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "In-memory accounting ledger engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts finledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *finledger.Ledger
	store      store.Store
	handler    http.Handler
	ledgerOpts []finledger.Option
}

// New creates a new finledger Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *finledger.Ledger { return e.engine }

// Handler returns the HTTP procedure handler, already prefixed with
// BasePath. It is nil until Register is called or when routes are disabled.
func (e *Extension) Handler() http.Handler { return e.handler }

// Register implements [forge.Extension]. It loads configuration,
// initializes the ledger engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if err := e.init(); err != nil {
		return err
	}

	return vessel.Provide(fapp.Container(), func() (*finledger.Ledger, error) {
		return e.engine, nil
	})
}

// init builds the engine and handler from the resolved config.
func (e *Extension) init() error {
	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	opts, err := e.buildLedgerOpts()
	if err != nil {
		return err
	}
	e.engine = finledger.New(e.store, opts...)

	if !e.config.DisableRoutes {
		h := api.New(e.engine, api.WithService(e.config.ServiceName, e.config.Namespace)).Routes()
		if base := strings.TrimSuffix(e.config.BasePath, "/"); base != "" {
			h = http.StripPrefix(base, h)
		}
		e.handler = h
	}
	return nil
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("finledger: extension not initialized")
	}

	if !e.config.DisableStart {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("finledger: engine not initialized")
	}
	return e.engine.Health(ctx)
}

// buildLedgerOpts constructs finledger.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() ([]finledger.Option, error) {
	opts := make([]finledger.Option, 0, len(e.ledgerOpts)+2)

	if e.config.PluginTimeout > 0 {
		opts = append(opts, finledger.WithPluginTimeout(e.config.PluginTimeout))
	}

	if len(e.config.FXRates) > 0 {
		table, err := fx.ParseTable(e.config.FXRates)
		if err != nil {
			return nil, fmt.Errorf("finledger: fx_rates: %w", err)
		}
		opts = append(opts, finledger.WithFXSource(table))
	}

	// Pass-through options are applied last so they win.
	opts = append(opts, e.ledgerOpts...)

	return opts, nil
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("finledger: configuration is required but not found in config files; " +
				"ensure 'extensions.finledger' or 'finledger' key exists in your config")
		}

		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("finledger: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_start", e.config.DisableStart),
		forge.F("base_path", e.config.BasePath),
		forge.F("plugin_timeout", e.config.PluginTimeout),
		forge.F("fx_pairs", len(e.config.FXRates)),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()

	for _, key := range []string{"extensions.finledger", "finledger"} {
		if !cm.IsSet(key) {
			continue
		}
		var cfg Config
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("finledger: loaded config from file",
				forge.F("key", key),
			)
			return cfg, true
		}
		e.Logger().Warn("finledger: failed to bind config",
			forge.F("key", key),
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.BasePath == "" {
		cfg.BasePath = defaults.BasePath
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaults.ServiceName
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaults.Namespace
	}
	if cfg.PluginTimeout == 0 {
		cfg.PluginTimeout = defaults.PluginTimeout
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableStart {
		yamlConfig.DisableStart = true
	}

	if yamlConfig.BasePath == "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}
	if yamlConfig.ServiceName == "" {
		yamlConfig.ServiceName = programmaticConfig.ServiceName
	}
	if yamlConfig.Namespace == "" {
		yamlConfig.Namespace = programmaticConfig.Namespace
	}
	if yamlConfig.PluginTimeout == 0 {
		yamlConfig.PluginTimeout = programmaticConfig.PluginTimeout
	}
	if len(yamlConfig.FXRates) == 0 {
		yamlConfig.FXRates = programmaticConfig.FXRates
	}

	return mergeWithDefaults(yamlConfig)
}
