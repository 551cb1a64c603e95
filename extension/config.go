package extension

import "time"

// Config holds the finledger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.finledger" or "finledger" keys).
type Config struct {
	// DisableRoutes prevents building the HTTP procedure handler.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableStart skips starting the engine (store ping and plugin init)
	// when the Forge app starts.
	DisableStart bool `json:"disable_start" mapstructure:"disable_start" yaml:"disable_start"`

	// BasePath is the URL prefix the procedure handler is mounted under
	// (default: "/finledger").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// ServiceName and Namespace are reported by the handler's service
	// description.
	ServiceName string `json:"service_name" mapstructure:"service_name" yaml:"service_name"`
	Namespace   string `json:"namespace" mapstructure:"namespace" yaml:"namespace"`

	// PluginTimeout bounds each plugin hook call (default: 5s).
	PluginTimeout time.Duration `json:"plugin_timeout" mapstructure:"plugin_timeout" yaml:"plugin_timeout"`

	// FXRates replaces the built-in FX table when non-empty.
	// Keys are "BASE/QUOTE", values decimal rates, e.g. "USD/EUR": "0.91".
	FXRates map[string]string `json:"fx_rates" mapstructure:"fx_rates" yaml:"fx_rates"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BasePath:      "/finledger",
		ServiceName:   "FinanceService",
		Namespace:     "http://myproject.com/finance",
		PluginTimeout: 5 * time.Second,
	}
}
