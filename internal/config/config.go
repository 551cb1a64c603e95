// Package config loads the daemon's settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/xraph/finledger/fx"
)

// Config holds the daemon settings. Every key is read from LEDGER_<KEY>.
type Config struct {
	Host            string        `mapstructure:"HOST"`
	Port            string        `mapstructure:"PORT"`
	ServiceName     string        `mapstructure:"SERVICE_NAME"`
	Namespace       string        `mapstructure:"NAMESPACE"`
	AppName         string        `mapstructure:"APP_NAME"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	CORSOrigins     string        `mapstructure:"CORS_ORIGINS"`
	FXRates         string        `mapstructure:"FX_RATES"`
	PluginTimeout   time.Duration `mapstructure:"PLUGIN_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var keys = []string{
	"HOST", "PORT", "SERVICE_NAME", "NAMESPACE", "APP_NAME", "LOG_LEVEL",
	"CORS_ORIGINS", "FX_RATES", "PLUGIN_TIMEOUT", "SHUTDOWN_TIMEOUT",
}

// Load reads configuration from LEDGER_* environment variables, falling
// back to defaults. A .env file in path, if present, fills variables that
// are not already set in the environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read %s/.env: %w", path, err)
	}

	v := viper.New()
	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()

	v.SetDefault("HOST", "127.0.0.1")
	v.SetDefault("PORT", "8000")
	v.SetDefault("SERVICE_NAME", "FinanceService")
	v.SetDefault("NAMESPACE", "http://myproject.com/finance")
	v.SetDefault("APP_NAME", "finledger")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("FX_RATES", "")
	v.SetDefault("PLUGIN_TIMEOUT", 5*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	for _, k := range keys {
		_ = v.BindEnv(k) //nolint:errcheck // only fails without a key
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Port = strings.TrimSpace(cfg.Port)
	if _, err := cfg.FXTable(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Addr returns host:port for the HTTP listener.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Origins splits CORSOrigins on commas.
func (c Config) Origins() []string {
	return splitList(c.CORSOrigins)
}

// FXTable parses FXRates ("USD/EUR=0.91,EUR/USD=1.10"). It returns a nil
// table when no rates are configured.
func (c Config) FXTable() (fx.Table, error) {
	entries := splitList(c.FXRates)
	if len(entries) == 0 {
		return nil, nil
	}

	rates := make(map[string]string, len(entries))
	for _, e := range entries {
		pair, rate, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("config: FX_RATES entry %q: want BASE/QUOTE=rate", e)
		}
		pair = strings.TrimSpace(pair)
		if _, dup := rates[pair]; dup {
			return nil, fmt.Errorf("config: FX_RATES: duplicate pair %q", pair)
		}
		rates[pair] = strings.TrimSpace(rate)
	}

	t, err := fx.ParseTable(rates)
	if err != nil {
		return nil, fmt.Errorf("config: FX_RATES: %w", err)
	}
	return t, nil
}

// Level maps LogLevel to a slog level, defaulting to Info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
