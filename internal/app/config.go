package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/raysh454/apicli/internal/cli"
	"github.com/raysh454/apicli/internal/logging"
	"github.com/raysh454/apicli/internal/telemetry"
)

// Environment keys read by LoadConfig.
const (
	EnvLogLevel      = "APICLI_LOG_LEVEL"
	EnvLogFormat     = "APICLI_LOG_FORMAT"
	EnvBannerText    = "APICLI_BANNER_TEXT"
	EnvBannerFont    = "APICLI_BANNER_FONT"
	EnvNewRelicKey   = "NEW_RELIC_LICENSE_KEY"
	EnvNewRelicApp   = "NEW_RELIC_APP_NAME"
	DefaultEnvFile   = ".env"
	defaultBanner    = "API Tester"
	defaultUserAgent = cli.ProgramName + "/"
)

// Config configures the tool itself. It is built once at startup and handed
// to the components; request parameters never come from here.
type Config struct {
	LogLevel  string
	LogFormat logging.Format

	BannerText string
	BannerFont string

	UserAgent string

	Telemetry telemetry.Config
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "warn",
		LogFormat:  logging.FormatConsole,
		BannerText: defaultBanner,
		UserAgent:  defaultUserAgent + cli.Version,
		Telemetry: telemetry.Config{
			AppName:         cli.ProgramName,
			ConnectTimeout:  5 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// LoadConfig applies an optional dotenv file and then the process
// environment (which wins) on top of DefaultConfig. A missing envFile is not
// an error.
func LoadConfig(envFile string) (*Config, error) {
	fileVals := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVals = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	return ConfigFromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	})
}

// ConfigFromLookup builds a Config from an environment lookup function.
func ConfigFromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()

	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogFormat); ok && strings.TrimSpace(v) != "" {
		switch f := logging.Format(strings.ToLower(strings.TrimSpace(v))); f {
		case logging.FormatConsole, logging.FormatJSON:
			cfg.LogFormat = f
		default:
			return nil, fmt.Errorf("%s: unknown log format %q (want console or json)", EnvLogFormat, v)
		}
	}
	if v, ok := lookup(EnvBannerText); ok && v != "" {
		cfg.BannerText = v
	}
	if v, ok := lookup(EnvBannerFont); ok {
		cfg.BannerFont = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvNewRelicKey); ok {
		cfg.Telemetry.License = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvNewRelicApp); ok && strings.TrimSpace(v) != "" {
		cfg.Telemetry.AppName = strings.TrimSpace(v)
	}

	return cfg, nil
}
