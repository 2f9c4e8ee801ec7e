package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/cmdlib/internal/app"
	"github.com/atomicstack/cmdlib/internal/reference"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
	Debug   bool
}

const (
	envDBPath        = "CMDLIB_DB"
	envSeedPath      = "CMDLIB_SEED"
	envWatch         = "CMDLIB_WATCH"
	envPoll          = "CMDLIB_POLL"
	envWidth         = "CMDLIB_WIDTH"
	envHeight        = "CMDLIB_HEIGHT"
	envShowFooter    = "CMDLIB_FOOTER"
	envVerbose       = "CMDLIB_VERBOSE"
	envDebug         = "CMDLIB_DEBUG"
	envTrace         = "CMDLIB_TRACE"
	envLogFile       = "CMDLIB_LOG_FILE"
	envAnalyticsFile = "CMDLIB_ANALYTICS_FILE"
	envTheme         = "CMDLIB_THEME"
)

const defaultPoll = 1500 * time.Millisecond

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("cmdlib", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	db := fs.String("db", envOrDefault(env, envDBPath, ""), "path to the catalog database (default: user cache dir)")
	seed := fs.String("seed", envOrDefault(env, envSeedPath, ""), "YAML catalog to import at startup (default: bundled catalog when the database is empty)")
	watch := fs.Bool("watch", envOrBool(env, envWatch, false), "re-import the seed file whenever it changes")
	poll := fs.Duration("poll", envOrDuration(env, envPoll, defaultPoll), "interval between catalog revision checks")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions")
	debug := fs.Bool("debug", envOrBool(env, envDebug, false), "debug build behaviour: analytics events are dropped")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	analyticsFile := fs.String("analytics-file", envOrDefault(env, envAnalyticsFile, ""), "append analytics events to this JSONL file")
	themeName := fs.String("theme", envOrDefault(env, envTheme, reference.ThemeAuto), "reference page theme: auto, dark, light or notty")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			DBPath:        *db,
			SeedPath:      *seed,
			Watch:         *watch,
			PollInterval:  *poll,
			Width:         *width,
			Height:        *height,
			ShowFooter:    *footer,
			Verbose:       *verbose,
			Debug:         *debug,
			AnalyticsPath: *analyticsFile,
			Theme:         *themeName,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
			Debug:   *debug,
		},
		Flags: map[string]string{
			"db":            *db,
			"seed":          *seed,
			"watch":         strconv.FormatBool(*watch),
			"poll":          poll.String(),
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"footer":        strconv.FormatBool(*footer),
			"trace":         strconv.FormatBool(*trace),
			"verbose":       strconv.FormatBool(*verbose),
			"debug":         strconv.FormatBool(*debug),
			"logFile":       *logFile,
			"analyticsFile": *analyticsFile,
			"theme":         *themeName,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects values the application cannot run with.
func Validate(cfg Config) error {
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive (got %s)", cfg.App.PollInterval)
	}
	if !reference.ValidTheme(cfg.App.Theme) {
		return fmt.Errorf("unknown theme %q", cfg.App.Theme)
	}
	if cfg.App.Watch && strings.TrimSpace(cfg.App.SeedPath) == "" {
		return fmt.Errorf("-watch requires -seed")
	}
	return nil
}
