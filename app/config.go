package app

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"

	"csgview/internal/telemetry"
)

// CommandPlay replays a session file and exits.
const CommandPlay = "play"

// Config holds viewer configuration. Environment variables provide defaults;
// flags override them.
type Config struct {
	Headless bool   `env:"CSGVIEW_HEADLESS"`
	Hz       int    `env:"CSGVIEW_HZ"             envDefault:"60"`
	Ticks    uint64 `env:"CSGVIEW_TICKS"`
	Width    int    `env:"CSGVIEW_WIDTH"          envDefault:"480"`
	Height   int    `env:"CSGVIEW_HEIGHT"         envDefault:"360"`
	Scale    int    `env:"CSGVIEW_SCALE"          envDefault:"2"`

	MaxWorkers   int    `env:"CSGVIEW_MAX_WORKERS"    envDefault:"2"`
	GatePlayback bool   `env:"CSGVIEW_GATE_PLAYBACK"`
	StrictLog    bool   `env:"CSGVIEW_STRICT_LOG"`
	RecordPath   string `env:"CSGVIEW_RECORD_PATH"    envDefault:"session.events"`
	ModelPath    string `env:"CSGVIEW_MODEL_PATH"`

	OTelEndpoint string `env:"CSGVIEW_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"CSGVIEW_OTEL_ENABLED"   envDefault:"true"`

	// Positional: <command> <path>.
	Command string
	Path    string
}

// ParseConfig reads the environment, then flags and positional arguments.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Run without a window.")
	fs.IntVar(&cfg.Hz, "hz", cfg.Hz, "Tick rate in headless mode.")
	fs.Uint64Var(&cfg.Ticks, "ticks", cfg.Ticks, "Stop after N ticks in headless mode (0 = run forever).")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Framebuffer width.")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Framebuffer height.")
	fs.IntVar(&cfg.Scale, "scale", cfg.Scale, "Window scale factor.")
	fs.IntVar(&cfg.MaxWorkers, "max-workers", cfg.MaxWorkers, "Concurrent background jobs.")
	fs.BoolVar(&cfg.GatePlayback, "gate-playback", cfg.GatePlayback, "Start replay only after the model has loaded.")
	fs.BoolVar(&cfg.StrictLog, "strict-log", cfg.StrictLog, "Reject session files with malformed event lines.")
	fs.StringVar(&cfg.RecordPath, "record", cfg.RecordPath, "Session file written when recording stops (F1).")
	fs.StringVar(&cfg.ModelPath, "model", cfg.ModelPath, "Model opened with F2.")
	fs.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP/HTTP endpoint URL for job traces (empty = off).")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if rest := fs.Args(); len(rest) >= 2 {
		cfg.Command, cfg.Path = rest[0], rest[1]
	}
	if cfg.MaxWorkers <= 0 {
		return Config{}, fmt.Errorf("max-workers must be positive, got %d", cfg.MaxWorkers)
	}
	return cfg, nil
}

// Telemetry returns the tracing settings.
func (c Config) Telemetry() telemetry.Config {
	return telemetry.Config{Endpoint: c.OTelEndpoint, Disabled: !c.OTelEnabled}
}
