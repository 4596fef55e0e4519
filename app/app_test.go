package app

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"csgview/hal"
	"csgview/viewer/input"
)

func TestParseConfigEnvThenFlags(t *testing.T) {
	t.Setenv("CSGVIEW_HZ", "30")
	t.Setenv("CSGVIEW_STRICT_LOG", "true")
	t.Setenv("CSGVIEW_RECORD_PATH", "from-env.events")

	fs := flag.NewFlagSet("csgview", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-record", "from-flag.events", "play", "s.events"})
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}
	if cfg.Hz != 30 || !cfg.StrictLog {
		t.Fatalf("env values not applied: %+v", cfg)
	}
	if cfg.RecordPath != "from-flag.events" {
		t.Fatalf("RecordPath = %q, want flag value", cfg.RecordPath)
	}
	if cfg.MaxWorkers != 2 || cfg.Width != hal.DefaultWidth {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Command != CommandPlay || cfg.Path != "s.events" {
		t.Fatalf("positional = %q %q, want play s.events", cfg.Command, cfg.Path)
	}
}

func TestParseConfigRejectsZeroWorkers(t *testing.T) {
	fs := flag.NewFlagSet("csgview", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-max-workers", "0"}); err == nil {
		t.Fatalf("ParseConfig() accepted max-workers=0")
	}
}

func TestParseConfigTelemetry(t *testing.T) {
	fs := flag.NewFlagSet("csgview", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}
	if cfg.Telemetry().Enabled() {
		t.Fatalf("tracing enabled without an endpoint")
	}

	t.Setenv("CSGVIEW_OTEL_ENABLED", "false")
	fs = flag.NewFlagSet("csgview", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-otel-endpoint", "http://localhost:4318"})
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}
	if cfg.OTelEndpoint != "http://localhost:4318" {
		t.Fatalf("OTelEndpoint = %q", cfg.OTelEndpoint)
	}
	if cfg.Telemetry().Enabled() {
		t.Fatalf("tracing enabled with CSGVIEW_OTEL_ENABLED=false")
	}
}

func runUntilQuit(t *testing.T, v *Viewer, limit int) int {
	t.Helper()
	for i := 0; i < limit; i++ {
		if err := v.Step(); err != nil {
			if !errors.Is(err, hal.ErrQuit) {
				t.Fatalf("Step() error: %v", err)
			}
			return i + 1
		}
	}
	t.Fatalf("viewer did not quit within %d steps", limit)
	return 0
}

func TestPlayCommandQuitsAfterPlayback(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(obj, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sess := filepath.Join(dir, "s.events")
	if err := os.WriteFile(sess, []byte(obj+"\n6 10 10\n2 0 0\n6 20 15\n0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	v := NewViewer(hal.New(64, 48), Config{
		MaxWorkers: 1,
		Command:    CommandPlay,
		Path:       sess,
		RecordPath: filepath.Join(dir, "out.events"),
	})
	runUntilQuit(t, v, 100)

	if got := v.Dispatcher().Played(); got != 4 {
		t.Fatalf("Played() = %d, want 4", got)
	}
	if v.Dispatcher().Mode() != input.ModeIdle {
		t.Fatalf("Mode() = %v, want idle", v.Dispatcher().Mode())
	}
	if err := v.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("Step() after quit = %v, want ErrQuit", err)
	}
}

func TestPlayCommandMissingFileQuits(t *testing.T) {
	v := NewViewer(hal.New(64, 48), Config{
		MaxWorkers: 1,
		Command:    CommandPlay,
		Path:       filepath.Join(t.TempDir(), "missing.events"),
	})
	if n := runUntilQuit(t, v, 10); n != 1 {
		t.Fatalf("quit after %d steps, want 1", n)
	}
	if v.Session().LoadJob() != nil {
		t.Fatalf("missing session started a load")
	}
}

func TestHotKeysWithoutProject(t *testing.T) {
	v := NewViewer(hal.New(64, 48), Config{MaxWorkers: 1})
	v.Step()

	v.ToggleRecording()
	if got := v.Status().Text(); got != "No project loaded!" {
		t.Fatalf("status after F1 = %q", got)
	}
	v.OpenModel()
	if v.Session().LoadJob() != nil {
		t.Fatalf("F2 without a model path started a load")
	}
	v.Quit()
	if err := v.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("Step() after Quit = %v, want ErrQuit", err)
	}
}
