package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Fatalf("got %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helix.yaml")
	content := `
window:
  title: test
  width: 640
physics:
  gravity_y: 450
  max_sub_steps: 8
  poll_contacts: true
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.Title != "test" || cfg.Window.Width != 640 {
		t.Fatalf("window = %+v", cfg.Window)
	}
	// Unset fields keep their defaults.
	if cfg.Window.Height != 720 {
		t.Fatalf("height should default to 720, got %d", cfg.Window.Height)
	}
	if cfg.Physics.GravityY != 450 || cfg.Physics.MaxSubSteps != 8 || !cfg.Physics.PollContacts {
		t.Fatalf("physics = %+v", cfg.Physics)
	}
	if cfg.Physics.TimeStep != 1.0/60.0 {
		t.Fatalf("time step should default, got %v", cfg.Physics.TimeStep)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helix.yaml")
	if err := os.WriteFile(path, []byte("window: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
