package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Demo != "lorenz" {
		t.Errorf("expected demo lorenz, got %s", cfg.Demo)
	}
	if cfg.FPS <= 0 {
		t.Error("fps should be positive")
	}
	if cfg.Interval() != time.Second/30 {
		t.Errorf("interval = %v", cfg.Interval())
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("clifford", "ghostly-velvet")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params["a"] != 1.7 || cfg.Params["d"] != 1.2 {
		t.Errorf("unexpected params %v", cfg.Params)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("clifford", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "coral") != nil {
		t.Error("expected nil for nonexistent demo")
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets("reaction-diffusion")
	want := []string{"coral", "spotted", "striped"}
	if len(got) != len(want) {
		t.Fatalf("presets = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("presets[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent demo")
	}
}

func TestPresets_DemoMatchesKey(t *testing.T) {
	for demo, ps := range Presets {
		for name, p := range ps {
			if p.Demo != demo {
				t.Errorf("preset %s/%s names demo %s", demo, name, p.Demo)
			}
		}
	}
}

func TestWithPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Demo = "reaction-diffusion"
	cfg.Params = map[string]float64{"feed": 0.09, "width": 100}

	out, err := cfg.WithPreset("spotted")
	if err != nil {
		t.Fatal(err)
	}
	if out.Params["feed"] != 0.035 || out.Params["width"] != 100 {
		t.Errorf("params = %v", out.Params)
	}
	if cfg.Params["feed"] != 0.09 {
		t.Error("WithPreset modified the receiver")
	}

	if _, err := cfg.WithPreset("nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Demo = "boids"
	cfg.Seed = 42
	cfg.Params = map[string]float64{"maxSpeed": 6}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Demo != "boids" || got.Seed != 42 || got.Params["maxSpeed"] != 6 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("demo: langton\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Demo != "langton" || cfg.FPS != DefaultFPS || cfg.Ticks != DefaultTicks {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_BadFPS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("fps: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for fps 0")
	}
}
