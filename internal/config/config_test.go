package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "pendulum" {
		t.Errorf("expected scenario pendulum, got %s", cfg.Scenario)
	}
	if cfg.Dt <= 0 || cfg.Duration <= 0 {
		t.Error("defaults must be runnable")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dt = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero dt")
	}

	cfg = DefaultConfig()
	cfg.Duration = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative duration")
	}

	cfg = DefaultConfig()
	cfg.Car.DriveSpeeds = []float64{0, 1}
	cfg.Car.DriveTorques = []float64{100}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for mismatched drive table")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "car"
	cfg.Terrain = "wave"
	cfg.Car.WheelRadius = 0.4

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Scenario != "car" || loaded.Terrain != "wave" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Car.WheelRadius != 0.4 {
		t.Errorf("expected wheel radius 0.4, got %g", loaded.Car.WheelRadius)
	}
}

func TestLoadFillsCarDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	body := "scenario: car\ncar:\n  chassis_mass: 1500\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Car.ChassisMass != 1500 {
		t.Errorf("override lost, got %g", cfg.Car.ChassisMass)
	}
	if cfg.Car.WheelRadius != DefaultCar().WheelRadius {
		t.Errorf("unset field should fall back to default, got %g", cfg.Car.WheelRadius)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPreset(t *testing.T) {
	cfg := Preset("pendulum", "small")
	if cfg == nil {
		t.Fatal("expected preset")
	}
	if cfg.InitState.Theta != 0.2 {
		t.Errorf("expected theta 0.2, got %g", cfg.InitState.Theta)
	}
	if cfg.Gravity != DefaultGravity {
		t.Errorf("preset should be backfilled, gravity=%g", cfg.Gravity)
	}

	if Preset("pendulum", "nope") != nil || Preset("nope", "small") != nil {
		t.Error("expected nil for unknown preset")
	}

	if len(ListPresets("car")) == 0 {
		t.Error("expected car presets")
	}
	if ListPresets("nope") != nil {
		t.Error("expected nil preset list")
	}
}
