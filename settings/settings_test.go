package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsRoundTrip(t *testing.T) {
	for _, name := range []string{"pmove.toml", "pmove.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := SaveDefault(path); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		if err := SaveDefault(path); err == nil {
			t.Fatalf("%s: expected an error when the file exists", name)
		}

		s, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if s != DefaultSettings() {
			t.Fatalf("%s: loaded settings differ from the defaults:\n%+v", name, s)
		}
	}
}

func TestPartialYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pmove.yml")
	data := []byte("movement:\n  max_speed: 400\nprediction:\n  thresholds:\n    hard_snap: 64\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultSettings()
	if s.Movement.MaxSpeed != 400 || s.Prediction.Thresholds.HardSnap != 64 {
		t.Fatalf("values from the file were not applied: %+v", s)
	}
	if s.Movement.Gravity != def.Movement.Gravity || s.Prediction.Thresholds.Epsilon != def.Prediction.Thresholds.Epsilon {
		t.Fatalf("missing keys lost their defaults: %+v", s)
	}
}

func TestValidate(t *testing.T) {
	s := DefaultSettings()
	s.Prediction.CommandBufferSize = 48
	if err := s.Validate(); err == nil {
		t.Fatalf("expected a non power of two buffer to be rejected")
	}

	s = DefaultSettings()
	s.Log.Level = "loud"
	if err := s.Validate(); err == nil {
		t.Fatalf("expected an unknown log level to be rejected")
	}

	s = DefaultSettings()
	s.Prediction.Thresholds.HardSnap = 0.01
	if err := s.Validate(); err == nil {
		t.Fatalf("expected a hard snap below epsilon to be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLogger(t *testing.T) {
	s := DefaultSettings()
	s.Log.Level = "debug"
	log, err := s.Logger()
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if log.GetLevel().String() != "debug" {
		t.Fatalf("unexpected level %v", log.GetLevel())
	}
}
