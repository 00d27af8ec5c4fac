package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/prediction"
	"github.com/oomph-ac/pmove/utils"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Settings contains everything that can be configured for the simulator, the prediction engine and the
// tools built on them.
type Settings struct {
	Log struct {
		// Level is a logrus level name.
		Level string `yaml:"level"`
		// Color forces colored output even when not writing to a terminal.
		Color bool `yaml:"color"`
	} `yaml:"log"`
	Sentry struct {
		// DSN enables error reporting when set.
		DSN         string `yaml:"dsn"`
		Environment string `yaml:"environment"`
	} `yaml:"sentry"`
	Movement   movement.Parameters `yaml:"movement"`
	Simulator  movement.Options    `yaml:"simulator"`
	Prediction prediction.Config   `yaml:"prediction"`
	Replay     struct {
		// Workers is the number of recordings verified at once. Zero uses one per CPU.
		Workers int `yaml:"workers"`
	} `yaml:"replay"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{
		Movement:   movement.DefaultParameters(),
		Simulator:  movement.DefaultOptions(),
		Prediction: prediction.DefaultConfig(),
	}
	s.Log.Level = "info"
	s.Sentry.Environment = "production"
	return s
}

// Validate checks the settings for values the simulator cannot work with.
func (s Settings) Validate() error {
	if _, err := logrus.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if !utils.IsPowerOfTwo(s.Prediction.CommandBufferSize) {
		return fmt.Errorf("prediction command buffer size %d is not a power of two", s.Prediction.CommandBufferSize)
	}
	if !utils.IsPowerOfTwo(s.Prediction.RecordBufferSize) {
		return fmt.Errorf("prediction record buffer size %d is not a power of two", s.Prediction.RecordBufferSize)
	}
	if t := s.Prediction.Thresholds; t.Epsilon < 0 || t.HardSnap < t.Epsilon {
		return fmt.Errorf("prediction thresholds must satisfy 0 <= epsilon <= hard snap, got %v and %v", t.Epsilon, t.HardSnap)
	}
	if s.Movement.MaxSpeed <= 0 {
		return errors.New("movement max speed must be positive")
	}
	if s.Replay.Workers < 0 {
		return errors.New("replay workers must not be negative")
	}
	return nil
}

// Logger creates a logger configured by the settings.
func (s Settings) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: s.Log.Color, FullTimestamp: true}
	log.Level = level
	return log, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SaveDefault will create and save the default settings file. The format is YAML for .yaml and .yml
// paths and TOML otherwise. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}

	var (
		data []byte
		err  error
	)
	s := DefaultSettings()
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = toml.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Keys missing from a YAML file keep their default values.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, errors.New("settings file doesn't exist")
		}
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, &settings)
	} else {
		err = toml.Unmarshal(data, &settings)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}
