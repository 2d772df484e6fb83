// Package config holds the settings of the simulator binary.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StatusBarHeight is the height of the strip below the room that shows the
// simulation status.
const StatusBarHeight = 80

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"` // room area, the status bar comes on top
	Title  string `yaml:"title"`

	// ResizeRoom makes the room follow the window size instead of scaling
	// the room into the window.
	ResizeRoom bool `yaml:"resize_room"`
}

type Simulation struct {
	Tick    time.Duration `yaml:"tick"`
	Playing bool          `yaml:"playing"`
	Steps   int           `yaml:"steps"` // ticks run by the headless command
}

// Config is the decoded settings file. Fields missing from the file keep
// their Default values.
type Config struct {
	Window     Window     `yaml:"window"`
	Simulation Simulation `yaml:"simulation"`
	Room       string     `yaml:"room"`      // room file opened at start, empty for a blank room
	SavePath   string     `yaml:"save_path"` // target of the save key
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "Robot Simulation",
		},
		Simulation: Simulation{
			Tick:    10 * time.Millisecond,
			Playing: true,
			Steps:   1000,
		},
		SavePath: "room.txt",
	}
}

// Load reads a YAML settings file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "could not read config (%s)", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "invalid config (%s)", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config (%s)", path)
	}
	return cfg, nil
}

// Validate rejects settings the simulator cannot run with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Simulation.Tick <= 0 {
		return errors.Errorf("tick must be positive, got %s", c.Simulation.Tick)
	}
	if c.Simulation.Steps < 0 {
		return errors.Errorf("steps must not be negative, got %d", c.Simulation.Steps)
	}
	return nil
}

// TPS returns the number of ticks per second matching the tick duration.
func (s Simulation) TPS() int {
	tps := int(time.Second / s.Tick)
	if tps < 1 {
		return 1
	}
	return tps
}
