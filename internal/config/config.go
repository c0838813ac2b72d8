// Package config handles pet configuration loading and management.
package config

// Config holds all pet settings.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Model       ModelConfig       `yaml:"model"`
	Render      RenderConfig      `yaml:"render"`
	Interaction InteractionConfig `yaml:"interaction"`
	Sound       SoundConfig       `yaml:"sound"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds the pet window settings.
type WindowConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Borderless  bool    `yaml:"borderless"`
	AlwaysOnTop bool    `yaml:"always_on_top"`
	Opacity     float32 `yaml:"opacity"`
	PositionX   int     `yaml:"position_x"` // -1 means bottom-right of the screen
	PositionY   int     `yaml:"position_y"`
	VSync       bool    `yaml:"vsync"`
}

// ModelConfig holds model selection settings.
type ModelConfig struct {
	Path  string  `yaml:"path"` // model definition file or its directory
	Scale float32 `yaml:"scale"`
}

// RenderConfig holds rendering settings.
type RenderConfig struct {
	Quality string `yaml:"quality"` // high, medium or low
}

// InteractionConfig holds idle-interaction settings.
type InteractionConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Frequency int    `yaml:"frequency"` // seconds between idle interactions
	TapGroup  string `yaml:"tap_group"`
	IdleGroup string `yaml:"idle_group"`
}

// SoundConfig holds sound effect settings.
type SoundConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Volume   float64 `yaml:"volume"`    // 0.0 to 1.0
	TapSound string  `yaml:"tap_sound"` // WAV played when the pet is grabbed
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:       400,
			Height:      600,
			Borderless:  true,
			AlwaysOnTop: true,
			Opacity:     0.9,
			PositionX:   -1,
			PositionY:   -1,
			VSync:       true,
		},
		Model: ModelConfig{
			Path:  "",
			Scale: 1.0,
		},
		Render: RenderConfig{
			Quality: "high",
		},
		Interaction: InteractionConfig{
			Enabled:   true,
			Frequency: 60,
			TapGroup:  "Tap",
			IdleGroup: "Idle",
		},
		Sound: SoundConfig{
			Enabled:  true,
			Volume:   0.8,
			TapSound: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
