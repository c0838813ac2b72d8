package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagModel    = flag.String("model", "", "Path to a model definition file or directory")
	flagQuality  = flag.String("quality", "", "Texture quality: high, medium or low")
	flagWindowed = flag.Bool("windowed", false, "Run as a normal window (bordered, not always on top)")
	flagWidth    = flag.Int("width", 0, "Window width")
	flagHeight   = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModel != "" {
		cfg.Model.Path = *flagModel
	}
	if *flagQuality != "" {
		cfg.Render.Quality = *flagQuality
	}
	if *flagWindowed {
		cfg.Window.Borderless = false
		cfg.Window.AlwaysOnTop = false
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
