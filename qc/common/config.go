package common

import "time"

// Config contains all the configuration data for the app
type Config struct {
	AppName     string `yaml:"AppName"`
	Version     string `yaml:"Version"`
	DebugOutput bool   `yaml:"DebugOutput"`

	QuoteURL      string        `yaml:"QuoteURL"`
	QuoteTimeout  time.Duration `yaml:"QuoteTimeout"`
	BackgroundURL string        `yaml:"BackgroundURL"`
	SurfaceSize   Dimensions2d  `yaml:"SurfaceSize"`

	FontsDir  string            `yaml:"FontsDir"`
	FontFiles map[string]string `yaml:"FontFiles"` // Font family -> ttf file in FontsDir

	DatabaseFile string `yaml:"DatabaseFile"`
}

// Dimensions2d contains width and height
type Dimensions2d struct {
	W int `yaml:"w"` // Width
	H int `yaml:"h"` // Height
}

// DefaultConfig returns the configuration used when no file overrides it
func DefaultConfig() *Config {
	return &Config{
		AppName:       "QuoteCard",
		Version:       "dev",
		QuoteURL:      "http://127.0.0.1:8081/random-line",
		QuoteTimeout:  5 * time.Second,
		BackgroundURL: "https://picsum.photos/%d",
		SurfaceSize:   Dimensions2d{W: 500, H: 500},
	}
}

// LoadConfig reads filename over the defaults. Fields absent from the file
// keep their default values.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()
	if err := LoadYaml(filename, config); err != nil {
		return nil, err
	}
	config.fillDefaults()
	return config, nil
}

func (c *Config) fillDefaults() {
	defaults := DefaultConfig()
	if c.QuoteTimeout <= 0 {
		c.QuoteTimeout = defaults.QuoteTimeout
	}
	if len(c.BackgroundURL) == 0 {
		c.BackgroundURL = defaults.BackgroundURL
	}
	if c.SurfaceSize.W <= 0 || c.SurfaceSize.H <= 0 {
		c.SurfaceSize = defaults.SurfaceSize
	}
}
