// Application settings from file, environment and flags
package config

import (
	"fmt"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "IMAGEPROC"
	configBaseName = ".imageproc"
)

// Config holds every setting the application reads.
type Config struct {
	Debug     bool
	LogFormat string

	WindowWidth  float32
	WindowHeight float32

	DisplayMaxWidth  int
	DisplayMaxHeight int

	DefaultSaveName string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("log.format", "")
	v.SetDefault("window.width", 1200)
	v.SetDefault("window.height", 800)
	v.SetDefault("display.max_width", 1024)
	v.SetDefault("display.max_height", 768)
	v.SetDefault("save.default_name", "processed_image.png")
}

// Load reads cfgFile, or $HOME/.imageproc.* when cfgFile is empty, into v.
// A missing default config file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(configBaseName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || cfgFile != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper copies the current values of v into a Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Debug:            v.GetBool("debug"),
		LogFormat:        v.GetString("log.format"),
		WindowWidth:      float32(v.GetFloat64("window.width")),
		WindowHeight:     float32(v.GetFloat64("window.height")),
		DisplayMaxWidth:  v.GetInt("display.max_width"),
		DisplayMaxHeight: v.GetInt("display.max_height"),
		DefaultSaveName:  v.GetString("save.default_name"),
	}
}

func (c *Config) Validate() error {
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.LogFormat)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive, got %vx%v", c.WindowWidth, c.WindowHeight)
	}
	if c.DisplayMaxWidth <= 0 || c.DisplayMaxHeight <= 0 {
		return fmt.Errorf("display bounds must be positive, got %dx%d", c.DisplayMaxWidth, c.DisplayMaxHeight)
	}
	if c.DefaultSaveName == "" {
		return fmt.Errorf("save.default_name must not be empty")
	}
	return nil
}
