// Package conf loads whisperd configuration from file, environment and
// defaults, in that order of increasing precedence for env overrides.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultHTTPAddr is where the server listens when nothing else is set.
const DefaultHTTPAddr = "127.0.0.1:5030"

// Config is the root whisperd configuration.
type Config struct {
	HTTPAddr   string       `mapstructure:"http_addr" json:"http_addr"`
	WorkDir    string       `mapstructure:"work_dir" json:"work_dir"`
	FFmpegPath string       `mapstructure:"ffmpeg_path" json:"ffmpeg_path"`
	Debug      bool         `mapstructure:"debug" json:"debug"`
	Speech     SpeechConfig `mapstructure:"speech" json:"speech"`
}

// Load reads the configuration. An empty path searches the standard
// locations; a missing config file is fine, defaults and env apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", DefaultHTTPAddr)
	v.SetDefault("work_dir", defaultWorkDir())
	v.SetDefault("speech.provider", ProviderWhisperCPP)

	v.SetEnvPrefix("WHISPERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("whisperd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".whisperd"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Speech.Normalize()
	return &cfg, nil
}

// ModelDir is where downloaded whisper models are cached.
func (c *Config) ModelDir() string {
	return filepath.Join(c.WorkDir, "models")
}

func defaultWorkDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "whisperd")
	}
	return ".whisperd"
}
