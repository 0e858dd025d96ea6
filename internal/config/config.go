package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HighlightConfig struct {
	// Style is a chroma style name. Empty selects the built-in plain style.
	Style string `mapstructure:"style"`
	// Classes emits CSS classes instead of inline styles.
	Classes bool `mapstructure:"classes"`
}

type Config struct {
	OutputDir       string          `mapstructure:"output_dir"`
	IncludePrivate  bool            `mapstructure:"include_private"`
	ExternalBaseURL string          `mapstructure:"external_base_url"`
	Packages        []string        `mapstructure:"packages"`
	Highlight       HighlightConfig `mapstructure:"highlight"`
}

// cacheBase returns the base cache directory for ferrisdoc.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/ferrisdoc as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "ferrisdoc")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "ferrisdoc")
	}
	return filepath.Join(os.TempDir(), "ferrisdoc")
}

// GraphDir returns the directory fetched rustdoc JSON graphs are stored in.
func GraphDir() string {
	return filepath.Join(cacheBase(), "graphs")
}

// newViper reads configFile, or config.toml from the working directory and
// the XDG config directory when configFile is empty.
func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")

		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "ferrisdoc"))
		} else if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "ferrisdoc"))
		}
	}

	v.SetDefault("output_dir", "doc")
	v.SetDefault("include_private", false)
	v.SetDefault("external_base_url", "https://docs.rs")
	v.SetDefault("packages", []string{})
	v.SetDefault("highlight.style", "")
	v.SetDefault("highlight.classes", true)

	v.SetEnvPrefix("FERRISDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load reads the configuration. Environment variables prefixed with
// FERRISDOC_ override the file, e.g. FERRISDOC_HIGHLIGHT_STYLE.
func Load(configFile string) (*Config, error) {
	v, err := newViper(configFile)
	if err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.OutputDir = expandHome(config.OutputDir)
	return &config, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
