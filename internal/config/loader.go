package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "barcodescan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "BARCODESCAN"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader backed by its own viper instance.
func NewLoader() *Loader {
	l := &Loader{v: viper.New()}
	l.setupEnvironmentVariables()
	l.setDefaults()
	return l
}

// BindFlag makes a command line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind to %q", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the configuration. When configFile is empty the standard search
// paths are tried and a missing file is not an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		for _, p := range SearchPaths() {
			l.v.AddConfigPath(p)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the config file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// SearchPaths returns the directories searched for barcodescan.yaml.
func SearchPaths() []string {
	paths := []string{"."}
	if configDir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		paths = append(paths, filepath.Join(configDir, "barcodescan"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "barcodescan"))
	}
	return append(paths, "/etc/barcodescan")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults registers every key so that environment variables are seen by
// Unmarshal.
func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("log_level", d.LogLevel)
	l.v.SetDefault("verbose", d.Verbose)
	l.v.SetDefault("metrics_file", d.MetricsFile)

	l.v.SetDefault("scan.formats", d.Scan.Formats)
	l.v.SetDefault("scan.try_harder", d.Scan.TryHarder)
	l.v.SetDefault("scan.try_rotate", d.Scan.TryRotate)
	l.v.SetDefault("scan.try_invert", d.Scan.TryInvert)
	l.v.SetDefault("scan.multi", d.Scan.Multi)
	l.v.SetDefault("scan.crop_width", d.Scan.CropWidth)
	l.v.SetDefault("scan.crop_height", d.Scan.CropHeight)
	l.v.SetDefault("scan.output", d.Scan.Output)
	l.v.SetDefault("scan.pure_barcode", d.Scan.PureBarcode)
	l.v.SetDefault("scan.character_set", d.Scan.CharacterSet)
	l.v.SetDefault("scan.assume_gs1", d.Scan.AssumeGS1)

	l.v.SetDefault("encode.format", d.Encode.Format)
	l.v.SetDefault("encode.width", d.Encode.Width)
	l.v.SetDefault("encode.height", d.Encode.Height)
	l.v.SetDefault("encode.margin", d.Encode.Margin)
	l.v.SetDefault("encode.ecc_level", d.Encode.ECCLevel)
}
