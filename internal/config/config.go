// Package config provides configuration loading for apriori.
//
// Values are resolved by viper in increasing order of precedence: built-in
// defaults, the config file, APRIORI_* environment variables and command
// line flags bound by the caller.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/apriori/internal/dataset"
)

// EnvPrefix prefixes environment overrides, e.g. APRIORI_MINING_MIN_SUPPORT.
const EnvPrefix = "APRIORI"

// Config is the resolved configuration of a command invocation.
type Config struct {
	Mining   MiningConfig   `mapstructure:"mining"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Output   OutputConfig   `mapstructure:"output"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// MiningConfig holds the thresholds of a run.
type MiningConfig struct {
	MinSupport      float64 `mapstructure:"min_support"`
	MinConfidence   float64 `mapstructure:"min_confidence"`
	PruneCandidates bool    `mapstructure:"prune_candidates"`
}

// DatasetConfig controls how input files are read.
type DatasetConfig struct {
	MaxRows     int    `mapstructure:"max_rows"`
	Delimiter   string `mapstructure:"delimiter"`
	Comment     string `mapstructure:"comment"`
	SkipEmpty   bool   `mapstructure:"skip_empty"`
	AliasesFile string `mapstructure:"aliases_file"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format    string `mapstructure:"format"`
	ExportDir string `mapstructure:"export_dir"`
}

// DatabaseConfig locates the run history database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Dir returns the apriori config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/apriori if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "apriori"), nil
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mining.min_support", 0.15)
	v.SetDefault("mining.min_confidence", 0.5)
	v.SetDefault("mining.prune_candidates", false)
	v.SetDefault("dataset.max_rows", dataset.DefaultMaxRows)
	v.SetDefault("dataset.delimiter", ",")
	v.SetDefault("dataset.comment", "")
	v.SetDefault("dataset.skip_empty", false)
	v.SetDefault("dataset.aliases_file", "")
	v.SetDefault("output.format", "table")
	v.SetDefault("output.export_dir", "")
	v.SetDefault("database.path", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

// Init prepares v: defaults, environment binding and the config file. An
// explicit cfgFile must exist; the default config.yaml under Dir() and the
// working directory is optional.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config")
	}
	return nil
}

// Load decodes the current state of v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	return &cfg, nil
}

// DatasetOptions converts the dataset section into loader options, including
// the label aliases when an aliases file is configured.
func (c *Config) DatasetOptions() (dataset.Options, error) {
	delim, err := ParseRune(c.Dataset.Delimiter)
	if err != nil {
		return dataset.Options{}, errors.Wrap(err, "invalid dataset.delimiter")
	}
	if delim == 0 {
		delim = ','
	}
	comment, err := ParseRune(c.Dataset.Comment)
	if err != nil {
		return dataset.Options{}, errors.Wrap(err, "invalid dataset.comment")
	}

	opts := dataset.Options{
		MaxRows:   c.Dataset.MaxRows,
		Delimiter: delim,
		Comment:   comment,
		SkipEmpty: c.Dataset.SkipEmpty,
	}
	if c.Dataset.AliasesFile != "" {
		aliases, err := LoadAliases(c.Dataset.AliasesFile)
		if err != nil {
			return dataset.Options{}, err
		}
		opts.Aliases = aliases.Aliases
	}
	return opts, nil
}

// ParseRune converts a single-character setting to a rune. "" yields 0;
// "tab" and `\t` yield a tab.
func ParseRune(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.Newf("%q is not a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
