// Package config loads the command line settings from flags, FASTTRACK_*
// environment variables and an optional YAML profile, in that order of
// precedence.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FASTTRACK"

const (
	FormatYAML       = "yaml"
	FormatExpression = "expression"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Config struct {
	// Standard is a directory of standard templates. Empty selects the
	// embedded catalog.
	Standard string   `mapstructure:"standard"`
	Eras     []string `mapstructure:"eras"`
	Steps    []string `mapstructure:"steps"`
	Variant  string   `mapstructure:"variant"`
	Format   string   `mapstructure:"format"`
	Output   string   `mapstructure:"output"`
	Process  string   `mapstructure:"process"`
	Debug    bool     `mapstructure:"debug"`
	LogFile  string   `mapstructure:"log_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("standard", "")
	v.SetDefault("eras", []string{})
	v.SetDefault("steps", []string{})
	v.SetDefault("variant", "phase1")
	v.SetDefault("format", FormatYAML)
	v.SetDefault("output", "")
	v.SetDefault("process", "iterTracking")
	v.SetDefault("debug", false)
	v.SetDefault("log_file", "")
}

// Load reads file, when set, then the environment, then the changed flags
// of flags, which may be nil.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		err := v.ReadInConfig()
		if err != nil {
			return Config{}, errors.Wrapf(err, "unable to read %s", file)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var err error
		flags.VisitAll(func(f *pflag.Flag) {
			if err != nil {
				return
			}
			err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to bind flags")
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to decode configuration")
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings that do not depend on the catalog.
func (c Config) Validate() error {
	switch c.Format {
	case FormatYAML, FormatExpression:
		return nil
	default:
		return errors.Wrap(ErrUnknownFormat, c.Format)
	}
}

// ErasList joins the eras the way era.Registry.ParseSet reads them.
func (c Config) ErasList() string {
	return strings.Join(c.Eras, ",")
}
