// Package config resolves the run options of the command line tool from flags,
// environment, an optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so --log-level is
// read from CACHESIM_LOG_LEVEL.
const EnvPrefix = "CACHESIM"

// DefaultEnvFile is the dotenv file that is read when present.
const DefaultEnvFile = ".env"

// Settings are the options that do not describe the cache itself.
type Settings struct {
	Strict      bool   `mapstructure:"strict"`
	Format      string `mapstructure:"format"`
	LogLevel    string `mapstructure:"log-level"`
	LogFormat   string `mapstructure:"log-format"`
	CSVTrace    string `mapstructure:"csv-trace"`
	SQLiteTrace string `mapstructure:"sqlite-trace"`
	JSONTrace   string `mapstructure:"json-trace"`
	PerSet      int    `mapstructure:"per-set"`
	Monitor     bool   `mapstructure:"monitor"`
	MonitorPort int    `mapstructure:"monitor-port"`
	OpenBrowser bool   `mapstructure:"open-browser"`
	ConfigFile  string `mapstructure:"config"`
}

// RegisterFlags adds every setting as a flag.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Bool("strict", false, "fail on malformed trace lines instead of skipping them")
	flags.String("format", "text", "report format: text or json")
	flags.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("csv-trace", "", "record every access to this CSV file")
	flags.String("sqlite-trace", "", "record every access to this SQLite database")
	flags.String("json-trace", "", "record every access to this JSON file")
	flags.Int("per-set", 0, "print usage of the N sets with the most misses, -1 for all")
	flags.Bool("monitor", false, "serve simulation progress over HTTP")
	flags.Int("monitor-port", 0, "port of the monitoring server, random when unset")
	flags.Bool("open-browser", false, "open the monitoring page in a browser")
	flags.String("config", "", "read settings from this file")
}

// Load resolves the settings. Flags override the environment, which overrides
// the config file, which overrides the flag defaults.
func Load(flags *pflag.FlagSet) (Settings, error) {
	return LoadWithEnvFile(flags, DefaultEnvFile)
}

// LoadWithEnvFile is Load with an explicit dotenv path. A missing file is not
// an error. Variables already in the environment are not overwritten.
func LoadWithEnvFile(flags *pflag.FlagSet, envFile string) (Settings, error) {
	var s Settings

	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return s, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return s, fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return s, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decoding settings: %w", err)
	}

	return s, nil
}
