package bot

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Common configuration keys
const (
	CfgTgToken     = "tg_token"
	CfgLoggerLevel = "logger.level"
)

// Config keeps configuration of a single bot, i.e. its section of the
// botfarm configuration file
type Config = *viper.Viper

var envRe = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnv replaces ${VAR} and ${VAR:-default} with environment values
func expandEnv(s string) string {
	return envRe.ReplaceAllStringFunc(s, func(match string) string {
		m := envRe.FindStringSubmatch(match)
		if len(m) < 2 {
			return match
		}

		if val := os.Getenv(m[1]); val != "" {
			return val
		}
		if len(m) > 2 {
			return m[2]
		}
		return ""
	})
}

// ReadConfig reads the botfarm configuration. The format (JSON, YAML, ...)
// follows the file extension.
func ReadConfig(cfgFile string) (*viper.Viper, error) {
	raw, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read configuration")
	}

	ext := strings.TrimLeft(filepath.Ext(cfgFile), ".")
	if ext == "" {
		ext = "json"
	}

	v := viper.New()
	v.SetConfigType(ext)
	if err = v.ReadConfig(bytes.NewReader([]byte(expandEnv(string(raw))))); err != nil {
		return nil, errors.Wrapf(err, "couldn't parse configuration %q", cfgFile)
	}

	return v, nil
}

// BotConfig returns the section of the named bot
func BotConfig(v *viper.Viper, name string) (Config, bool) {
	if !v.IsSet(name) {
		return nil, false
	}

	sub := v.Sub(name)
	if sub == nil {
		return nil, false
	}
	return sub, true
}

// ValidateConfig makes sure that all required fields are present in the config
func ValidateConfig(rec Record, cfg Config) error {
	missingFields := []string{}
	for _, field := range rec.RequiredConfigFields {
		if !cfg.IsSet(field) || cfg.GetString(field) == "" {
			missingFields = append(missingFields, field)
		}
	}

	if len(missingFields) > 0 {
		return errors.Errorf("%v's configuration is missing field(s): %s", rec.Name, strings.Join(missingFields, ", "))
	}

	return nil
}
