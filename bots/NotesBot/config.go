package notesbot

import (
	"time"

	"notesbot/bot"
	"notesbot/bots/NotesBot/db"
	"notesbot/bots/NotesBot/notes"

	"github.com/pkg/errors"
)

// Configuration keys of NotesBot, relative to its section
const (
	cfgStorageDriver = "storage.driver"
	cfgStoragePath   = "storage.path"
	cfgStorageTmout  = "storage.timeout"
	cfgSaveEvery     = "save_every"
	cfgTimeZone      = "time_zone"
	cfgRetryAttempts = "retry_attempts"
	cfgRetryDelay    = "retry_delay"
	cfgRateLimit     = "rate_limit"
	cfgRateBurst     = "rate_burst"
)

type Config struct {
	TgToken       string        `mapstructure:"tg_token"`
	Storage       db.Config     `mapstructure:"storage"`
	SaveEvery     uint64        `mapstructure:"save_every"`
	TimeZone      string        `mapstructure:"time_zone"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	RateLimit     float64       `mapstructure:"rate_limit"` // messages per second, 0 is unlimited
	RateBurst     int           `mapstructure:"rate_burst"`
}

func loadConfig(cfg bot.Config) (Config, error) {
	cfg.SetDefault(cfgStorageDriver, db.DriverFile)
	cfg.SetDefault(cfgStoragePath, "notes.json")
	cfg.SetDefault(cfgStorageTmout, 5*time.Second)
	cfg.SetDefault(cfgSaveEvery, notes.DefaultSaveEvery)
	cfg.SetDefault(cfgTimeZone, "UTC")
	cfg.SetDefault(cfgRetryAttempts, 3)
	cfg.SetDefault(cfgRetryDelay, time.Second)
	cfg.SetDefault(cfgRateLimit, 25)
	cfg.SetDefault(cfgRateBurst, 5)

	var c Config
	if err := cfg.Unmarshal(&c); err != nil {
		return c, errors.Wrap(err, "couldn't decode configuration")
	}

	if c.SaveEvery == 0 {
		return c, errors.Errorf("%s should be positive", cfgSaveEvery)
	}
	if c.RetryAttempts < 1 {
		return c, errors.Errorf("%s should be positive", cfgRetryAttempts)
	}

	return c, nil
}

func (c Config) location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown time zone %q", c.TimeZone)
	}
	return loc, nil
}
