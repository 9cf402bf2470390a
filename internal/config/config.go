// Package config holds the service configuration. Values come from flags,
// then TIMETABLE_* environment variables, then defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/timetable-viewer/internal/keys"
	"github.com/timetable-viewer/internal/timetable"
)

const envPrefix = "TIMETABLE_"

type Config struct {
	Address        string
	BackendURL     string
	BackendTimeout time.Duration
	// CachePath is the badger directory. Empty keeps the cache in memory.
	CachePath string
	CacheTTL  time.Duration
	// CSRFKey is a base64 encoded 32 byte key. A random key is generated
	// when empty, which invalidates tokens on restart.
	CSRFKey      string
	SecureCookie bool
	// SlotHeight is the rendered height of one timetable row in pixels.
	SlotHeight float64
	TimeZone   string
	Weeks      int
	Watch      bool
	LogLevel   string
}

func Default() Config {
	return Config{
		Address:        ":8080",
		BackendURL:     "http://localhost:8000/",
		BackendTimeout: 30 * time.Second,
		CacheTTL:       time.Minute,
		SecureCookie:   false,
		SlotHeight:     timetable.DefaultSlotHeight,
		TimeZone:       "America/Toronto",
		Weeks:          13,
		LogLevel:       "info",
	}
}

// BindFlags registers c's fields on fs, using the current values as
// defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Address, "address", c.Address, "http address to listen to")
	fs.StringVar(&c.BackendURL, "backend-url", c.BackendURL, "base url of the schedule backend")
	fs.DurationVar(&c.BackendTimeout, "backend-timeout", c.BackendTimeout, "timeout of backend requests")
	fs.StringVar(&c.CachePath, "cache-path", c.CachePath, "directory of the response cache, in memory if empty")
	fs.DurationVar(&c.CacheTTL, "cache-ttl", c.CacheTTL, "how long backend responses are cached, 0 disables expiry")
	fs.StringVar(&c.CSRFKey, "csrf-key", c.CSRFKey, "base64 encoded 32 byte csrf authentication key")
	fs.BoolVar(&c.SecureCookie, "secure-cookie", c.SecureCookie, "only send cookies over https")
	fs.Float64Var(&c.SlotHeight, "slot-height", c.SlotHeight, "rendered height of a timetable row in pixels")
	fs.StringVar(&c.TimeZone, "tz", c.TimeZone, "time zone of course times")
	fs.IntVar(&c.Weeks, "weeks", c.Weeks, "default number of weeks in calendar exports")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "if true, will serve templates and static files from filesystem")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// LoadEnv sets every flag of fs that was not given on the command line from
// its TIMETABLE_* environment variable, if set. The variable name is the
// flag name upper cased with dashes replaced by underscores.
func LoadEnv(fs *pflag.FlagSet) error {
	var errs []string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		name := EnvName(f.Name)
		value, ok := os.LookupEnv(name)
		if !ok {
			return
		}
		if err := fs.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", name, err))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

func EnvName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

func (c Config) Key() (*keys.Key, error) {
	if c.CSRFKey == "" {
		return keys.NewKey()
	}
	return keys.Decode(c.CSRFKey)
}

func (c Config) Measurer() timetable.Measurer {
	return timetable.FixedHeight(c.SlotHeight)
}
