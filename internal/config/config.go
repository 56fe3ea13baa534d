package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper/internal/mines"
)

const EnvPrefix = "MINES"

// Flag names that differ from their config keys.
var flagKeys = map[string]string{
	"base-path": "base_path",
	"log-level": "log.level",
	"log-file":  "log.file",
}

var ErrInvalidMode = errors.New("mode must be development or production")

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type JWTConfig struct {
	Secret        string        `mapstructure:"secret"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`
}

type CookiesConfig struct {
	Domain   string `mapstructure:"domain"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"samesite"`
}

type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type SessionsConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Max           int           `mapstructure:"max"`
}

type DifficultyConfig struct {
	Name  string `mapstructure:"name"`
	Rows  int    `mapstructure:"rows"`
	Cols  int    `mapstructure:"cols"`
	Mines int    `mapstructure:"mines"`
}

type Config struct {
	Mode         string             `mapstructure:"mode"`
	Addr         string             `mapstructure:"addr"`
	BasePath     string             `mapstructure:"base_path"`
	Log          LogConfig          `mapstructure:"log"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Cookies      CookiesConfig      `mapstructure:"cookies"`
	Cors         CorsConfig         `mapstructure:"cors"`
	Sessions     SessionsConfig     `mapstructure:"sessions"`
	Difficulties []DifficultyConfig `mapstructure:"difficulties"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "production")
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_path", "")

	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.token_lifetime", 24*time.Hour)

	v.SetDefault("cookies.domain", "")
	v.SetDefault("cookies.secure", true)
	v.SetDefault("cookies.samesite", "strict")

	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("sessions.idle_timeout", 30*time.Minute)
	v.SetDefault("sessions.sweep_interval", time.Minute)
	v.SetDefault("sessions.max", 10000)
}

// Load merges defaults, the optional config file at path, MINES_* env
// variables and changed flags, in increasing order of precedence.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok {
				key = f.Name
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("unable to bind flags: %w", bindErr)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	c.Mode = strings.ToLower(c.Mode)
	if c.Mode != "development" && c.Mode != "production" {
		return fmt.Errorf("%w, got %q", ErrInvalidMode, c.Mode)
	}
	c.BasePath = strings.TrimRight(c.BasePath, "/")
	if _, err := parseSameSite(c.Cookies.SameSite); err != nil {
		return err
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	if _, err := c.Presets(); err != nil {
		return fmt.Errorf("invalid difficulties: %w", err)
	}
	return nil
}

func (c Config) Development() bool {
	return c.Mode == "development"
}

func (c Config) Production() bool {
	return !c.Development()
}

// Presets returns the built-in difficulties extended with the configured ones.
func (c Config) Presets() (mines.Presets, error) {
	extra := make([]mines.Difficulty, 0, len(c.Difficulties))
	for _, d := range c.Difficulties {
		extra = append(extra, mines.Difficulty{
			Name:      d.Name,
			Rows:      d.Rows,
			Cols:      d.Cols,
			MineCount: d.Mines,
		})
	}
	return mines.DefaultPresets().With(extra...)
}

// Upgrader accepts any websocket handshake in development. Otherwise only
// same-origin handshakes and those from cors.allowed_origins pass.
func (c Config) Upgrader() *websocket.Upgrader {
	u := &websocket.Upgrader{}
	switch {
	case c.Development():
		u.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	case len(c.Cors.AllowedOrigins) > 0:
		allowed := slices.Clone(c.Cors.AllowedOrigins)
		u.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(allowed, origin) {
				return true
			}
			parsed, err := url.Parse(origin)
			return err == nil && strings.EqualFold(parsed.Host, r.Host)
		}
	}
	return u
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                    c.Mode,
		"addr":                    c.Addr,
		"base_path":               c.BasePath,
		"log_level":               c.Log.Level,
		"log_file":                c.Log.File,
		"jwt_secret_set":          c.JWT.Secret != "",
		"jwt_token_lifetime":      c.JWT.TokenLifetime.String(),
		"cookies_domain":          c.Cookies.Domain,
		"cookies_secure":          c.Cookies.Secure,
		"cookies_samesite":        c.Cookies.SameSite,
		"cors_allowed_origins":    c.Cors.AllowedOrigins,
		"sessions_idle_timeout":   c.Sessions.IdleTimeout.String(),
		"sessions_sweep_interval": c.Sessions.SweepInterval.String(),
		"sessions_max":            c.Sessions.Max,
		"difficulties":            len(c.Difficulties),
	}
}
