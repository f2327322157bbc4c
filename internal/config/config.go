package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings. The key tags mirror the viper keys so
// validation errors can name the matching environment variable.
type Config struct {
	HTTP struct {
		Addr string `key:"addr" validate:"required,hostname_port"`
	} `key:"http"`
	DB struct {
		Driver string `key:"driver" validate:"required,oneof=sqlite3 postgres pgx mysql"`
		DSN    string `key:"dsn" validate:"required"`
	} `key:"db"`
	JWT struct {
		Secret     string        `key:"secret" validate:"required,min=16"`
		AccessTTL  time.Duration `key:"access_ttl" validate:"gt=0"`
		RefreshTTL time.Duration `key:"refresh_ttl" validate:"gtfield=AccessTTL"`
	} `key:"jwt"`
	Log struct {
		Level string `key:"level" validate:"oneof=debug info warn error"`
	} `key:"log"`
	ShortCode struct {
		Length    int `key:"length" validate:"min=1,max=16"`
		MaxLength int `key:"max_length" validate:"gtefield=Length,max=16"`
		Attempts  int `key:"attempts" validate:"min=1"`
	} `key:"shortcode"`
}

// Load reads config from an optional .env file, the environment (BOOKMARKS_
// prefix) and an optional joe-bookmarks.yaml, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("BOOKMARKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("joe-bookmarks")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:bookmarks.db")
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "720h")
	v.SetDefault("log.level", "info")
	v.SetDefault("shortcode.length", 3)
	v.SetDefault("shortcode.max_length", 6)
	v.SetDefault("shortcode.attempts", 10)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.ShortCode.Length = v.GetInt("shortcode.length")
	cfg.ShortCode.MaxLength = v.GetInt("shortcode.max_length")
	cfg.ShortCode.Attempts = v.GetInt("shortcode.attempts")

	accessTTL, err := time.ParseDuration(v.GetString("jwt.access_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKMARKS_JWT_ACCESS_TTL: %w", err)
	}
	cfg.JWT.AccessTTL = accessTTL

	refreshTTL, err := time.ParseDuration(v.GetString("jwt.refresh_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKMARKS_JWT_REFRESH_TTL: %w", err)
	}
	cfg.JWT.RefreshTTL = refreshTTL

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports the first offending setting
// by its environment variable name.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("key")
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("invalid %s: failed %q check", envName(fe.Namespace()), fe.Tag())
}

// envName maps a namespace such as "Config.jwt.access_ttl" to
// "BOOKMARKS_JWT_ACCESS_TTL".
func envName(ns string) string {
	ns = strings.TrimPrefix(ns, "Config.")
	return "BOOKMARKS_" + strings.ToUpper(strings.ReplaceAll(ns, ".", "_"))
}
