// Package config loads storefront settings from flags, environment and an
// optional config file through viper.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"aeroparts/cart"
	"aeroparts/checkout"
	"aeroparts/store"
)

// EnvPrefix is prepended to environment overrides, e.g. AEROPARTS_TAX_RATE.
const EnvPrefix = "AEROPARTS"

// Config holds all settings for the storefront binary.
type Config struct {
	LogLevel  string `mapstructure:"log-level" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log-format" validate:"oneof=text json"`

	Store     string        `mapstructure:"store" validate:"oneof=memory mem file redis"`
	StoreFile string        `mapstructure:"store-file" validate:"required_if=Store file"`
	RedisAddr string        `mapstructure:"redis-addr" validate:"required_if=Store redis"`
	RedisTTL  time.Duration `mapstructure:"redis-ttl" validate:"gte=0"`

	Session string `mapstructure:"session" validate:"required"`
	Dataset string `mapstructure:"dataset"`

	ShippingRate int64   `mapstructure:"shipping-rate" validate:"gte=0"`
	TaxRate      float64 `mapstructure:"tax-rate" validate:"gte=0,lte=1"`
	Locale       string  `mapstructure:"locale" validate:"bcp47_language_tag"`

	PaymentDelay time.Duration `mapstructure:"payment-delay" validate:"gte=0"`
	HTTPAddr     string        `mapstructure:"http-addr" validate:"required"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Store:        "file",
		StoreFile:    "data/state.json",
		RedisAddr:    "localhost:6379",
		RedisTTL:     7 * 24 * time.Hour,
		Session:      "default",
		ShippingRate: cart.DefaultShippingFlatRate,
		TaxRate:      0.19,
		Locale:       "es-CO",
		PaymentDelay: checkout.DefaultPaymentDelay,
		HTTPAddr:     ":8080",
	}
}

// SetDefaults registers Defaults with v and enables environment overrides.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("store", d.Store)
	v.SetDefault("store-file", d.StoreFile)
	v.SetDefault("redis-addr", d.RedisAddr)
	v.SetDefault("redis-ttl", d.RedisTTL)
	v.SetDefault("session", d.Session)
	v.SetDefault("dataset", d.Dataset)
	v.SetDefault("shipping-rate", d.ShippingRate)
	v.SetDefault("tax-rate", d.TaxRate)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("payment-delay", d.PaymentDelay)
	v.SetDefault("http-addr", d.HTTPAddr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads the config file named by the "config" key, if any, and decodes
// and validates the result.
func Load(v *viper.Viper) (Config, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every setting and reports all violations.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed on '%s' (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Pricing returns the cart pricing settings.
func (c Config) Pricing() cart.Pricing {
	return cart.Pricing{
		ShippingFlatRate: c.ShippingRate,
		TaxRate:          decimal.NewFromFloat(c.TaxRate),
	}
}

// StoreOptions returns the state backend selection.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Kind:      c.Store,
		Path:      c.StoreFile,
		RedisAddr: c.RedisAddr,
		RedisTTL:  c.RedisTTL,
	}
}

// LocaleTag parses Locale, falling back to Colombian Spanish.
func (c Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.MustParse("es-CO")
	}
	return tag
}

// Level maps LogLevel to a slog level.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
