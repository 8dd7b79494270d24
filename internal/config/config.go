// Package config loads the application configuration from defaults, command
// line flags and environment variables (in that order of precedence, the
// environment winning) and validates the result.
package config

import (
	"flag"
	"log"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the application. SessionSigningKey
// is the only required one: without it session cookies cannot be signed, so
// its absence is a startup configuration error.
type Config struct {
	RunAddr           string `env:"SERVER_ADDRESS" validate:"hostname_port"`
	ShortURLBase      string `env:"BASE_URL" validate:"url"`
	LogLevel          string `env:"LOG_LEVEL" validate:"loglevel"`
	SessionCookieName string `env:"SESSION_COOKIE_NAME" validate:"required"`
	VisitorCookieName string `env:"VISITOR_COOKIE_NAME" validate:"required"`

	// SessionSigningKey is the base64 (URL encoding) key for session JWTs.
	SessionSigningKey string `env:"SESSION_SIGNING_KEY" validate:"required"`

	// TrustedSubnet is the CIDR allowed to call the internal stats
	// endpoint; empty disables the endpoint.
	TrustedSubnet string `env:"TRUSTED_SUBNET" validate:"omitempty,cidr"`
}

var defaultConfig = Config{
	RunAddr:           ":8080",
	ShortURLBase:      "http://localhost:8080",
	LogLevel:          "info",
	SessionCookieName: "tinyapp_session",
	VisitorCookieName: "tinyapp_visitor",
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[fieldLevel.Field().String()]
}

func (c *Config) validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	return validate.Struct(c)
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

// InitOption customizes config loading.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips flag.Parse, which is required when the
// config is built inside tests.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New loads and validates the configuration.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.ShortURLBase, "b", values.ShortURLBase, "base address of the resulting shortened URL")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.TrustedSubnet, "t", values.TrustedSubnet, "CIDR of the subnet trusted with the internal stats endpoint")
		flag.Parse()
	}

	valuesFromEnv := Config{}
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		values.RunAddr = valuesFromEnv.RunAddr
	}
	if valuesFromEnv.ShortURLBase != "" {
		values.ShortURLBase = valuesFromEnv.ShortURLBase
	}
	if valuesFromEnv.LogLevel != "" {
		values.LogLevel = valuesFromEnv.LogLevel
	}
	if valuesFromEnv.SessionCookieName != "" {
		values.SessionCookieName = valuesFromEnv.SessionCookieName
	}
	if valuesFromEnv.VisitorCookieName != "" {
		values.VisitorCookieName = valuesFromEnv.VisitorCookieName
	}
	if valuesFromEnv.SessionSigningKey != "" {
		values.SessionSigningKey = valuesFromEnv.SessionSigningKey
	}
	if valuesFromEnv.TrustedSubnet != "" {
		values.TrustedSubnet = valuesFromEnv.TrustedSubnet
	}

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}
