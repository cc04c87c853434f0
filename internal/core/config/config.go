package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Upstream holds the commerce API connection details.
	Upstream UpstreamConfig `mapstructure:",squash"`

	// Redis holds the snapshot cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Polling holds the tracking refresh loop configuration.
	Polling PollingConfig `mapstructure:",squash"`
}

// UpstreamConfig holds the connection details for the commerce API
// that owns orders, delivery assignments and their lifecycle.
type UpstreamConfig struct {
	// BaseURL is the base URL of the commerce API.
	BaseURL string `mapstructure:"UPSTREAM_URL" required:"true"`
	// AccessToken is the initial bearer access token for the API session.
	AccessToken string `mapstructure:"UPSTREAM_ACCESS_TOKEN"`
	// RefreshToken is used to silently renew the access token after a 401.
	RefreshToken string `mapstructure:"UPSTREAM_REFRESH_TOKEN"`
	// TimeoutSeconds is the per-request timeout for upstream calls.
	TimeoutSeconds int `mapstructure:"UPSTREAM_TIMEOUT_SECONDS" default:"10"`
}

// RedisConfig holds the last-known-good snapshot cache settings.
type RedisConfig struct {
	// URL is the Redis connection URL. Empty disables the snapshot cache.
	URL string `mapstructure:"REDIS_URL"`
	// SnapshotTTLSeconds is how long a cached tracking snapshot stays valid.
	SnapshotTTLSeconds int `mapstructure:"SNAPSHOT_TTL_SECONDS" default:"900"`
}

// PollingConfig holds the background refresh loop settings.
type PollingConfig struct {
	// IntervalSeconds is the fixed delay between silent tracking refreshes.
	IntervalSeconds int `mapstructure:"POLL_INTERVAL_SECONDS" default:"30"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
