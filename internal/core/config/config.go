package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

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

	// LogFile configures the optional rotating log file.
	LogFile LogFileConfig `mapstructure:",squash"`

	// Database holds the database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the Redis connection used for tokens, quotes and dispatch locks.
	Redis RedisConfig `mapstructure:",squash"`

	// Dispatch tunes the quote aggregator and the dispatch orchestrator.
	Dispatch DispatchConfig `mapstructure:",squash"`

	// Uber holds the platform-wide Uber Direct credentials.
	Uber UberConfig `mapstructure:",squash"`

	// DoorDash holds the platform-wide DoorDash Drive credentials.
	DoorDash DoorDashConfig `mapstructure:",squash"`

	// Proxy configures an optional outbound proxy for provider API calls.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// LogFileConfig holds the rotation settings for the log file sink.
type LogFileConfig struct {
	// Path is the log file location. Empty disables the file sink.
	Path string `mapstructure:"LOG_FILE"`
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int `mapstructure:"LOG_MAX_SIZE_MB" default:"100"`
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `mapstructure:"LOG_MAX_BACKUPS" default:"5"`
	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int `mapstructure:"LOG_MAX_AGE_DAYS" default:"30"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// Driver selects the GORM dialect: sqlite or postgres.
	Driver string `mapstructure:"DB_DRIVER" default:"sqlite"`
	// DSN is the driver specific connection string.
	DSN string `mapstructure:"DB_DSN" default:"file:smart_dispatch.db?cache=shared"`
	// AutoMigrate runs schema migrations on startup.
	AutoMigrate bool `mapstructure:"DB_AUTO_MIGRATE" default:"true"`
	// MaxOpenConns caps the connection pool. Zero leaves the driver default.
	MaxOpenConns int `mapstructure:"DB_MAX_OPEN_CONNS" default:"10"`
	// MaxIdleConns caps idle pooled connections.
	MaxIdleConns int `mapstructure:"DB_MAX_IDLE_CONNS" default:"5"`
	// ConnMaxLifetimeSeconds recycles pooled connections.
	ConnMaxLifetimeSeconds int `mapstructure:"DB_CONN_MAX_LIFETIME_SECONDS" default:"300"`
}

// RedisConfig holds the Redis connection URL.
type RedisConfig struct {
	// URL has the format redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" required:"true"`
}

// DispatchConfig holds the smart dispatch tunables.
type DispatchConfig struct {
	// ProviderTimeoutSeconds bounds each provider quote request.
	ProviderTimeoutSeconds int `mapstructure:"PROVIDER_TIMEOUT_SECONDS" default:"8"`
	// LockTTLSeconds bounds how long a per-order dispatch lock may be held.
	LockTTLSeconds int `mapstructure:"DISPATCH_LOCK_TTL_SECONDS" default:"120"`
	// MockUnconfiguredProviders lets providers without credentials answer with mock quotes.
	MockUnconfiguredProviders bool `mapstructure:"MOCK_UNCONFIGURED_PROVIDERS" default:"true"`
	// AssumedDistanceMiles is the trip length used for mock fee synthesis.
	AssumedDistanceMiles float64 `mapstructure:"ASSUMED_DISTANCE_MILES" default:"3.5"`
}

// ProviderTimeout returns the per-provider quote timeout.
func (d DispatchConfig) ProviderTimeout() time.Duration {
	return time.Duration(d.ProviderTimeoutSeconds) * time.Second
}

// LockTTL returns the dispatch lock lifetime.
func (d DispatchConfig) LockTTL() time.Duration {
	return time.Duration(d.LockTTLSeconds) * time.Second
}

// UberConfig holds the global Uber Direct credentials used when a tenant has none.
type UberConfig struct {
	ClientID     string `mapstructure:"UBER_CLIENT_ID"`
	ClientSecret string `mapstructure:"UBER_CLIENT_SECRET"`
	CustomerID   string `mapstructure:"UBER_CUSTOMER_ID"`
	Sandbox      bool   `mapstructure:"UBER_SANDBOX"`
	// APIURL is the Uber Direct REST base URL.
	APIURL string `mapstructure:"UBER_API_URL" default:"https://api.uber.com/v1"`
	// AuthURL is the OAuth token endpoint.
	AuthURL string `mapstructure:"UBER_AUTH_URL" default:"https://auth.uber.com/oauth/v2/token"`
}

// DoorDashConfig holds the global DoorDash Drive credentials used when a tenant has none.
type DoorDashConfig struct {
	DeveloperID   string `mapstructure:"DOORDASH_DEVELOPER_ID"`
	KeyID         string `mapstructure:"DOORDASH_KEY_ID"`
	SigningSecret string `mapstructure:"DOORDASH_SIGNING_SECRET"`
	Sandbox       bool   `mapstructure:"DOORDASH_SANDBOX"`
	// APIURL is the DoorDash Drive REST base URL.
	APIURL string `mapstructure:"DOORDASH_API_URL" default:"https://openapi.doordash.com"`
}

// ProxyConfig holds outbound proxy settings.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED"`
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
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
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind env %s: %w", key, err)
			}
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
