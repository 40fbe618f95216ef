package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "PULSE"

// newViper builds a pre-configured Viper instance: YAML file type, PULSE_ env
// prefix, automatic env binding, and a key replacer that maps "." to "_" so
// that nested keys like "database.host" resolve to "PULSE_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvKeys(v)
	return v
}

// bindEnvKeys registers every known key so that Unmarshal sees environment
// overrides even when the key is absent from the config file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
		"server.shutdown_timeout", "server.max_body_size",
		"database.enabled", "database.host", "database.port", "database.user",
		"database.password", "database.db_name", "database.ssl_mode", "database.max_conns",
		"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.key_prefix",
		"kafka.enabled", "kafka.brokers", "kafka.group_id",
		"minio.enabled", "minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
		"upstream.base_url", "upstream.token", "upstream.timeout",
		"board.source", "board.default_sort", "board.default_order", "board.cache_ttl",
		"board.memo_size", "board.snapshot_on_change",
		"log.level", "log.format",
		"metrics.enabled", "metrics.namespace",
	} {
		_ = v.BindEnv(key)
	}
}

// Load reads the YAML file at configPath, merges any PULSE_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from PULSE_* environment variables,
// with no config file required.
//
//	PULSE_<SECTION>_<FIELD>   e.g.  PULSE_DATABASE_HOST, PULSE_BOARD_SOURCE
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file changes on disk.  Callers apply only what can change at
// runtime, which today is the log level.  A change that fails to
// parse or validate is reported through onError, when given, and onChange is
// not called.
func Watch(configPath string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad wraps Load and panics on any error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
