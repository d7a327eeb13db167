package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const envPrefix = "GATEWAY"

type ConfigHandler struct {
	mainViper   *viper.Viper
	secretViper *viper.Viper
	lock        *sync.Mutex
}

func (c *ConfigHandler) HandleChanges(callback func(Config, error)) {
	c.mainViper.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("CONFIG", "message", "main config file changed", "path", e.Name)
		callback(c.Config())
	})
	c.secretViper.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("CONFIG", "message", "secret config file changed", "path", e.Name)
		callback(c.Config())
	})
}

// Creates a configuration handler that reads the configuration files, merges them and can watch
// them for changes. Arrays are replaced and not merged. The order of preference from most
// preferred to least is environment variables (prefixed with GATEWAY_), secret config, non-secret
// config and finally the built-in defaults. A .env file in the working directory is loaded into
// the environment if present.
func NewConfigHandler() *ConfigHandler {
	main := viper.New()
	main.SetConfigType("yaml")
	main.SetConfigName("config")
	secret := viper.New()
	secret.SetConfigType("yaml")
	secret.SetConfigName("secret_config")
	// Viper uses the first path where a file is found so CONFIG_LOCATION always wins
	configPaths := []string{}
	configPathEnv := os.Getenv("CONFIG_LOCATION")
	if configPathEnv != "" {
		configPaths = append(configPaths, configPathEnv)
	}
	configPaths = append(configPaths, "/etc/gateway", ".")
	for _, path := range configPaths {
		main.AddConfigPath(path)
		secret.AddConfigPath(path)
	}
	return &ConfigHandler{secretViper: secret, mainViper: main, lock: &sync.Mutex{}}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("runningEnvironment", string(Development))
	v.SetDefault("debugMode", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rateLimits.enabled", false)
	v.SetDefault("server.rateLimits.rate", 20)
	v.SetDefault("server.rateLimits.burst", 40)
	v.SetDefault("server.allowOrigin", []string{})
	v.SetDefault("backend.baseURL", "http://localhost:8000/api")
	v.SetDefault("backend.timeoutSeconds", 30)
	v.SetDefault("backend.refreshTimeoutSeconds", 10)
	v.SetDefault("backend.apiBasePath", "/api")
	v.SetDefault("backend.paths.login", "/auth/login")
	v.SetDefault("backend.paths.logout", "/auth/logout")
	v.SetDefault("backend.paths.refresh", "/auth/refresh")
	v.SetDefault("backend.paths.profile", "/users/profile")
	v.SetDefault("backend.paths.status", "/auth/status")
	v.SetDefault("backend.paths.register", "/users/register")
	v.SetDefault("backend.adminRoleID", 1)
	v.SetDefault("sessions.idleSessionTTLSeconds", 86400)
	v.SetDefault("sessions.maxSessionTTLSeconds", 604800)
	v.SetDefault("sessions.clientIdleSweepSeconds", 300)
	v.SetDefault("redis.type", DBTypeRedisMock)
	v.SetDefault("redis.addresses", []string{})
	v.SetDefault("redis.isSentinel", false)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.masterName", "")
	v.SetDefault("redis.dbIndex", 0)
	v.SetDefault("tokenEncryption.enabled", false)
	v.SetDefault("tokenEncryption.secretKey", "")
	v.SetDefault("monitoring.sentry.enabled", false)
	v.SetDefault("monitoring.sentry.dsn", "")
	v.SetDefault("monitoring.sentry.environment", "")
	v.SetDefault("monitoring.sentry.sampleRate", 0)
	v.SetDefault("monitoring.prometheus.enabled", false)
	v.SetDefault("monitoring.prometheus.port", 8765)
}

func readOptional(v *viper.Viper, name string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		slog.Info("CONFIG", "message", "could not find config file, skipping it", "file", name)
		return nil
	}
	return err
}

func (c *ConfigHandler) getConfig() (Config, error) {
	var output Config
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot load .env file: %w", err)
	}
	err = readOptional(c.mainViper, "config")
	if err != nil {
		return Config{}, err
	}
	err = readOptional(c.secretViper, "secret_config")
	if err != nil {
		return Config{}, err
	}
	merged := viper.New()
	setDefaults(merged)
	err = merged.MergeConfigMap(c.mainViper.AllSettings())
	if err != nil {
		return Config{}, err
	}
	// the secret config overwrites anything from the non-secret configuration
	err = merged.MergeConfigMap(c.secretViper.AllSettings())
	if err != nil {
		return Config{}, err
	}
	// env variables overwrite everything else if set
	for _, key := range merged.AllKeys() {
		envKey := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		err := merged.BindEnv(key, envKey)
		if err != nil {
			return Config{}, fmt.Errorf("unable to bind env variable %s: %w", envKey, err)
		}
	}
	err = merged.Unmarshal(
		&output,
		viper.DecodeHook(
			mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				parseStringAsURL(),
			),
		),
	)
	if err != nil {
		return Config{}, err
	}
	err = output.Validate()
	if err != nil {
		return Config{}, err
	}
	return output, nil
}

func (c *ConfigHandler) Config() (Config, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.getConfig()
}

func (c *ConfigHandler) Watch() {
	c.mainViper.WatchConfig()
	c.secretViper.WatchConfig()
}

func parseStringAsURL() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (interface{}, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(url.URL{}) {
			return data, nil
		}
		dataStr, ok := data.(string)
		if !ok {
			return nil, fmt.Errorf("cannot cast URL value to string")
		}
		if dataStr == "" {
			return nil, fmt.Errorf("empty values are not allowed for URLs")
		}
		parsed, err := url.Parse(strings.TrimSuffix(dataStr, "/"))
		if err != nil {
			return nil, err
		}
		return parsed, nil
	}
}
