package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "WDP"

// envAliases are the variable names the service has always been deployed with.
var envAliases = map[string][]string{
	"storage.bucket": {"GCS_BUCKET_NAME"},
	"server.port":    {"PORT"},
}

// Load reads configuration from defaults, an optional YAML file, a .env file and the
// environment, in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := NewDefaultConfig()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaultsFromStructRecursive(reflect.ValueOf(cfg), "", v)

	v.AutomaticEnv()

	for key, aliases := range envAliases {
		names := append([]string{envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func SetDefaultsFromStructRecursive(v reflect.Value, prefix string, vp *viper.Viper) {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !fieldValue.CanInterface() {
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			key = strings.ToLower(field.Name)
		}

		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if fieldValue.Kind() == reflect.Struct {
			SetDefaultsFromStructRecursive(fieldValue, fullKey, vp)
		} else {
			vp.SetDefault(fullKey, fieldValue.Interface())
		}
	}
}
