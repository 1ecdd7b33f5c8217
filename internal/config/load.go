package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
)

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit settings file; it must exist when set.
	ConfigFile string
	// SearchDirs are searched in order for vulegen.yaml when ConfigFile is empty.
	SearchDirs []string
	// Flags holds the parsed command flags; only changed flags override.
	Flags *pflag.FlagSet
}

// flags that are not settings keys
var nonSettingFlags = map[string]bool{
	"config":  true,
	"dir":     true,
	"help":    true,
	"version": true,
	"verbose": true,
	"install": true,
	"json":    true,
}

// DefineFlags registers the settings flags on fs using canonical keys.
func DefineFlags(fs *pflag.FlagSet) {
	fs.String("log.level", "", "Log level (debug, info, warn, error)")
	fs.String("log.format", "", "Log format (text, json)")
	fs.String("inflection.backend", "", "Inflection dictionary (pluralize, inflection)")
	fs.String("index.sort", "", "Index entry order (key, line)")
	fs.Duration("lock.stale_after", 0, "Age after which a project lock may be stolen")
}

// Load resolves the configuration with the following precedence:
// 1. Changed command flags (--verbose implies log.level=debug)
// 2. Environment variables (VULEGEN_*)
// 3. Settings file
// 4. Default values
//
// Errors carry E_CONFIG_INVALID.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range opts.SearchDirs {
			if dir != "" {
				v.AddConfigPath(dir)
			}
		}
	}

	if opts.ConfigFile != "" || len(opts.SearchDirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			if opts.ConfigFile != "" {
				return nil, errors.WrapWithDetails(errors.EConfigInvalid,
					fmt.Sprintf("failed to read config file %q", opts.ConfigFile), err,
					map[string]string{"file": opts.ConfigFile})
			}
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(errors.EConfigInvalid, "failed to read config file", err)
			}
		}
	}

	// Canonical keys: dot + snake_case
	// Env vars: VULEGEN_LOCK_STALE_AFTER
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		bindChangedFlags(v, opts.Flags)
	}

	var cfg Config
	if err := v.UnmarshalExact(
		&cfg,
		viper.DecodeHook(
			mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				stringToStringMapHookFunc(",", "="),
			),
		),
	); err != nil {
		return nil, errors.Wrap(errors.EConfigInvalid, "failed to unmarshal config", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default values (lowest precedence).
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("inflection.backend", "pluralize")
	v.SetDefault("inflection.plural_overrides", map[string]string{})
	v.SetDefault("inflection.singular_overrides", map[string]string{})

	v.SetDefault("index.sort", "key")

	v.SetDefault("lock.stale_after", 10*time.Minute)
}

// bindChangedFlags copies only explicitly-set flags into viper,
// preserving precedence: flags > env > file > defaults.
func bindChangedFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "verbose" {
			if on, _ := fs.GetBool("verbose"); on {
				v.Set("log.level", "debug")
			}
			return
		}
		if nonSettingFlags[f.Name] {
			return
		}

		switch f.Value.Type() {
		case "duration":
			val, _ := fs.GetDuration(f.Name)
			v.Set(f.Name, val)
		case "bool":
			val, _ := fs.GetBool(f.Name)
			v.Set(f.Name, val)
		default:
			v.Set(f.Name, f.Value.String())
		}
	})
}

// stringToStringMapHookFunc decodes "a=b,c=d" (as given in an environment
// variable) into a map.
func stringToStringMapHookFunc(sep, kv string) mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(map[string]string{}) {
			return data, nil
		}

		out := map[string]string{}
		raw := strings.TrimSpace(data.(string))
		if raw == "" {
			return out, nil
		}
		for _, pair := range strings.Split(raw, sep) {
			k, val, ok := strings.Cut(pair, kv)
			k, val = strings.TrimSpace(k), strings.TrimSpace(val)
			if !ok || k == "" || val == "" {
				return nil, fmt.Errorf("invalid map entry %q (want key%svalue)", pair, kv)
			}
			out[k] = val
		}
		return out, nil
	}
}
