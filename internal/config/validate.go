package config

import (
	"fmt"
	"strings"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
	"github.com/NielsdaWheelz/vulegen/internal/index"
	"github.com/NielsdaWheelz/vulegen/internal/inflect"
	"github.com/NielsdaWheelz/vulegen/internal/logging"
)

// ValidationError represents a single validation error with field context.
type ValidationError struct {
	Field string
	Msg   string
}

func (v *ValidationError) Error() string {
	if v.Field != "" {
		return v.Field + ": " + v.Msg
	}
	return v.Msg
}

// Validate checks cfg and normalizes its enumerations in place.
// Returns E_CONFIG_INVALID with a "field" detail on the first failure.
func Validate(cfg *Config) error {
	if err := validate(cfg); err != nil {
		return errors.WrapWithDetails(errors.EConfigInvalid, "invalid configuration: "+err.Error(), err,
			map[string]string{"field": err.Field})
	}
	return nil
}

func validate(cfg *Config) *ValidationError {
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return &ValidationError{Field: "log.level", Msg: err.Error()}
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	switch f := strings.ToLower(strings.TrimSpace(cfg.Log.Format)); f {
	case "", "text", "json":
		cfg.Log.Format = f
	default:
		return &ValidationError{Field: "log.format", Msg: fmt.Sprintf("unknown log format %q (want text or json)", cfg.Log.Format)}
	}

	if _, err := inflect.NewDictionary(cfg.Inflection.Backend); err != nil {
		return &ValidationError{Field: "inflection.backend", Msg: err.Error()}
	}
	for k, v := range cfg.Inflection.PluralOverrides {
		if !isWord(k) || !isWord(v) {
			return &ValidationError{Field: "inflection.plural_overrides", Msg: fmt.Sprintf("%q -> %q must be alphanumeric words", k, v)}
		}
	}
	for k, v := range cfg.Inflection.SingularOverrides {
		if !isWord(k) || !isWord(v) {
			return &ValidationError{Field: "inflection.singular_overrides", Msg: fmt.Sprintf("%q -> %q must be alphanumeric words", k, v)}
		}
	}

	mode, err := index.ParseSortMode(cfg.Index.Sort)
	if err != nil {
		return &ValidationError{Field: "index.sort", Msg: err.Error()}
	}
	cfg.Index.Sort = string(mode)

	if cfg.Lock.StaleAfter <= 0 {
		return &ValidationError{Field: "lock.stale_after", Msg: "must be positive"}
	}
	return nil
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
