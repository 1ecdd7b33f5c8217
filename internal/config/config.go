// Package config loads vulegen's own settings.
//
// Settings are layered with viper, lowest precedence first: defaults, a
// vulegen.yaml file, VULEGEN_* environment variables, then command flags.
package config

import (
	"time"

	"github.com/NielsdaWheelz/vulegen/internal/inflect"
	"github.com/NielsdaWheelz/vulegen/internal/logging"
)

// EnvPrefix is the prefix of environment variables read as settings.
// Keys map as log.level -> VULEGEN_LOG_LEVEL.
const EnvPrefix = "VULEGEN"

// FileName is the settings file base name searched for when no explicit
// --config is given.
const FileName = "vulegen"

// Config is the fully resolved tool configuration.
type Config struct {
	Log        logging.Config `mapstructure:"log"`
	Inflection inflect.Config `mapstructure:"inflection"`
	Index      IndexConfig    `mapstructure:"index"`
	Lock       LockConfig     `mapstructure:"lock"`

	// File is the settings file that was read, "" when none was found.
	File string `mapstructure:"-"`
}

// IndexConfig controls how index files are re-encoded.
type IndexConfig struct {
	Sort string `mapstructure:"sort"` // key or line
}

// LockConfig controls the project lock.
type LockConfig struct {
	StaleAfter time.Duration `mapstructure:"stale_after"`
}
