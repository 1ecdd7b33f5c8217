// Package inflect derives the singular and plural forms of a model name.
//
// The singular form is the model's file stem and export key ("Post"); the
// plural form is the route file stem and URL mount segment ("posts").
package inflect

import (
	"regexp"
	"strings"

	"github.com/NielsdaWheelz/vulegen/internal/errors"
)

// ModelName holds both forms of a model name.
type ModelName struct {
	Singular string // capitalized, e.g. "Post"
	Plural   string // lower-case, e.g. "posts"
}

// Config holds inflection customization options.
type Config struct {
	Backend string `mapstructure:"backend"`

	// PluralOverrides maps singular -> custom plural
	// Example: {"person": "persons"}
	PluralOverrides map[string]string `mapstructure:"plural_overrides"`

	// SingularOverrides maps plural -> custom singular
	// Example: {"data": "datum"}
	SingularOverrides map[string]string `mapstructure:"singular_overrides"`
}

var wordPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// Inflector classifies user-supplied model names.
type Inflector struct {
	dict       Dictionary
	pluralOf   map[string]string // singular -> plural
	singularOf map[string]string // plural -> singular
}

// New creates an Inflector for cfg.
func New(cfg Config) (*Inflector, error) {
	dict, err := NewDictionary(cfg.Backend)
	if err != nil {
		return nil, errors.Wrap(errors.EConfigInvalid, err.Error(), err)
	}
	return NewWithDictionary(dict, cfg.PluralOverrides, cfg.SingularOverrides), nil
}

// NewWithDictionary creates an Inflector over an explicit dictionary.
// Each override is registered in both directions.
func NewWithDictionary(dict Dictionary, pluralOverrides, singularOverrides map[string]string) *Inflector {
	in := &Inflector{
		dict:       dict,
		pluralOf:   make(map[string]string),
		singularOf: make(map[string]string),
	}
	for s, p := range pluralOverrides {
		in.register(s, p)
	}
	for p, s := range singularOverrides {
		in.register(s, p)
	}
	return in
}

func (in *Inflector) register(singular, plural string) {
	singular = strings.ToLower(strings.TrimSpace(singular))
	plural = strings.ToLower(strings.TrimSpace(plural))
	if singular == "" || plural == "" {
		return
	}
	in.pluralOf[singular] = plural
	in.singularOf[plural] = singular
}

// Classify lower-cases name and decides whether it is a singular or plural
// noun, deriving the missing form. Singular input wins when a word is both
// (uncountables such as "sheep").
//
// Returns E_UNRECOGNIZED_WORD when name is not a single ASCII word or when the
// dictionary cannot place it consistently in either form.
func (in *Inflector) Classify(name string) (ModelName, error) {
	word := strings.ToLower(strings.TrimSpace(name))
	if !wordPattern.MatchString(word) {
		return ModelName{}, unrecognized(name)
	}

	if plural, ok := in.pluralOf[word]; ok {
		return newModelName(word, plural), nil
	}
	if singular, ok := in.singularOf[word]; ok {
		return newModelName(singular, word), nil
	}

	if in.dict.IsSingular(word) {
		plural := strings.ToLower(in.dict.Plural(word))
		if strings.EqualFold(in.dict.Singular(plural), word) && wordPattern.MatchString(plural) {
			return newModelName(word, plural), nil
		}
	}
	if in.dict.IsPlural(word) {
		singular := strings.ToLower(in.dict.Singular(word))
		if strings.EqualFold(in.dict.Plural(singular), word) && wordPattern.MatchString(singular) {
			return newModelName(singular, word), nil
		}
	}
	return ModelName{}, unrecognized(name)
}

func newModelName(singular, plural string) ModelName {
	return ModelName{Singular: Capitalize(singular), Plural: plural}
}

func unrecognized(name string) error {
	return errors.NewWithDetails(errors.EUnrecognizedWord,
		"unrecognized word; please enter an English noun as the model name",
		map[string]string{"name": name})
}

// Capitalize upper-cases the first byte of an ASCII word.
func Capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
