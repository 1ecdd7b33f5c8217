package inflect

import (
	"fmt"
	"strings"

	"github.com/gertd/go-pluralize"
	"github.com/jinzhu/inflection"
)

// Backend names accepted by NewDictionary.
const (
	BackendPluralize  = "pluralize"
	BackendInflection = "inflection"
)

// Dictionary answers singular/plural questions about English nouns.
type Dictionary interface {
	Plural(word string) string
	Singular(word string) string
	IsPlural(word string) bool
	IsSingular(word string) bool
}

// NewDictionary returns the dictionary for backend. Empty selects pluralize.
func NewDictionary(backend string) (Dictionary, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendPluralize:
		return pluralizeDictionary{client: pluralize.NewClient()}, nil
	case BackendInflection:
		return inflectionDictionary{classifier: pluralize.NewClient()}, nil
	default:
		return nil, fmt.Errorf("unknown inflection backend %q (want %s or %s)", backend, BackendPluralize, BackendInflection)
	}
}

// pluralizeDictionary uses go-pluralize, whose rule tables and irregular/uncountable
// lists classify a word directly.
type pluralizeDictionary struct {
	client *pluralize.Client
}

func (d pluralizeDictionary) Plural(word string) string   { return d.client.Plural(word) }
func (d pluralizeDictionary) Singular(word string) string { return d.client.Singular(word) }
func (d pluralizeDictionary) IsPlural(word string) bool   { return d.client.IsPlural(word) }
func (d pluralizeDictionary) IsSingular(word string) bool { return d.client.IsSingular(word) }

// inflectionDictionary uses jinzhu/inflection for the forms. jinzhu only
// transforms words and cannot tell "cactus" from "posts" (both pluralize to
// themselves), so the part of speech comes from go-pluralize and must agree
// with a jinzhu round trip: singular w needs Singular(Plural(w)) == w, plural
// w needs Plural(Singular(w)) == w. Classify rejects a word that is neither.
type inflectionDictionary struct {
	classifier *pluralize.Client
}

func (inflectionDictionary) Plural(word string) string   { return inflection.Plural(word) }
func (inflectionDictionary) Singular(word string) string { return inflection.Singular(word) }

func (d inflectionDictionary) IsSingular(word string) bool {
	return d.classifier.IsSingular(word) &&
		strings.EqualFold(inflection.Singular(inflection.Plural(word)), word)
}

func (d inflectionDictionary) IsPlural(word string) bool {
	return d.classifier.IsPlural(word) &&
		strings.EqualFold(inflection.Plural(inflection.Singular(word)), word)
}
