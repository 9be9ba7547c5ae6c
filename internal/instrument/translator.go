// Package instrument translates between universal instrument names used by callers
// and the broker-specific names the terminal understands.
package instrument

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrNotFound  = errors.New("instrument not found")
	ErrEmptyMap  = errors.New("instrument map is empty")
	ErrDuplicate = errors.New("instrument mapped twice")
)

// Translator is an immutable bidirectional instrument map.
type Translator struct {
	forward map[string]string // universal (upper case) -> broker
	reverse map[string]string // broker -> universal
}

// NewTranslator builds a translator from a universal -> broker map. Universal
// names are stored upper case, so two keys differing only in case are rejected
// with ErrDuplicate. When several universal names share one broker name, the
// reverse lookup returns the first in sorted order.
func NewTranslator(m map[string]string) (*Translator, error) {
	if len(m) == 0 {
		return nil, ErrEmptyMap
	}

	t := &Translator{
		forward: make(map[string]string, len(m)),
		reverse: make(map[string]string, len(m)),
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		key := Normalize(k)
		if _, ok := t.forward[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, key)
		}
		t.forward[key] = m[k]
	}
	for _, k := range slices.Sorted(maps.Keys(t.forward)) {
		broker := t.forward[k]
		if _, ok := t.reverse[broker]; !ok {
			t.reverse[broker] = k
		}
	}
	return t, nil
}

// Forward resolves a universal name, case-insensitively.
func (t *Translator) Forward(universal string) (string, error) {
	broker, ok := t.forward[Normalize(universal)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, universal)
	}
	return broker, nil
}

// Reverse resolves a broker name by exact match.
func (t *Translator) Reverse(broker string) (string, error) {
	universal, ok := t.reverse[broker]
	if !ok {
		return "", fmt.Errorf("%w: broker name %s", ErrNotFound, broker)
	}
	return universal, nil
}

// ReverseOr resolves a broker name, returning it unchanged when unknown.
func (t *Translator) ReverseOr(broker string) string {
	if universal, ok := t.reverse[broker]; ok {
		return universal
	}
	return broker
}

// Len returns the number of universal names.
func (t *Translator) Len() int { return len(t.forward) }

// Universal returns the universal names in sorted order.
func (t *Translator) Universal() []string {
	return slices.Sorted(maps.Keys(t.forward))
}

// Normalize returns the canonical (uppercased) form of a universal name.
func Normalize(s string) string {
	return cases.Upper(language.Und).String(s)
}
