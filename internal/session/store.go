// Package session holds the mutable configuration a user is editing: the
// active mode plus a value for every declared parameter.
package session

import (
	"fmt"
	"maps"

	"github.com/example/rvcgen/internal/schema"
)

// Configuration is a point-in-time copy of a Store.
type Configuration struct {
	Mode   schema.Mode    `json:"mode"`
	Values map[string]any `json:"values"`
}

// Clone returns a deep copy of c.
func (c Configuration) Clone() Configuration {
	return Configuration{Mode: c.Mode, Values: maps.Clone(c.Values)}
}

// Store is the single mutable configuration of an editing session. Values
// always hold an entry for every key in the schema. A Store is not safe for
// concurrent use.
type Store struct {
	schema      *schema.Schema
	initialMode schema.Mode
	mode        schema.Mode
	values      map[string]any
}

// Option configures a Store.
type Option func(*Store)

// WithInitialMode sets the mode used at creation and restored by Reset.
// Invalid modes are ignored.
func WithInitialMode(m schema.Mode) Option {
	return func(s *Store) {
		if m.Valid() {
			s.initialMode = m
		}
	}
}

// New returns a store holding schema defaults in the initial mode (tts unless
// overridden).
func New(sc *schema.Schema, opts ...Option) *Store {
	s := &Store{schema: sc, initialMode: schema.ModeTTS}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Schema returns the schema the store validates against.
func (s *Store) Schema() *schema.Schema { return s.schema }

// Mode returns the active mode.
func (s *Store) Mode() schema.Mode { return s.mode }

// Value returns the current value for key.
func (s *Store) Value(key string) (any, error) {
	if !s.schema.Has(key) {
		return nil, fmt.Errorf("%w %q", schema.ErrUnknownParameter, key)
	}
	return s.values[key], nil
}

// SetValue validates v against the descriptor for key and stores the
// canonical form. Nothing else changes.
func (s *Store) SetValue(key string, v any) error {
	d, err := s.schema.Describe(key)
	if err != nil {
		return err
	}
	canonical, err := d.Coerce(v)
	if err != nil {
		return err
	}
	s.values[key] = canonical
	return nil
}

// SetText parses text according to the descriptor for key and stores it.
func (s *Store) SetText(key, text string) error {
	d, err := s.schema.Describe(key)
	if err != nil {
		return err
	}
	v, err := d.Parse(text)
	if err != nil {
		return err
	}
	s.values[key] = v
	return nil
}

// SetMode switches the active mode. Parameter values are kept so that
// switching back restores what the user entered.
func (s *Store) SetMode(m schema.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w %q", schema.ErrInvalidMode, m)
	}
	s.mode = m
	return nil
}

// Reset restores every value to its default and the mode to the initial mode.
func (s *Store) Reset() {
	s.values = s.schema.Defaults()
	s.mode = s.initialMode
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() Configuration {
	return Configuration{Mode: s.mode, Values: maps.Clone(s.values)}
}
