// Package schema declares every parameter the voice_cloning.py tool accepts,
// together with its type, default value, flag name and owning modes.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrInvalidValue     = errors.New("invalid value")
	ErrInvalidMode      = errors.New("invalid mode")
)

// Mode is one of the mutually exclusive sub-commands of the tool.
type Mode string

const (
	ModeTTS   Mode = "tts"
	ModeInfer Mode = "infer"
	ModeBatch Mode = "batch"

	// ModeCommon scopes a parameter to every mode. It is never a valid
	// active mode.
	ModeCommon Mode = "common"
)

// Modes lists the selectable modes in display order.
var Modes = []Mode{ModeTTS, ModeInfer, ModeBatch}

// ParseMode normalizes raw and checks it names a selectable mode.
func ParseMode(raw string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(raw)))
	switch m {
	case ModeTTS, ModeInfer, ModeBatch:
		return m, nil
	default:
		return "", fmt.Errorf("%w %q (expected %s|%s|%s)", ErrInvalidMode, raw, ModeTTS, ModeInfer, ModeBatch)
	}
}

// Valid reports whether m is a selectable mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeTTS, ModeInfer, ModeBatch:
		return true
	default:
		return false
	}
}

// Descriptor describes one parameter. Descriptors are immutable once the
// schema is built.
type Descriptor struct {
	Key      string
	Kind     Kind
	Default  any
	Flag     string
	Modes    []Mode
	Required bool
	// Group is the key of the boolean toggle that gates this parameter on
	// the command line, or "" when ungated.
	Group   string
	Options []string
	Help    string
}

// InMode reports whether d applies to mode m, either directly or through
// ModeCommon.
func (d Descriptor) InMode(m Mode) bool {
	for _, dm := range d.Modes {
		if dm == m || dm == ModeCommon {
			return true
		}
	}
	return false
}

// Common reports whether d is scoped to every mode.
func (d Descriptor) Common() bool {
	for _, dm := range d.Modes {
		if dm == ModeCommon {
			return true
		}
	}
	return false
}

// Schema is an ordered, read-only set of descriptors.
type Schema struct {
	descriptors []Descriptor
	index       map[string]int
	required    map[Mode][]string
}

// New builds a schema from descriptors in declaration order. Keys must be
// unique and defaults must match their kind.
func New(descriptors []Descriptor) (*Schema, error) {
	s := &Schema{
		descriptors: make([]Descriptor, 0, len(descriptors)),
		index:       make(map[string]int, len(descriptors)),
		required:    make(map[Mode][]string),
	}

	for _, d := range descriptors {
		if d.Key == "" {
			return nil, errors.New("descriptor with empty key")
		}
		if _, dup := s.index[d.Key]; dup {
			return nil, fmt.Errorf("duplicate parameter %q", d.Key)
		}
		if len(d.Modes) == 0 {
			return nil, fmt.Errorf("parameter %q has no modes", d.Key)
		}
		if d.Flag == "" {
			d.Flag = d.Key
		}
		def, err := d.Coerce(d.Default)
		if err != nil {
			return nil, fmt.Errorf("parameter %q default: %w", d.Key, err)
		}
		d.Default = def
		d.Modes = append([]Mode(nil), d.Modes...)
		d.Options = append([]string(nil), d.Options...)

		s.index[d.Key] = len(s.descriptors)
		s.descriptors = append(s.descriptors, d)
	}

	for _, d := range s.descriptors {
		if d.Group != "" {
			g, ok := s.index[d.Group]
			if !ok {
				return nil, fmt.Errorf("parameter %q references unknown group %q", d.Key, d.Group)
			}
			if s.descriptors[g].Kind != KindBool {
				return nil, fmt.Errorf("group toggle %q must be boolean", d.Group)
			}
		}
		if !d.Required {
			continue
		}
		for _, m := range d.Modes {
			s.required[m] = append(s.required[m], d.Key)
		}
	}

	return s, nil
}

// Describe returns the descriptor for key.
func (s *Schema) Describe(key string) (Descriptor, error) {
	i, ok := s.index[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w %q", ErrUnknownParameter, key)
	}
	return s.descriptors[i], nil
}

// Has reports whether key is declared.
func (s *Schema) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Keys returns every declared key in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.descriptors))
	for i, d := range s.descriptors {
		keys[i] = d.Key
	}
	return keys
}

// Descriptors returns a copy of all descriptors in declaration order.
func (s *Schema) Descriptors() []Descriptor {
	return append([]Descriptor(nil), s.descriptors...)
}

// Defaults returns the default value of every declared parameter.
func (s *Schema) Defaults() map[string]any {
	values := make(map[string]any, len(s.descriptors))
	for _, d := range s.descriptors {
		values[d.Key] = d.Default
	}
	return values
}

// DefaultsFor returns defaults restricted to parameters that apply to m.
func (s *Schema) DefaultsFor(m Mode) map[string]any {
	values := make(map[string]any)
	for _, d := range s.descriptors {
		if d.InMode(m) {
			values[d.Key] = d.Default
		}
	}
	return values
}

// Required returns the keys that must be filled in for mode m: the
// mode-specific ones first, then the common ones, each in declaration order.
func (s *Schema) Required(m Mode) []string {
	keys := make([]string, 0, len(s.required[m])+len(s.required[ModeCommon]))
	keys = append(keys, s.required[m]...)
	keys = append(keys, s.required[ModeCommon]...)
	return keys
}
