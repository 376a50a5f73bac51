// Package preset stores named, possibly partial configuration snapshots and
// merges them back into a session store.
package preset

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/session"
)

var (
	ErrEmptyName      = errors.New("preset name is empty")
	ErrPresetNotFound = errors.New("preset not found")
)

// Preset is a named snapshot. Values may cover only a subset of the schema.
type Preset struct {
	Name   string         `json:"name" yaml:"name" toml:"name"`
	Mode   schema.Mode    `json:"mode" yaml:"mode" toml:"mode"`
	Values map[string]any `json:"values" yaml:"values" toml:"values"`
}

// Clone returns a deep copy of p.
func (p Preset) Clone() Preset {
	return Preset{Name: p.Name, Mode: p.Mode, Values: maps.Clone(p.Values)}
}

// Entry is one row of List.
type Entry struct {
	Name string      `json:"name"`
	Mode schema.Mode `json:"mode"`
}

// Registry keeps presets in insertion order. It is not safe for concurrent
// use.
type Registry struct {
	schema  *schema.Schema
	order   []string
	presets map[string]Preset
}

// Option configures a Registry.
type Option func(*Registry) error

// WithBuiltins seeds the registry with the built-in presets.
func WithBuiltins() Option {
	return func(r *Registry) error {
		for _, p := range Builtins() {
			if err := r.Add(p); err != nil {
				return fmt.Errorf("builtin %q: %w", p.Name, err)
			}
		}
		return nil
	}
}

// WithPresets adds presets in order, typically read from a presets file.
func WithPresets(presets []Preset) Option {
	return func(r *Registry) error {
		for _, p := range presets {
			if err := r.Add(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewRegistry returns a registry validating against sc.
func NewRegistry(sc *schema.Schema, opts ...Option) (*Registry, error) {
	r := &Registry{schema: sc, presets: make(map[string]Preset)}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Save stores a full snapshot of cfg under name, replacing any preset with
// the same name without confirmation. A replaced preset keeps its position.
func (r *Registry) Save(name string, cfg session.Configuration) error {
	return r.put(Preset{Name: name, Mode: cfg.Mode, Values: cfg.Values})
}

// Add stores p, which may be partial. Values are validated and normalized
// against the schema.
func (r *Registry) Add(p Preset) error {
	return r.put(p)
}

func (r *Registry) put(p Preset) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrEmptyName
	}
	if !p.Mode.Valid() {
		return fmt.Errorf("preset %q: %w %q", name, schema.ErrInvalidMode, p.Mode)
	}
	values, err := r.normalize(p.Values)
	if err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}

	if _, exists := r.presets[name]; !exists {
		r.order = append(r.order, name)
	}
	r.presets[name] = Preset{Name: name, Mode: p.Mode, Values: values}
	return nil
}

// Get returns a copy of the named preset.
func (r *Registry) Get(name string) (Preset, error) {
	p, err := r.lookup(name)
	if err != nil {
		return Preset{}, err
	}
	return p.Clone(), nil
}

func (r *Registry) lookup(name string) (Preset, error) {
	p, ok := r.presets[strings.TrimSpace(name)]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return p, nil
}

// Load applies the named preset to store: the mode is replaced and the
// preset's values are merged over the current ones. Keys the preset does not
// mention keep their current value. The store is left untouched on error.
func (r *Registry) Load(name string, store *session.Store) error {
	p, err := r.lookup(name)
	if err != nil {
		return err
	}
	if _, err := r.normalize(p.Values); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}

	if err := store.SetMode(p.Mode); err != nil {
		return err
	}
	for k, v := range p.Values {
		if err := store.SetValue(k, v); err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return nil
}

// Delete removes the named preset. The session store is not affected.
func (r *Registry) Delete(name string) error {
	p, err := r.lookup(name)
	if err != nil {
		return err
	}
	delete(r.presets, p.Name)
	for i, n := range r.order {
		if n == p.Name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns name and mode of every preset in insertion order. The slice is
// a copy taken at call time.
func (r *Registry) List() []Entry {
	entries := make([]Entry, len(r.order))
	for i, name := range r.order {
		entries[i] = Entry{Name: name, Mode: r.presets[name].Mode}
	}
	return entries
}

// Presets returns copies of every preset in insertion order.
func (r *Registry) Presets() []Preset {
	out := make([]Preset, len(r.order))
	for i, name := range r.order {
		out[i] = r.presets[name].Clone()
	}
	return out
}

// Len returns the number of presets.
func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) normalize(values map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(values))
	var errs []error
	for k, v := range values {
		d, err := r.schema.Describe(k)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		canonical, err := d.Coerce(v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[k] = canonical
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
