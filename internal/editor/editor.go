// Package editor bundles a session store, a preset registry and a serializer
// behind the single API used by the CLI, the shell and the HTTP server.
package editor

import (
	"errors"
	"fmt"

	"github.com/example/rvcgen/internal/command"
	"github.com/example/rvcgen/internal/preset"
	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/session"
)

// Sink persists the registry after every preset mutation. preset.File
// satisfies it.
type Sink interface {
	Save(r *preset.Registry) error
}

// Editor is not safe for concurrent use.
type Editor struct {
	store      *session.Store
	presets    *preset.Registry
	serializer *command.Serializer
	sink       Sink
}

// Option configures an Editor.
type Option func(*Editor)

// WithSink persists presets through s.
func WithSink(s Sink) Option {
	return func(e *Editor) {
		e.sink = s
	}
}

// New returns an editor over the given parts.
func New(store *session.Store, presets *preset.Registry, serializer *command.Serializer, opts ...Option) *Editor {
	e := &Editor{store: store, presets: presets, serializer: serializer}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) Schema() *schema.Schema { return e.store.Schema() }

func (e *Editor) Mode() schema.Mode { return e.store.Mode() }

func (e *Editor) Value(key string) (any, error) { return e.store.Value(key) }

func (e *Editor) Set(key string, v any) error { return e.store.SetValue(key, v) }

func (e *Editor) SetText(key, text string) error { return e.store.SetText(key, text) }

// SetValues coerces every value before applying any of them, so an unknown
// key or invalid value leaves the store untouched. Values are applied in
// schema order.
func (e *Editor) SetValues(values map[string]any) error {
	canonical := make(map[string]any, len(values))
	var errs []error
	for key, v := range values {
		d, err := e.Schema().Describe(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c, err := d.Coerce(v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		canonical[key] = c
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	for _, key := range e.Schema().Keys() {
		v, ok := canonical[key]
		if !ok {
			continue
		}
		if err := e.store.SetValue(key, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) SetMode(m schema.Mode) error { return e.store.SetMode(m) }

func (e *Editor) Reset() { e.store.Reset() }

func (e *Editor) Snapshot() session.Configuration { return e.store.Snapshot() }

// Command serializes the current configuration.
func (e *Editor) Command() command.Command { return e.serializer.Serialize(e.store.Snapshot()) }

// Validate reports every empty required field of the active mode.
func (e *Editor) Validate() error { return e.serializer.Validate(e.store.Snapshot()) }

// Missing lists the empty required fields of the active mode.
func (e *Editor) Missing() []string { return e.serializer.Missing(e.store.Snapshot()) }

// Save snapshots the current configuration under name and persists the
// registry.
func (e *Editor) Save(name string) error {
	if err := e.presets.Save(name, e.store.Snapshot()); err != nil {
		return err
	}
	return e.persist()
}

// AddPreset stores a possibly partial preset and persists the registry.
func (e *Editor) AddPreset(p preset.Preset) error {
	if err := e.presets.Add(p); err != nil {
		return err
	}
	return e.persist()
}

// Load merges the named preset into the current configuration.
func (e *Editor) Load(name string) error { return e.presets.Load(name, e.store) }

// Delete removes the named preset and persists the registry.
func (e *Editor) Delete(name string) error {
	if err := e.presets.Delete(name); err != nil {
		return err
	}
	return e.persist()
}

func (e *Editor) List() []preset.Entry { return e.presets.List() }

func (e *Editor) Preset(name string) (preset.Preset, error) { return e.presets.Get(name) }

func (e *Editor) persist() error {
	if e.sink == nil {
		return nil
	}
	if err := e.sink.Save(e.presets); err != nil {
		return fmt.Errorf("persist presets: %w", err)
	}
	return nil
}
