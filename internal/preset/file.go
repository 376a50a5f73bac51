package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/rvcgen/internal/schema"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a presets file.
type Document struct {
	Presets []Preset `json:"presets" yaml:"presets" toml:"presets"`
}

// File reads and writes presets at Path. The encoding follows the file
// extension: .yaml/.yml, .toml or .json.
type File struct {
	Path string
}

type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

var codecs = map[string]codec{
	".yaml": {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".yml":  {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	".toml": {marshal: toml.Marshal, unmarshal: toml.Unmarshal},
	".json": {marshal: marshalJSON, unmarshal: unmarshalJSON},
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (f File) codec() (codec, error) {
	ext := strings.ToLower(filepath.Ext(f.Path))
	c, ok := codecs[ext]
	if !ok {
		return codec{}, fmt.Errorf("unsupported presets file extension %q (want .yaml|.yml|.toml|.json)", ext)
	}
	return c, nil
}

// unmarshalJSON keeps numbers as json.Number so large integers survive.
func unmarshalJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// Read decodes the presets file. A missing file yields an empty document.
func (f File) Read() (Document, error) {
	c, err := f.codec()
	if err != nil {
		return Document{}, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("read presets %q: %w", f.Path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}

	var doc Document
	if err := c.unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode presets %q: %w", f.Path, err)
	}
	return doc, nil
}

// Write encodes doc to a temp file next to Path and renames it into place.
func (f File) Write(doc Document) error {
	c, err := f.codec()
	if err != nil {
		return err
	}
	data, err := c.marshal(doc)
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create presets dir: %w", err)
	}

	tmp := f.Path + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := fh.Write(data); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("move temp file into place: %w", err)
	}
	return nil
}

// Save writes every preset in r to the file.
func (f File) Save(r *Registry) error {
	return f.Write(Document{Presets: r.Presets()})
}

// Registry builds a registry from the file. While the file does not exist
// the registry starts with the built-ins when seed is set; once written, the
// file holds the complete list so deleted built-ins stay deleted.
func (f File) Registry(sc *schema.Schema, seed bool) (*Registry, error) {
	if _, err := f.codec(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(f.Path); errors.Is(err, os.ErrNotExist) {
		if !seed {
			return NewRegistry(sc)
		}
		return NewRegistry(sc, WithBuiltins())
	}

	doc, err := f.Read()
	if err != nil {
		return nil, err
	}
	r, err := NewRegistry(sc, WithPresets(doc.Presets))
	if err != nil {
		return nil, fmt.Errorf("load presets %q: %w", f.Path, err)
	}
	return r, nil
}
