package preset_test

import (
	"errors"
	"testing"

	"github.com/example/rvcgen/internal/command"
	"github.com/example/rvcgen/internal/preset"
	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/testutil"
)

func newRegistry(t *testing.T) *preset.Registry {
	t.Helper()

	r, err := preset.NewRegistry(schema.Default(), preset.WithBuiltins())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func TestNewRegistry_SeedsBuiltinsInOrder(t *testing.T) {
	r := newRegistry(t)

	want := []preset.Entry{
		{Name: "Default TTS", Mode: schema.ModeTTS},
		{Name: "High Quality Speech", Mode: schema.ModeInfer},
		{Name: "Singing Voice", Mode: schema.ModeInfer},
	}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %v; want %v", i, got[i], want[i])
		}
	}
}

func TestSave_RejectsBlankName(t *testing.T) {
	r := newRegistry(t)
	s := testutil.NewStore(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		if err := r.Save(name, s.Snapshot()); !errors.Is(err, preset.ErrEmptyName) {
			t.Errorf("Save(%q) error = %v; want ErrEmptyName", name, err)
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d after rejected saves; want 3", r.Len())
	}
}

func TestSave_TrimsAndOverwritesInPlace(t *testing.T) {
	r := newRegistry(t)
	s := testutil.InferStore(t)

	if err := r.Save("  Mine  ", s.Snapshot()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	testutil.Set(t, s, "pitch", 4)
	if err := r.Save("High Quality Speech", s.Snapshot()); err != nil {
		t.Fatalf("Save(overwrite) error = %v", err)
	}

	names := make([]string, 0, r.Len())
	for _, e := range r.List() {
		names = append(names, e.Name)
	}
	want := []string{"Default TTS", "High Quality Speech", "Singing Voice", "Mine"}
	if len(names) != len(want) {
		t.Fatalf("names = %v; want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q; want %q", i, names[i], want[i])
		}
	}

	p, err := r.Get("High Quality Speech")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Values["pitch"] != 4 || len(p.Values) != len(schema.Default().Keys()) {
		t.Errorf("overwritten preset should be a full snapshot with pitch=4, got %d values pitch=%v",
			len(p.Values), p.Values["pitch"])
	}
}

func TestSave_SnapshotIsIndependentOfStore(t *testing.T) {
	r := newRegistry(t)
	s := testutil.InferStore(t)

	if err := r.Save("snap", s.Snapshot()); err != nil {
		t.Fatal(err)
	}
	testutil.Set(t, s, "pitch", 9)

	p, _ := r.Get("snap")
	if p.Values["pitch"] != 0 {
		t.Errorf("preset changed with the store: pitch = %v", p.Values["pitch"])
	}
}

func TestLoad_RoundTripReproducesCommand(t *testing.T) {
	r := newRegistry(t)
	ser := command.NewSerializer(schema.Default(), nil)

	s := testutil.InferStore(t)
	testutil.Set(t, s, "pitch", -2)
	testutil.Set(t, s, "delay", true)
	testutil.Set(t, s, "delay_mix", 0.75)
	want := ser.Serialize(s.Snapshot()).String()

	if err := r.Save("round trip", s.Snapshot()); err != nil {
		t.Fatal(err)
	}
	if err := r.Load("round trip", s); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := ser.Serialize(s.Snapshot()).String(); got != want {
		t.Errorf("after round trip:\n  %s\nwant\n  %s", got, want)
	}

	// Loading into a fresh store reproduces the same command too.
	fresh := testutil.NewStore(t)
	if err := r.Load("round trip", fresh); err != nil {
		t.Fatal(err)
	}
	if got := ser.Serialize(fresh.Snapshot()).String(); got != want {
		t.Errorf("fresh store:\n  %s\nwant\n  %s", got, want)
	}
}

func TestLoad_MergesWithoutTouchingOtherKeys(t *testing.T) {
	r := newRegistry(t)
	s := testutil.InferStore(t)
	testutil.Set(t, s, "sid", 3)
	testutil.Set(t, s, "index_rate", 0.9)

	if err := r.Load("Singing Voice", s); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if v, _ := s.Value("sid"); v != 3 {
		t.Errorf("sid = %v; want untouched 3", v)
	}
	if v, _ := s.Value("input_path"); v != "a.wav" {
		t.Errorf("input_path = %v; want untouched a.wav", v)
	}
	if v, _ := s.Value("index_rate"); v != 0.7 {
		t.Errorf("index_rate = %v; want preset value 0.7", v)
	}
	if v, _ := s.Value("reverb_room_size"); v != 0.3 {
		t.Errorf("reverb_room_size = %v; want 0.3", v)
	}
	if s.Mode() != schema.ModeInfer {
		t.Errorf("Mode() = %q; want infer", s.Mode())
	}
}

func TestLoad_SetsPresetMode(t *testing.T) {
	r := newRegistry(t)
	s := testutil.InferStore(t)

	if err := r.Load("Default TTS", s); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != schema.ModeTTS {
		t.Errorf("Mode() = %q; want tts", s.Mode())
	}
	if v, _ := s.Value("clean_audio"); v != true {
		t.Errorf("clean_audio = %v; want true", v)
	}
}

func TestLoad_UnknownName(t *testing.T) {
	r := newRegistry(t)
	s := testutil.NewStore(t)

	if err := r.Load("nope", s); !errors.Is(err, preset.ErrPresetNotFound) {
		t.Errorf("Load(nope) error = %v; want ErrPresetNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	r := newRegistry(t)
	s := testutil.InferStore(t)
	before := s.Snapshot()

	if err := r.Delete("Singing Voice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := r.Get("Singing Voice"); !errors.Is(err, preset.ErrPresetNotFound) {
		t.Errorf("Get after Delete error = %v; want ErrPresetNotFound", err)
	}
	if err := r.Delete("Singing Voice"); !errors.Is(err, preset.ErrPresetNotFound) {
		t.Errorf("second Delete error = %v; want ErrPresetNotFound", err)
	}
	if err := r.Delete("does not exist"); !errors.Is(err, preset.ErrPresetNotFound) {
		t.Errorf("Delete(missing) error = %v; want ErrPresetNotFound", err)
	}

	after := s.Snapshot()
	for k, v := range before.Values {
		if after.Values[k] != v {
			t.Errorf("Delete changed store key %s", k)
		}
	}
	if len(r.List()) != 2 {
		t.Errorf("List() len = %d; want 2", len(r.List()))
	}
}

func TestList_IsASnapshot(t *testing.T) {
	r := newRegistry(t)
	list := r.List()
	list[0].Name = "mutated"

	if r.List()[0].Name != "Default TTS" {
		t.Error("mutating List() result changed the registry")
	}
}

func TestAdd_ValidatesValues(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		name    string
		p       preset.Preset
		wantErr error
	}{
		{"unknown key", preset.Preset{Name: "x", Mode: schema.ModeTTS, Values: map[string]any{"bogus": 1}}, schema.ErrUnknownParameter},
		{"wrong type", preset.Preset{Name: "x", Mode: schema.ModeTTS, Values: map[string]any{"reverb": "on"}}, schema.ErrTypeMismatch},
		{"bad mode", preset.Preset{Name: "x", Mode: "common"}, schema.ErrInvalidMode},
		{"blank name", preset.Preset{Name: " ", Mode: schema.ModeTTS}, preset.ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Add(tt.p); !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v; want %v", err, tt.wantErr)
			}
		})
	}

	if err := r.Add(preset.Preset{Name: "fx only", Mode: schema.ModeBatch, Values: map[string]any{"gain": true, "gain_db": int64(3)}}); err != nil {
		t.Fatalf("Add(partial) error = %v", err)
	}
	p, _ := r.Get("fx only")
	if p.Values["gain_db"] != 3.0 {
		t.Errorf("gain_db = %#v; want normalized float 3", p.Values["gain_db"])
	}
}
