package editor_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/example/rvcgen/internal/editor"
	"github.com/example/rvcgen/internal/preset"
	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/testutil"
)

func TestWriteParams_FiltersByMode(t *testing.T) {
	var buf bytes.Buffer
	if err := editor.WriteParams(&buf, schema.Default(), schema.ModeBatch); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{"input_folder", "string*", "export_format", "WAV|MP3|FLAC|OGG", "reverb_room_size"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	for _, unwanted := range []string{"tts_text", "input_path "} {
		if strings.Contains(out, unwanted) {
			t.Errorf("batch table should not list %q", unwanted)
		}
	}
}

func TestWriteParams_AllModes(t *testing.T) {
	var buf bytes.Buffer
	if err := editor.WriteParams(&buf, schema.Default(), ""); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got, want := len(lines), len(schema.Default().Keys())+1; got != want {
		t.Errorf("line count = %d; want %d", got, want)
	}
}

func TestWritePresets(t *testing.T) {
	var buf bytes.Buffer
	entries := []preset.Entry{{Name: "Default TTS", Mode: schema.ModeTTS}}
	if err := editor.WritePresets(&buf, entries); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Default TTS  tts") {
		t.Errorf("WritePresets() = %q", buf.String())
	}
}

func TestWriteConfiguration_MarksChangedValues(t *testing.T) {
	s := testutil.InferStore(t)
	testutil.Set(t, s, "pitch", 3)

	var buf bytes.Buffer
	if err := editor.WriteConfiguration(&buf, schema.Default(), s.Snapshot()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "mode") || !strings.Contains(out, "infer") {
		t.Errorf("output should start with the mode: %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "pitch":
			if !strings.HasSuffix(line, "3 *") {
				t.Errorf("pitch line = %q; want changed marker", line)
			}
		case "protect":
			if strings.HasSuffix(line, "*") {
				t.Errorf("protect line = %q; default should not be marked", line)
			}
		case "tts_text":
			t.Errorf("tts_text listed in infer mode")
		}
	}
}
