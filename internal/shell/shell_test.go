package shell_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/rvcgen/internal/command"
	"github.com/example/rvcgen/internal/editor"
	"github.com/example/rvcgen/internal/preset"
	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/session"
	"github.com/example/rvcgen/internal/shell"
)

func newEditor(t *testing.T) *editor.Editor {
	t.Helper()

	sc := schema.Default()
	r, err := preset.NewRegistry(sc, preset.WithBuiltins())
	if err != nil {
		t.Fatal(err)
	}
	return editor.New(session.New(sc), r, command.NewSerializer(sc, nil))
}

func run(t *testing.T, ed *editor.Editor, input string, opts ...shell.Option) string {
	t.Helper()

	var out bytes.Buffer
	opts = append([]shell.Option{shell.WithPrompt("")}, opts...)
	sh := shell.New(ed, strings.NewReader(input), &out, opts...)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestRun_EditSessionPrintsCommandAfterMutations(t *testing.T) {
	ed := newEditor(t)
	input := strings.Join([]string{
		"mode infer",
		"set input_path a.wav",
		`set output_path "b.wav"`,
		"set pth_path m.pth",
		"set index_path m.index",
		"set pitch 5",
		"set clean_audio true",
		"quit",
		"set pitch 9",
	}, "\n")

	out := run(t, ed, input)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines; want one command per mutation:\n%s", len(lines), out)
	}

	want := `python voice_cloning.py infer --input_path "a.wav" --output_path "b.wav" --pth_path "m.pth" --index_path "m.index" --pitch 5 --clean_audio`
	if lines[6] != want {
		t.Errorf("last line =\n  %s\nwant\n  %s", lines[6], want)
	}
	if v, _ := ed.Value("pitch"); v != 5 {
		t.Errorf("pitch = %v; commands after quit must not run", v)
	}
}

func TestRun_ErrorsDoNotStopTheLoop(t *testing.T) {
	ed := newEditor(t)
	input := "set pitch high\nset nope 1\nmode sing\nfrobnicate\nset pitch\nset tts_text \"open\nset pitch 2\n"

	out := run(t, ed, input)
	for _, want := range []string{"type mismatch", "unknown parameter", "invalid mode", "unknown command", "usage: set KEY VALUE", "unterminated quote"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if v, _ := ed.Value("pitch"); v != 2 {
		t.Errorf("pitch = %v; want 2 after errors", v)
	}
}

func TestRun_PresetCommands(t *testing.T) {
	ed := newEditor(t)
	input := strings.Join([]string{
		"load 'Singing Voice'",
		"save Mine",
		"presets",
		"delete Mine",
		"delete Mine",
		"save \"  \"",
	}, "\n")

	out := run(t, ed, input)
	if ed.Mode() != schema.ModeInfer {
		t.Errorf("Mode() = %q; want infer after load", ed.Mode())
	}
	for _, want := range []string{"--reverb --reverb_room_size 0.3 --chorus", `saved "Mine"`, "Mine", `deleted "Mine"`, "preset not found", "preset name is empty"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExec_GetShowCheckParams(t *testing.T) {
	ed := newEditor(t)
	var out bytes.Buffer
	sh := shell.New(ed, strings.NewReader(""), &out)
	ctx := context.Background()

	for _, line := range []string{"set protect 0.25", "get protect", "check", "show", "params batch", "help", "", "# comment"} {
		if err := sh.Exec(ctx, line); err != nil {
			t.Fatalf("Exec(%q) error = %v", line, err)
		}
	}

	got := out.String()
	for _, want := range []string{"\n0.25\n", "missing: tts_text, tts_voice", "protect", "input_folder", "save NAME"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestExec_Copy(t *testing.T) {
	ed := newEditor(t)
	var out bytes.Buffer
	ctx := context.Background()

	sh := shell.New(ed, strings.NewReader(""), &out)
	if err := sh.Exec(ctx, "copy"); err == nil {
		t.Error("copy without clipboard should fail")
	}

	var copied string
	sh = shell.New(ed, strings.NewReader(""), &out, shell.WithCopy(func(_ context.Context, text string) error {
		copied = text
		return nil
	}))
	if err := sh.Exec(ctx, "copy"); err != nil {
		t.Fatalf("Exec(copy) error = %v", err)
	}
	if copied != ed.Command().String() {
		t.Errorf("copied %q; want the current command", copied)
	}

	boom := errors.New("no display")
	sh = shell.New(ed, strings.NewReader(""), &out, shell.WithCopy(func(context.Context, string) error { return boom }))
	if err := sh.Exec(ctx, "copy"); !errors.Is(err, boom) {
		t.Errorf("Exec(copy) error = %v; want %v", err, boom)
	}
}

func TestRun_StopsOnCancelledContext(t *testing.T) {
	ed := newEditor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sh := shell.New(ed, strings.NewReader("set pitch 1\n"), &bytes.Buffer{})
	if err := sh.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v; want context.Canceled", err)
	}
	if v, _ := ed.Value("pitch"); v != 0 {
		t.Errorf("pitch = %v; nothing should run after cancel", v)
	}
}
