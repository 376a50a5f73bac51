// Package shell is a line-oriented editor for a session: each line is one
// command, and the resulting command line is printed after every change.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/example/rvcgen/internal/config"
	"github.com/example/rvcgen/internal/editor"
	"github.com/example/rvcgen/internal/schema"
)

const Prompt = "rvcgen> "

// CopyFunc copies text to the clipboard.
type CopyFunc func(ctx context.Context, text string) error

type Shell struct {
	ed     *editor.Editor
	in     io.Reader
	out    io.Writer
	log    *slog.Logger
	copy   CopyFunc
	prompt string
}

// Option configures a Shell.
type Option func(*Shell)

func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCopy enables the copy command.
func WithCopy(fn CopyFunc) Option {
	return func(s *Shell) { s.copy = fn }
}

// WithPrompt replaces the prompt. An empty prompt disables it, which suits
// piped input.
func WithPrompt(p string) Option {
	return func(s *Shell) { s.prompt = p }
}

func New(ed *editor.Editor, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{ed: ed, in: in, out: out, log: slog.Default(), prompt: Prompt}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var errQuit = errors.New("quit")

type handler struct {
	usage  string
	help   string
	args   int // exact argument count, -1 for any
	mutate bool
	run    func(s *Shell, ctx context.Context, args []string) error
}

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"set":     {"set KEY VALUE", "set a parameter", 2, true, (*Shell).set},
		"get":     {"get KEY", "print a parameter", 1, false, (*Shell).get},
		"mode":    {"mode tts|infer|batch", "switch mode", 1, true, (*Shell).mode},
		"reset":   {"reset", "restore every default", 0, true, (*Shell).reset},
		"show":    {"show", "print the configuration of the active mode", 0, false, (*Shell).show},
		"command": {"command", "print the command line", 0, false, (*Shell).command},
		"check":   {"check", "report empty required fields", 0, false, (*Shell).check},
		"copy":    {"copy", "copy the command line to the clipboard", 0, false, (*Shell).copyCommand},
		"params":  {"params [MODE]", "list parameters", -1, false, (*Shell).params},
		"presets": {"presets", "list presets", 0, false, (*Shell).presets},
		"save":    {"save NAME", "save the configuration as a preset", 1, false, (*Shell).save},
		"load":    {"load NAME", "merge a preset into the configuration", 1, true, (*Shell).load},
		"delete":  {"delete NAME", "delete a preset", 1, false, (*Shell).deletePreset},
		"help":    {"help", "list commands", 0, false, (*Shell).help},
		"quit":    {"quit", "leave the shell", 0, false, quit},
		"exit":    {"exit", "leave the shell", 0, false, quit},
	}
}

// Run reads commands until quit, end of input or ctx is done. Command errors
// are printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		err := s.Exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	argv, err := config.ParseArgv(line)
	if err != nil {
		return err
	}
	if len(argv) == 0 {
		return nil
	}

	name := strings.ToLower(argv[0])
	h, ok := handlers[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", argv[0])
	}
	args := argv[1:]
	if h.args >= 0 && len(args) != h.args {
		return fmt.Errorf("usage: %s", h.usage)
	}

	if err := h.run(s, ctx, args); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "shell command", slog.String("command", name))
	if h.mutate {
		fmt.Fprintln(s.out, s.ed.Command().String())
	}
	return nil
}

func quit(*Shell, context.Context, []string) error { return errQuit }

func (s *Shell) set(_ context.Context, args []string) error {
	return s.ed.SetText(args[0], args[1])
}

func (s *Shell) get(_ context.Context, args []string) error {
	v, err := s.ed.Value(args[0])
	if err != nil {
		return err
	}
	d, _ := s.ed.Schema().Describe(args[0])
	fmt.Fprintln(s.out, d.Format(v))
	return nil
}

func (s *Shell) mode(_ context.Context, args []string) error {
	m, err := schema.ParseMode(args[0])
	if err != nil {
		return err
	}
	return s.ed.SetMode(m)
}

func (s *Shell) reset(context.Context, []string) error {
	s.ed.Reset()
	return nil
}

func (s *Shell) show(context.Context, []string) error {
	return editor.WriteConfiguration(s.out, s.ed.Schema(), s.ed.Snapshot())
}

func (s *Shell) command(context.Context, []string) error {
	fmt.Fprintln(s.out, s.ed.Command().String())
	return nil
}

func (s *Shell) check(context.Context, []string) error {
	missing := s.ed.Missing()
	if len(missing) == 0 {
		fmt.Fprintln(s.out, "ok")
		return nil
	}
	fmt.Fprintf(s.out, "missing: %s\n", strings.Join(missing, ", "))
	return nil
}

func (s *Shell) copyCommand(ctx context.Context, _ []string) error {
	if s.copy == nil {
		return errors.New("clipboard is not configured")
	}
	if err := s.copy(ctx, s.ed.Command().String()); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "copied")
	return nil
}

func (s *Shell) params(_ context.Context, args []string) error {
	var mode schema.Mode
	switch len(args) {
	case 0:
		mode = s.ed.Mode()
	case 1:
		m, err := schema.ParseMode(args[0])
		if err != nil {
			return err
		}
		mode = m
	default:
		return fmt.Errorf("usage: %s", handlers["params"].usage)
	}
	return editor.WriteParams(s.out, s.ed.Schema(), mode)
}

func (s *Shell) presets(context.Context, []string) error {
	return editor.WritePresets(s.out, s.ed.List())
}

func (s *Shell) save(ctx context.Context, args []string) error {
	if err := s.ed.Save(args[0]); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "preset saved", slog.String("name", strings.TrimSpace(args[0])))
	fmt.Fprintf(s.out, "saved %q\n", strings.TrimSpace(args[0]))
	return nil
}

func (s *Shell) load(_ context.Context, args []string) error {
	return s.ed.Load(args[0])
}

func (s *Shell) deletePreset(ctx context.Context, args []string) error {
	if err := s.ed.Delete(args[0]); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "preset deleted", slog.String("name", strings.TrimSpace(args[0])))
	fmt.Fprintf(s.out, "deleted %q\n", strings.TrimSpace(args[0]))
	return nil
}

func (s *Shell) help(context.Context, []string) error {
	names := []string{"set", "get", "mode", "reset", "show", "command", "check", "copy",
		"params", "presets", "save", "load", "delete", "help", "quit"}
	for _, n := range names {
		h := handlers[n]
		fmt.Fprintf(s.out, "  %-22s %s\n", h.usage, h.help)
	}
	return nil
}
