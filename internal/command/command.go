// Package command turns a configuration into the voice_cloning.py command
// line that reproduces it.
package command

import (
	"strings"

	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/session"
)

// DefaultProgram is the interpreter and script prefix of every command.
var DefaultProgram = []string{"python", "voice_cloning.py"}

// Token is one word of a rendered command. Quoted tokens are wrapped in
// double quotes when rendered; embedded quotes are not escaped.
type Token struct {
	Value  string `json:"value"`
	Quoted bool   `json:"quoted,omitempty"`
}

// String renders t as it appears in the command string.
func (t Token) String() string {
	if t.Quoted {
		return `"` + t.Value + `"`
	}
	return t.Value
}

// Command is an ordered, rendered command line.
type Command []Token

// Tokens returns the rendered words of c.
func (c Command) Tokens() []string {
	out := make([]string, len(c))
	for i, t := range c {
		out[i] = t.String()
	}
	return out
}

// Argv returns the unquoted words of c, suitable for exec.Command.
func (c Command) Argv() []string {
	out := make([]string, len(c))
	for i, t := range c {
		out[i] = t.Value
	}
	return out
}

// String joins the rendered tokens with single spaces.
func (c Command) String() string {
	return strings.Join(c.Tokens(), " ")
}

// Serializer renders configurations against a schema.
type Serializer struct {
	schema  *schema.Schema
	program []string
}

// NewSerializer returns a serializer emitting program as the leading words.
// An empty program falls back to DefaultProgram.
func NewSerializer(sc *schema.Schema, program []string) *Serializer {
	if len(program) == 0 {
		program = DefaultProgram
	}
	return &Serializer{schema: sc, program: append([]string(nil), program...)}
}

// Serialize renders cfg. It never fails: missing required values serialize
// as empty quoted strings.
//
// Order: program, mode, the mode's required flags, optional flags scoped only
// to the mode, the common required flags, then common optional flags in
// declaration order. Optional flags are emitted only when they differ from
// their default; grouped effect parameters additionally require their toggle.
func (s *Serializer) Serialize(cfg session.Configuration) Command {
	cmd := make(Command, 0, len(s.program)+16)
	for _, p := range s.program {
		cmd = append(cmd, Token{Value: p})
	}
	cmd = append(cmd, Token{Value: string(cfg.Mode)})

	descriptors := s.schema.Descriptors()

	for _, d := range descriptors {
		if d.Required && !d.Common() && d.InMode(cfg.Mode) {
			cmd = s.appendRequired(cmd, d, cfg)
		}
	}
	for _, d := range descriptors {
		if !d.Required && !d.Common() && d.InMode(cfg.Mode) {
			cmd = s.appendOptional(cmd, d, cfg)
		}
	}
	for _, d := range descriptors {
		if d.Required && d.Common() {
			cmd = s.appendRequired(cmd, d, cfg)
		}
	}
	for _, d := range descriptors {
		if !d.Required && d.Common() {
			cmd = s.appendOptional(cmd, d, cfg)
		}
	}

	return cmd
}

func (s *Serializer) appendRequired(cmd Command, d schema.Descriptor, cfg session.Configuration) Command {
	return append(cmd,
		Token{Value: "--" + d.Flag},
		Token{Value: d.Format(s.value(d, cfg)), Quoted: true},
	)
}

func (s *Serializer) appendOptional(cmd Command, d schema.Descriptor, cfg session.Configuration) Command {
	if d.Group != "" && cfg.Values[d.Group] != true {
		return cmd
	}

	v := s.value(d, cfg)
	if d.Kind == schema.KindBool {
		if v == true {
			cmd = append(cmd, Token{Value: "--" + d.Flag})
		}
		return cmd
	}
	if d.IsDefault(v) {
		return cmd
	}

	return append(cmd,
		Token{Value: "--" + d.Flag},
		Token{Value: d.Format(v), Quoted: !d.Kind.Numeric()},
	)
}

// value reads key from cfg, falling back to the default for sparse or
// malformed configurations so Serialize stays total.
func (s *Serializer) value(d schema.Descriptor, cfg session.Configuration) any {
	v, ok := cfg.Values[d.Key]
	if !ok {
		return d.Default
	}
	canonical, err := d.Coerce(v)
	if err != nil {
		return d.Default
	}
	return canonical
}
