package config

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseArgv splits a command line into words. Single and double quotes group
// words and a backslash escapes the next rune. A quoted empty string yields an
// empty word. Blank input and input starting with '#' yield no words.
func ParseArgv(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return nil, nil
	}

	var (
		argv    []string
		current strings.Builder
		quote   rune
		quoted  bool
		escape  bool
	)

	flush := func() {
		if current.Len() == 0 && !quoted {
			return
		}
		argv = append(argv, current.String())
		current.Reset()
		quoted = false
	}

	for _, r := range input {
		switch {
		case escape:
			current.WriteRune(r)
			escape = false
		case r == '\\' && quote != '\'':
			escape = true
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			quoted = true
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}

	if escape {
		return nil, fmt.Errorf("unterminated escape sequence in %q", input)
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", input)
	}

	flush()
	return argv, nil
}
