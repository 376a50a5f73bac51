package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/rvcgen/internal/session"
)

// ErrMissingRequired marks a required field left empty.
var ErrMissingRequired = errors.New("required parameter is empty")

// Missing returns the required keys for cfg.Mode whose value is blank, in
// command-line order.
func (s *Serializer) Missing(cfg session.Configuration) []string {
	var missing []string
	for _, key := range s.schema.Required(cfg.Mode) {
		v, _ := cfg.Values[key].(string)
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Validate is the optional pre-check a front end may run before showing a
// command. Serialize does not depend on it.
func (s *Serializer) Validate(cfg session.Configuration) error {
	var errs []error
	for _, key := range s.Missing(cfg) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingRequired, key))
	}
	return errors.Join(errs...)
}
