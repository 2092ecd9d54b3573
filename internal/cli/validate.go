package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/regexrunner/internal/runtime"
	"github.com/aretw0/regexrunner/pkg/adapters/file"
	"github.com/aretw0/regexrunner/pkg/domain"
)

// ErrValidationFailed is returned when at least one challenge is invalid.
var ErrValidationFailed = errors.New("validation failed")

// Validate checks every challenge in dir and reports each one on w.
// With complete, the transition function must also be total.
func Validate(w io.Writer, dir string, complete bool) error {
	loader, err := file.NewLoader(dir)
	if err != nil {
		return err
	}
	list, err := loader.ListChallenges()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("no challenges found in %s", loader.Dir())
	}

	check := runtime.ValidateStructure
	if complete {
		check = runtime.Validate
	}

	failed := 0
	for _, c := range list {
		err := check(&c.DFA)
		if err == nil {
			fmt.Fprintf(w, "✅ %s\n", c.ID)
			continue
		}
		failed++
		fmt.Fprintf(w, "❌ %s\n", c.ID)
		for _, e := range domain.ValidationErrors(err) {
			fmt.Fprintf(w, "   - %v\n", e)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d challenges", ErrValidationFailed, failed, len(list))
	}
	return nil
}
