package shogitt

import (
	"errors"
	"fmt"

	"github.com/hupe1980/shogitt/table"
)

var (
	// ErrNilBackend is returned when adapting a nil backend.
	ErrNilBackend = errors.New("backend must not be nil")

	// ErrInvalidSize is returned when a table size is not a non-zero power
	// of two.
	ErrInvalidSize = errors.New("invalid table size")
)

// translateError normalizes backend construction errors to the package-level
// sentinels so callers match against one error surface.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, table.ErrInvalidSize) {
		return fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}

	// Configuration errors are already descriptive; pass them through.
	var ce *table.ConfigurationError
	if errors.As(err, &ce) {
		return err
	}

	return err
}
