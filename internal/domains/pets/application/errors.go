package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
)

// ErrInvalidInput signals the request violated a constraint that has no fault kind of its own.
var ErrInvalidInput = errors.New("invalid pet input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrPhotoTooLarge) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
