// Package failures carries typed faults across the Temporal boundary. Activity errors are
// serialised into the workflow history, so a *faults.Error would otherwise arrive at the caller
// as an opaque string and be retried like a transient failure.
package failures

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/petguard-api/internal/shared/faults"
)

// TypeTerminal marks errors that matched one of the terminal sentinels passed to Encode.
const TypeTerminal = "terminal"

// Encode converts err into a non-retryable application error when it is a fault or matches one of
// terminal. Any other error is returned unchanged so Temporal retries it.
func Encode(err error, terminal ...error) error {
	if err == nil {
		return nil
	}
	if fault, ok := faults.As(err); ok {
		return temporal.NewNonRetryableApplicationError(fault.Message, string(fault.Kind), fault, *fault)
	}
	for _, sentinel := range terminal {
		if sentinel != nil && errors.Is(err, sentinel) {
			return temporal.NewNonRetryableApplicationError(err.Error(), TypeTerminal, err)
		}
	}
	return err
}

// Decode restores the fault carried by an application error anywhere in err's chain. Terminal
// errors are re-wrapped with sentinel so callers can keep matching them with errors.Is.
func Decode(err error, sentinel error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	if appErr.Type() == TypeTerminal {
		if sentinel == nil {
			return errors.New(appErr.Message())
		}
		return fmt.Errorf("%w: %s", sentinel, appErr.Message())
	}
	if !appErr.HasDetails() {
		return err
	}
	var fault faults.Error
	if detailsErr := appErr.Details(&fault); detailsErr != nil || fault.Kind == "" {
		return err
	}
	return &fault
}
