package errors

import (
	"github.com/Apurer/petguard-api/internal/shared/faults"
)

// FromFault maps a typed fault to a problem carrying the fault fields verbatim.
// It satisfies ErrorMapper.
func FromFault(err error) (ProblemDetail, bool) {
	fault, ok := faults.As(err)
	if !ok {
		return ProblemDetail{}, false
	}
	var problem ProblemDetail
	switch {
	case fault.Kind == faults.KindNotAuthenticated:
		problem = ErrUnauthorized
	case fault.Kind == faults.KindUnregisteredPrincipal:
		problem = ErrUnregistered
	case fault.Kind == faults.KindNotFound:
		problem = ErrNotFound
	case fault.Kind == faults.KindConflict:
		problem = ErrConflict
	case faults.IsValidation(fault):
		problem = ErrValidation
	default:
		problem = ErrInternal
	}
	problem = problem.
		WithDetail(fault.Message).
		WithExtension("kind", string(fault.Kind)).
		WithExtension("message", fault.Message).
		WithExtension("cause", fault.Cause)
	if fault.Field != "" {
		problem = problem.WithExtension("field", fault.Field)
	}
	return problem, true
}
