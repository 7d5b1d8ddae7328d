package petguardserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	petsapp "github.com/Apurer/petguard-api/internal/domains/pets/application"
	principalsapp "github.com/Apurer/petguard-api/internal/domains/principals/application"
	apierrors "github.com/Apurer/petguard-api/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("", apierrors.FromFault, mapApplicationError)

// mapApplicationError covers the untyped sentinels the application services wrap.
func mapApplicationError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, petsapp.ErrInvalidInput), errors.Is(err, principalsapp.ErrInvalidInput):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, principalsapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, principalsapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondServiceError renders any error returned by a use case.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondError is used for transport failures detected before a use case runs.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	responder.Respond(c, apierrors.ForStatus(status).WithDetail(err.Error()))
}
