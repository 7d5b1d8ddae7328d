package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petguard-api/internal/shared/faults"
)

func TestFromFault_Statuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not authenticated", faults.NotAuthenticated(), http.StatusUnauthorized},
		{"unregistered", faults.UnregisteredPrincipal("ana"), http.StatusForbidden},
		{"not found", faults.NotFound("pet", 4), http.StatusNotFound},
		{"conflict", faults.Conflict("taken", "k"), http.StatusConflict},
		{"required", faults.RequiredFieldEmpty("name"), http.StatusBadRequest},
		{"enum", faults.NotInEnum("kind", "BIRD", []string{"CAT", "DOG"}), http.StatusBadRequest},
		{"date component", faults.InvalidDateComponent("day", 31, 1, 29), http.StatusBadRequest},
		{"wrapped", fmt.Errorf("update: %w", faults.ValueTooLong("breed", "x", 20)), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			problem, ok := FromFault(tc.err)
			require.True(t, ok)
			assert.Equal(t, tc.status, problem.Status)
			assert.Equal(t, string(faults.KindOf(tc.err)), problem.Extensions["kind"])
		})
	}

	_, ok := FromFault(errors.New("plain"))
	assert.False(t, ok)
}

func TestChainedResponder_WritesFaultProblem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewChainedResponder("", FromFault)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/pets/9", nil)

	responder.RespondError(c, faults.NotFound("pet", 9))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ContentTypeProblemJSON, w.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/v1/pets/9", body.Instance)
	assert.Equal(t, "not_found", body.Extensions["kind"])
	assert.Equal(t, "ID: 9", body.Extensions["cause"])
	assert.Equal(t, "No pet was found with the identifier passed.", body.Extensions["message"])
}
