package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("update pet: %w", NotFound("pet", 20))

	require.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrRequiredFieldEmpty)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestConstructors_Messages(t *testing.T) {
	cases := []struct {
		name    string
		err     *Error
		message string
		cause   string
	}{
		{"not authenticated", NotAuthenticated(), "User must be authenticated to perform this action.", "User is not authenticated in the system."},
		{"unregistered", UnregisteredPrincipal("ana@example.com"), "User has no petguard account.", "User ana@example.com has no petguard account."},
		{"not found", NotFound("pet", 20), "No pet was found with the identifier passed.", "ID: 20"},
		{"required", RequiredFieldEmpty("name"), "Field name cannot be empty.", "Value passed is empty."},
		{"enum", NotInEnum("kind", "FISH", []string{"CAT", "DOG"}), "Field kind must be one of: CAT, DOG.", "Value passed: FISH"},
		{"negative", NegativeValueNotAllowed("weight", -1.5), "Field weight cannot be negative.", "Value passed: -1.5"},
		{"day", InvalidDateComponent("day", 31, 1, 29), "The day passed is incorrect. It must be between 1 and 29", "Value passed: 31"},
		{"format", InvalidDateFormat("last_estro", "2020-13-022"), "The date passed has the wrong format. Correct format: YYYY-MM-DD", "Value passed: 2020-13-022"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.message, tc.err.Message)
			assert.Equal(t, tc.cause, tc.err.Cause)
		})
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(FutureDateNotAllowed("last_estro", "2999-03-03")))
	assert.True(t, IsValidation(ValueTooLong("name", "x", 1)))
	assert.True(t, IsValidation(InvalidPhoneFormat("phone", "abc")))
	assert.False(t, IsValidation(NotFound("pet", 1)))
	assert.False(t, IsValidation(errors.New("boom")))
}

func TestAs_Untyped(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
	assert.Equal(t, Kind(""), KindOf(nil))
}
