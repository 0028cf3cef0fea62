package admin

import (
	"testing"

	"github.com/Niwatda/softwareshop/utils/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUserRequestValidation(t *testing.T) {
	// All fields optional; an empty payload is rejected later as
	// "nothing to update", not by the validator
	assert.NoError(t, reqValidator.ValidateStruct(UpdateUserRequest{}))
	assert.NoError(t, reqValidator.ValidateStruct(UpdateUserRequest{
		Name:  "New Name",
		Email: "new@example.com",
		Role:  "ADMIN",
	}))
}

func TestUpdateUserRequestRejectsBadEmail(t *testing.T) {
	err := reqValidator.ValidateStruct(UpdateUserRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.Contains(t, validation.FormatValidationErrors(err), "email")
}

func TestUpdateUserRequestRejectsUnknownRole(t *testing.T) {
	err := reqValidator.ValidateStruct(UpdateUserRequest{Role: "SUPERUSER"})
	require.Error(t, err)
	assert.Contains(t, validation.FormatValidationErrors(err), "role")
}
