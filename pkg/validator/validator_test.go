package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type catchPayload struct {
	Name  string `validate:"required"`
	Level int    `validate:"min=1,max=100"`
}

func TestValidateStructPasses(t *testing.T) {
	require.NoError(t, ValidateStruct(catchPayload{Name: "Pikachu", Level: 25}))
}

func TestValidateStructCollectsFailures(t *testing.T) {
	err := ValidateStruct(catchPayload{Name: "", Level: 101})
	require.Error(t, err)

	var failures ValidationErrors
	require.True(t, errors.As(err, &failures))
	require.Len(t, failures, 2)
	require.Contains(t, err.Error(), "Name failed on required")
	require.Contains(t, err.Error(), "Level failed on max=100")
}

func TestValidationErrorsEmptyMessage(t *testing.T) {
	require.Equal(t, "validation failed", ValidationErrors{}.Error())
}
