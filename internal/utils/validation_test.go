package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateServiceTypeTimes(t *testing.T) {
	require.NoError(t, ValidateServiceTypeTimes("09:00", "11:30"))

	assert.Error(t, ValidateServiceTypeTimes("9am", "11:00"))
	assert.Error(t, ValidateServiceTypeTimes("09:00", "eleven"))
	assert.Error(t, ValidateServiceTypeTimes("11:00", "09:00"))
	assert.Error(t, ValidateServiceTypeTimes("09:00", "09:00"))
}

func TestValidateSubstitutionReason(t *testing.T) {
	require.NoError(t, ValidateSubstitutionReason("trocar plantão por consulta médica"))

	assert.Error(t, ValidateSubstitutionReason(""))
	assert.Error(t, ValidateSubstitutionReason("   "))
	assert.Error(t, ValidateSubstitutionReason("\t\n "))
}

func TestGenerateRandomPasswordLength(t *testing.T) {
	assert.Len(t, GenerateRandomPassword(12), 12)
}

func TestGenerateRandomWeekdaysNonEmpty(t *testing.T) {
	for i := 0; i < 50; i++ {
		days := GenerateRandomWeekdays()
		require.NotEmpty(t, days)
		for _, d := range days {
			assert.GreaterOrEqual(t, d, int32(0))
			assert.LessOrEqual(t, d, int32(6))
		}
	}
}
