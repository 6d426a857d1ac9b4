package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ion.popescu@gmail.com"))
	assert.NoError(t, ValidateEmail("  Ion@Example.RO "))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.True(t, apperror.IsValidation(ValidateEmail("x@@y.ro")))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("0722 123 456"))
	assert.NoError(t, ValidatePhone("+40 (722) 123-456"))
	assert.Error(t, ValidatePhone(""))
	assert.Error(t, ValidatePhone("12345"))
	assert.Error(t, ValidatePhone("07a2123456"))
}

func TestValidateAliasAndRating(t *testing.T) {
	assert.Error(t, ValidateAlias("   "))
	assert.NoError(t, ValidateAlias("Captain Fix"))

	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
	for r := 1; r <= 5; r++ {
		assert.NoError(t, ValidateRating(r))
	}
}

func TestValidateHourlyRate(t *testing.T) {
	assert.NoError(t, ValidateHourlyRate(80))
	for _, rate := range []float64{0, -10, MaxHourlyRate + 1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.True(t, apperror.IsValidation(ValidateHourlyRate(rate)), "%v", rate)
	}
}

func TestValidateMediaURL(t *testing.T) {
	empty := ""
	ok := "https://res.cloudinary.com/demo/image/upload/a.jpg"
	bad := "ftp://files/a.jpg"
	assert.NoError(t, ValidateMediaURL("avatarUrl", nil))
	assert.NoError(t, ValidateMediaURL("avatarUrl", &empty))
	assert.NoError(t, ValidateMediaURL("avatarUrl", &ok))
	assert.Error(t, ValidateMediaURL("avatarUrl", &bad))
}

func TestGenerateHeroPassword(t *testing.T) {
	for i := 0; i < 20; i++ {
		p, err := GenerateHeroPassword()
		require.NoError(t, err)
		assert.Len(t, p, 8)
		assert.NoError(t, ValidatePassword(p))
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short1A"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
	assert.NoError(t, ValidatePassword("Superfix2024"))
}
