package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone(""))
	assert.NoError(t, ValidatePhone("+855 12 345 678"))
	assert.NoError(t, ValidatePhone("(066) 123-4567"))
	assert.Error(t, ValidatePhone("call me"))
	assert.Error(t, ValidatePhone(strings.Repeat("1", 30)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail(""))
	assert.NoError(t, ValidateEmail("anna@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, ValidateCategory("plumbing"))
	assert.Error(t, ValidateCategory(""))
	assert.Error(t, ValidateCategory(strings.Repeat("x", MaxCategoryLength+1)))
}

func TestValidateMessageBody(t *testing.T) {
	assert.NoError(t, ValidateMessageBody("когда придёт мастер?"))
	assert.Error(t, ValidateMessageBody(""))
	assert.Error(t, ValidateMessageBody("   "))
	assert.Error(t, ValidateMessageBody(strings.Repeat("x", MaxMessageLength+1)))
}

func TestValidateLengthCaps(t *testing.T) {
	assert.NoError(t, ValidateName(strings.Repeat("a", MaxNameLength)))
	assert.Error(t, ValidateName(strings.Repeat("a", MaxNameLength+1)))
	assert.Error(t, ValidateUnit(strings.Repeat("a", MaxUnitLength+1)))
	assert.Error(t, ValidateDetails(strings.Repeat("a", MaxDetailsLength+1)))
	assert.Error(t, ValidateUsername(strings.Repeat("a", MaxUsernameLength+1)))
}
