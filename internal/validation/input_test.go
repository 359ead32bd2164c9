package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUsername(t *testing.T) {
	cases := map[string]string{
		"JaneDoe":       "janedoe",
		"Jane Doe":      "janedoe",
		"jane.doe!":     "janedoe",
		"jane-doe-99":   "jane-doe-99",
		"Жанна":         "",
		"  spaced  ":    "spaced",
		"MiXeD-CaSe_42": "mixed-case42",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, SanitizeUsername(input), "input: %q", input)
	}
}

func TestValidateUsername_Length(t *testing.T) {
	assert.Error(t, ValidateUsername("ab"))
	assert.NoError(t, ValidateUsername("abc"))
	assert.NoError(t, ValidateUsername("jane-doe-99"))

	long := make([]byte, MaxUsernameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateUsername(string(long)))
}

func TestValidateHexColor(t *testing.T) {
	assert.NoError(t, ValidateHexColor("primary_color", "#3b82f6"))
	assert.NoError(t, ValidateHexColor("primary_color", "#FFFFFF"))
	assert.Error(t, ValidateHexColor("primary_color", "red"))
	assert.Error(t, ValidateHexColor("primary_color", "#fff"))
	assert.Error(t, ValidateHexColor("primary_color", "3b82f6"))
}

func TestValidateOptionalURL(t *testing.T) {
	assert.NoError(t, ValidateOptionalURL("github_url", nil))

	valid := "https://github.com/janedoe"
	assert.NoError(t, ValidateOptionalURL("github_url", &valid))

	noScheme := "github.com/janedoe"
	assert.Error(t, ValidateOptionalURL("github_url", &noScheme))

	script := "javascript:alert(1)"
	assert.Error(t, ValidateOptionalURL("github_url", &script))
}

func TestValidateSkillName(t *testing.T) {
	assert.NoError(t, ValidateSkillName("Go"))
	assert.Error(t, ValidateSkillName("   "))
	assert.Error(t, ValidateSkillName(""))
}
