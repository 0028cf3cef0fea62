package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Starter Plan":        "starter-plan",
		"  Professional  ":    "professional",
		"My App v2.0!":        "my-app-v2-0",
		"---":                 "",
		"ALL CAPS":            "all-caps",
		"multi   space  here": "multi-space-here",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("a.b+c@sub.example.co"))

	assert.False(t, ValidateEmail(""))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail("@example.com"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=2"`
	}

	v := NewValidator()
	assert.NoError(t, v.ValidateStruct(payload{Email: "a@b.co", Name: "ok"}))

	err := v.ValidateStruct(payload{Email: "bad", Name: "x"})
	assert.Error(t, err)

	fields := FormatValidationErrors(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "name")
}
