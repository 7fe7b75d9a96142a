package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinevault/cinevault/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "User@Example.COM", "user@example.com"},
		{"trims whitespace", "  user@example.com ", "user@example.com"},
		{"consolidates dots", "first..last@example.com", "first.last@example.com"},
		{"strips edge dots", ".user.@example.com", "user@example.com"},
		{"invalid preserved", "not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.input))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "j**n@example.com", sanitizer.MaskEmail("john@example.com"))
	assert.Equal(t, "**@example.com", sanitizer.MaskEmail("jo@example.com"))
	assert.Equal(t, "not-an-email", sanitizer.MaskEmail("not-an-email"))
}
