package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"operador@acme.com", "o…@a….com"},
		{"A@B.CO", "a@b.co"},
		{"sin-arroba", "s…a"},
		{"ab", "***"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaskEmail(c.in), c.in)
	}
}
