package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "COMP-001", Format(PrefixCompany, 1))
	assert.Equal(t, "CONT-042", Format(PrefixContainer, 42))
	assert.Equal(t, "INC-999", Format(PrefixIncident, 999))
	// más allá del ancho mínimo no se trunca
	assert.Equal(t, "COMP-1000", Format(PrefixCompany, 1000))
	assert.Equal(t, "COMP-123456", Format(PrefixCompany, 123456))
}

func TestParse(t *testing.T) {
	p, n, err := Parse("COMP-007")
	require.NoError(t, err)
	assert.Equal(t, "COMP", p)
	assert.Equal(t, int64(7), n)

	p, n, err = Parse("CONT-1234")
	require.NoError(t, err)
	assert.Equal(t, "CONT", p)
	assert.Equal(t, int64(1234), n)

	for _, bad := range []string{"", "COMP", "COMP-", "-001", "COMP-abc", "COMP-0", "COMP--1"} {
		_, _, err := Parse(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestNext(t *testing.T) {
	assert.Equal(t, "COMP-001", Next(PrefixCompany, ""))
	assert.Equal(t, "COMP-002", Next(PrefixCompany, "COMP-001"))
	assert.Equal(t, "COMP-1000", Next(PrefixCompany, "COMP-999"))
	// malformado o de otro prefijo reinicia la secuencia
	assert.Equal(t, "INC-001", Next(PrefixIncident, "garbage"))
	assert.Equal(t, "INC-001", Next(PrefixIncident, "COMP-005"))
}
