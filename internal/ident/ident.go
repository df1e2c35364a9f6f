// Package ident genera y parsea identificadores externos con formato
// PREFIX-NNN (COMP-001, CONT-042...). El ancho mínimo es 3 dígitos;
// números mayores a 999 se imprimen completos, nunca se truncan.
package ident

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefijos conocidos por entidad.
const (
	PrefixCompany   = "COMP"
	PrefixContainer = "CONT"
	PrefixIncident  = "INC"
)

const width = 3

// Format arma el identificador externo para un prefijo y secuencia.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, n)
}

// Parse descompone un identificador externo. Retorna el prefijo y la
// secuencia, o error si el formato no es válido.
func Parse(id string) (prefix string, n int64, err error) {
	i := strings.LastIndexByte(id, '-')
	if i <= 0 || i == len(id)-1 {
		return "", 0, fmt.Errorf("ident: malformed id %q", id)
	}
	prefix = id[:i]
	n, err = strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("ident: malformed id %q", id)
	}
	return prefix, n, nil
}

// Next calcula el siguiente identificador a partir del último emitido.
// Si last está vacío o malformado, arranca la secuencia en 1.
func Next(prefix, last string) string {
	if last == "" {
		return Format(prefix, 1)
	}
	p, n, err := Parse(last)
	if err != nil || p != prefix {
		return Format(prefix, 1)
	}
	return Format(prefix, n+1)
}
