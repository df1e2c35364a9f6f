// Package password encapsula el hashing de credenciales con bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinLength es la longitud mínima aceptada para passwords nuevos.
const MinLength = 8

// DefaultCost balancea costo de CPU y resistencia a fuerza bruta.
var DefaultCost = bcrypt.DefaultCost

// Hash genera el hash bcrypt de un password en claro.
func Hash(plain string) (string, error) {
	if len(plain) < MinLength {
		return "", fmt.Errorf("password: must be at least %d characters", MinLength)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara un password en claro contra el hash almacenado.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
