package repository

import (
	"errors"
	"fmt"
)

// Errores sentinel comunes a todos los repositorios.
// Los adaptadores de cada motor traducen sus errores nativos a estos.
var (
	ErrNotFound       = errors.New("repository: not found")
	ErrDuplicateKey   = errors.New("repository: duplicate key")
	ErrInvalidInput   = errors.New("repository: invalid input")
	ErrNotImplemented = errors.New("repository: not implemented")
)

// IsNotFound indica si err (o su cadena) es ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsDuplicate indica si err (o su cadena) es ErrDuplicateKey.
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicateKey) }

// PartialWriteError señala que la escritura relacional fue confirmada
// pero el espejo documental no pudo escribirse. El registro autoritativo
// existe; el payload queda retenido para reparación idempotente.
type PartialWriteError struct {
	Op           string         // create | update | deactivate
	Kind         string         // company | user
	ExternalID   string         // clave cruzada (COMP-NNN) o id relacional formateado
	RelationalID int64          // id en Postgres, 0 si no aplica
	Collection   string         // colección destino en Mongo
	Payload      map[string]any // documento que no llegó a escribirse
	Err          error          // causa
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write: %s %s %s (sql ok, document pending): %v",
		e.Op, e.Kind, e.ExternalID, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// IsPartialWrite extrae el PartialWriteError de la cadena, si lo hay.
func IsPartialWrite(err error) (*PartialWriteError, bool) {
	var pw *PartialWriteError
	if errors.As(err, &pw) {
		return pw, true
	}
	return nil, false
}
