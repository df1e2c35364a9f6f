package logger

import (
	"time"

	"go.uber.org/zap"
)

// ───────── Campos estándar HTTP ─────────

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// ───────── Campos estándar de negocio ─────────

// ExternalID crea un campo para la clave de referencia cruzada (COMP-001, CONT-004...).
func ExternalID(v string) zap.Field {
	return zap.String("external_id", v)
}

// UserID crea un campo para el id relacional de un usuario.
func UserID(v int64) zap.Field {
	return zap.Int64("user_id", v)
}

// CompanyID crea un campo para el external id de una empresa.
func CompanyID(v string) zap.Field {
	return zap.String("company_id", v)
}

// ContainerID crea un campo para el id de un contenedor.
func ContainerID(v string) zap.Field {
	return zap.String("container_id", v)
}

// DeviceID crea un campo para el id de un sensor/dispositivo.
func DeviceID(v string) zap.Field {
	return zap.String("device_id", v)
}

// Collection crea un campo para una colección de MongoDB.
func Collection(v string) zap.Field {
	return zap.String("collection", v)
}

// Kind crea un campo para el tipo de entidad (company, user...).
func Kind(v string) zap.Field {
	return zap.String("kind", v)
}

// ───────── Campos estándar de sistema ─────────

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, repository, coordinator).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// ───────── Campos genéricos ─────────

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
