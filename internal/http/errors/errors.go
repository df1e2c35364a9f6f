package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

// errorResponse estructura interna para la serialización JSON.
// Nos permite controlar exactamente qué campos se envían al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// FromError intenta convertir un error genérico en un AppError.
// Si no es un AppError, pasa por el mapeo de errores de repositorio;
// como último recurso devuelve un error interno conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return FromRepository(err)
}

// FromRepository traduce los errores tipados de la capa de repositorio
// a errores HTTP. Los controllers lo usan en cada rama de error.
func FromRepository(err error) *AppError {
	if pw, ok := repository.IsPartialWrite(err); ok {
		return ErrPartialWrite.WithDetail(pw.ExternalID).WithCause(err)
	}
	switch {
	case repository.IsNotFound(err):
		return ErrNotFound.WithCause(err)
	case repository.IsDuplicate(err):
		return ErrAlreadyExists.WithCause(err)
	case errors.Is(err, repository.ErrInvalidInput):
		return ErrValidation.WithDetail(err.Error())
	case errors.Is(err, repository.ErrNotImplemented):
		return ErrNotImplemented.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja automáticamente errores de tipo *AppError y errores genéricos.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)

	_ = json.NewEncoder(w).Encode(resp)
}
