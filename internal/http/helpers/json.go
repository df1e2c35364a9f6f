// Package helpers contiene utilidades compartidas por los controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	httperrors "github.com/dropDatabas3/smartbin/internal/http/errors"
)

// maxBodyBytes limita el tamaño de los cuerpos JSON aceptados.
const maxBodyBytes = 1 << 20 // 1 MB

// ReadJSON decodifica el cuerpo de la request en dst.
// Valida Content-Type, limita el tamaño del cuerpo y traduce los
// fallos de decodificación a AppErrors listos para WriteError.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(strings.ToLower(ct), "application/json") {
		return httperrors.ErrBadRequest.WithDetail("Content-Type debe ser application/json")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return httperrors.ErrBodyTooLarge
		}
		return httperrors.ErrInvalidJSON.WithCause(err)
	}
	return nil
}

// WriteJSON escribe v como respuesta JSON con el status indicado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// partialEnvelope es la respuesta 207 para escrituras parciales: el
// recurso quedó confirmado en Postgres pero el espejo está pendiente.
type partialEnvelope struct {
	Data any         `json:"data"`
	Sync partialSync `json:"sync"`
}

type partialSync struct {
	Status     string `json:"status"`
	ExternalID string `json:"externalId,omitempty"`
	Collection string `json:"collection,omitempty"`
}

// WritePartial responde 207 Multi-Status con el recurso confirmado y la
// información necesaria para disparar la reparación del espejo.
func WritePartial(w http.ResponseWriter, data any, pw *repository.PartialWriteError) {
	WriteJSON(w, http.StatusMultiStatus, partialEnvelope{
		Data: data,
		Sync: partialSync{
			Status:     "pending",
			ExternalID: pw.ExternalID,
			Collection: pw.Collection,
		},
	})
}
