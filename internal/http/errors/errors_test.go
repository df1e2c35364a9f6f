package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

func TestFromRepositoryMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"not found", fmt.Errorf("get: %w", repository.ErrNotFound), "NOT_FOUND", http.StatusNotFound},
		{"duplicate", fmt.Errorf("insert: %w", repository.ErrDuplicateKey), "ALREADY_EXISTS", http.StatusConflict},
		{"invalid input", fmt.Errorf("%w: name requerido", repository.ErrInvalidInput), "VALIDATION_FAILED", http.StatusBadRequest},
		{"not implemented", repository.ErrNotImplemented, "NOT_IMPLEMENTED", http.StatusNotImplemented},
		{"unknown", errors.New("boom"), "INTERNAL_SERVER_ERROR", http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			app := FromRepository(c.err)
			assert.Equal(t, c.code, app.Code)
			assert.Equal(t, c.status, app.HTTPStatus)
		})
	}
}

func TestFromRepositoryPartialWrite(t *testing.T) {
	pw := &repository.PartialWriteError{
		Op:         "create",
		Kind:       "company",
		ExternalID: "COMP-007",
		Collection: "companies",
		Err:        errors.New("mongo down"),
	}

	app := FromRepository(fmt.Errorf("create company: %w", pw))
	assert.Equal(t, "PARTIAL_WRITE", app.Code)
	assert.Equal(t, http.StatusMultiStatus, app.HTTPStatus)
	assert.Equal(t, "COMP-007", app.Detail)
}

func TestFromErrorPreservesAppError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrInvalidCredentials)
	app := FromError(wrapped)
	assert.Equal(t, ErrInvalidCredentials.Code, app.Code)
	assert.Equal(t, http.StatusUnauthorized, app.HTTPStatus)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("get: %w", repository.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestWithDetailDoesNotMutateCatalog(t *testing.T) {
	detailed := ErrValidation.WithDetail("campo faltante")
	assert.Equal(t, "campo faltante", detailed.Detail)
	assert.Empty(t, ErrValidation.Detail)
}
