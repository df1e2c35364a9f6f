package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/smartbin/internal/audit"
	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

// ── fakes mínimos ──

type fakeCompanies struct {
	partial bool
}

func sampleCompany() *domain.Company {
	return &domain.Company{
		ID:         1,
		ExternalID: "COMP-001",
		Name:       "EcoSur",
		TaxID:      "30-111",
		Email:      "contacto@ecosur.com",
		Active:     true,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}

func (f *fakeCompanies) Create(ctx context.Context, in domain.NewCompany) (*domain.Company, error) {
	c := sampleCompany()
	c.Name = in.Name
	if f.partial {
		return c, &repository.PartialWriteError{
			Op: "create", Kind: "company", ExternalID: c.ExternalID,
			RelationalID: c.ID, Collection: "companies",
			Err: context.DeadlineExceeded,
		}
	}
	return c, nil
}

func (f *fakeCompanies) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	if id != 1 {
		return nil, repository.ErrNotFound
	}
	return sampleCompany(), nil
}

func (f *fakeCompanies) GetByExternalID(ctx context.Context, externalID string) (*domain.Company, error) {
	if externalID != "COMP-001" {
		return nil, repository.ErrNotFound
	}
	return sampleCompany(), nil
}

func (f *fakeCompanies) List(ctx context.Context) ([]domain.Company, error) {
	return []domain.Company{*sampleCompany()}, nil
}

func (f *fakeCompanies) Update(ctx context.Context, id int64, in domain.CompanyUpdate) (*domain.Company, error) {
	return sampleCompany(), nil
}

func (f *fakeCompanies) Deactivate(ctx context.Context, id int64) error { return nil }

func (f *fakeCompanies) Snapshot(ctx context.Context, id int64) (*domain.CompanyRecord, *domain.CompanyDocument, error) {
	return nil, nil, repository.ErrNotFound
}

type fakeUsers struct{}

func sampleUser() *domain.User {
	return &domain.User{ID: 3, Email: "op@ecosur.com", Role: "employee", CompanyID: "COMP-001", Active: true}
}

func (fakeUsers) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	return sampleUser(), nil
}
func (fakeUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return sampleUser(), nil
}
func (fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return sampleUser(), nil
}
func (fakeUsers) List(ctx context.Context) ([]domain.User, error) {
	return []domain.User{*sampleUser()}, nil
}
func (fakeUsers) ListByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	return []domain.User{*sampleUser()}, nil
}
func (fakeUsers) Update(ctx context.Context, id int64, in domain.UserUpdate) (*domain.User, error) {
	return sampleUser(), nil
}
func (fakeUsers) Deactivate(ctx context.Context, id int64) error { return nil }
func (fakeUsers) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "op@ecosur.com" && password == "correcta" {
		return sampleUser(), nil
	}
	return nil, repository.ErrNotFound
}
func (fakeUsers) Snapshot(ctx context.Context, id int64) (*domain.UserRecord, *domain.UserSyncDocument, error) {
	return nil, nil, repository.ErrNotFound
}

type fakeContainers struct{}

func (fakeContainers) Create(ctx context.Context, in domain.NewContainer) (*domain.Container, error) {
	return &domain.Container{ContainerID: "CONT-001", CompanyID: in.CompanyID, Type: in.Type}, nil
}
func (fakeContainers) GetByID(ctx context.Context, containerID string) (*domain.Container, error) {
	return nil, repository.ErrNotFound
}
func (fakeContainers) List(ctx context.Context) ([]domain.Container, error) { return nil, nil }
func (fakeContainers) ListByCompany(ctx context.Context, companyID string) ([]domain.Container, error) {
	return nil, nil
}
func (fakeContainers) Update(ctx context.Context, containerID string, in domain.ContainerUpdate) (*domain.Container, error) {
	return nil, repository.ErrNotFound
}
func (fakeContainers) Delete(ctx context.Context, containerID string) error {
	return repository.ErrNotFound
}

type fakeIncidents struct{}

func (fakeIncidents) Create(ctx context.Context, in domain.NewIncident) (*domain.Incident, error) {
	return &domain.Incident{IncidentID: "INC-001", ContainerID: in.ContainerID, Type: in.Type, Status: domain.IncidentStatusOpen}, nil
}
func (fakeIncidents) GetByID(ctx context.Context, incidentID string) (*domain.Incident, error) {
	return nil, repository.ErrNotFound
}
func (fakeIncidents) GetDetailed(ctx context.Context, incidentID string) (*domain.DetailedIncident, error) {
	return nil, repository.ErrNotFound
}
func (fakeIncidents) List(ctx context.Context, status string) ([]domain.Incident, error) {
	return nil, nil
}
func (fakeIncidents) ListDetailed(ctx context.Context, status string) ([]domain.DetailedIncident, error) {
	return nil, nil
}
func (fakeIncidents) ListByContainer(ctx context.Context, containerID string) ([]domain.Incident, error) {
	return nil, nil
}
func (fakeIncidents) SetStatus(ctx context.Context, incidentID, status, notes string) (*domain.Incident, error) {
	return nil, repository.ErrNotFound
}

type fakeSensors struct{}

func (fakeSensors) Insert(ctx context.Context, r domain.SensorReading) error { return nil }
func (fakeSensors) ListByContainer(ctx context.Context, containerID string, limit int64) ([]domain.SensorReading, error) {
	return nil, nil
}
func (fakeSensors) LatestByDevice(ctx context.Context, deviceID string) (*domain.SensorReading, error) {
	return nil, repository.ErrNotFound
}
func (fakeSensors) LatestPerDevice(ctx context.Context) ([]domain.SensorReading, error) {
	return nil, nil
}
func (fakeSensors) AveragesByDevice(ctx context.Context, deviceID string, since time.Time) (*domain.SensorAverages, error) {
	return nil, repository.ErrNotFound
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newTestRouter(companies *fakeCompanies) http.Handler {
	users := fakeUsers{}
	return New(Deps{
		Companies:      companies,
		Users:          users,
		Containers:     fakeContainers{},
		Incidents:      fakeIncidents{},
		Sensors:        fakeSensors{},
		Auditor:        audit.New(companies, users),
		PostgresPinger: okPinger{},
		MongoPinger:    okPinger{},
		Version:        "test",
	})
}

// ── tests ──

func TestHealthz(t *testing.T) {
	h := newTestRouter(&fakeCompanies{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	h := newTestRouter(&fakeCompanies{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Service-Version"))
}

func TestCreateCompanyOK(t *testing.T) {
	h := newTestRouter(&fakeCompanies{})
	body := `{"name":"EcoSur","taxId":"30-111","email":"contacto@ecosur.com"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/companies", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCreateCompanyPartialWriteEnvelope(t *testing.T) {
	h := newTestRouter(&fakeCompanies{partial: true})
	body := `{"name":"EcoSur","taxId":"30-111","email":"contacto@ecosur.com"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/companies", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMultiStatus, rec.Code)

	var envelope struct {
		Data struct {
			ExternalID string `json:"externalId"`
		} `json:"data"`
		Sync struct {
			Status     string `json:"status"`
			ExternalID string `json:"externalId"`
			Collection string `json:"collection"`
		} `json:"sync"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "COMP-001", envelope.Data.ExternalID)
	assert.Equal(t, "pending", envelope.Sync.Status)
	assert.Equal(t, "COMP-001", envelope.Sync.ExternalID)
	assert.Equal(t, "companies", envelope.Sync.Collection)
}

func TestGetCompanyByExternalID(t *testing.T) {
	h := newTestRouter(&fakeCompanies{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/companies/COMP-001", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/companies/COMP-999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin(t *testing.T) {
	h := newTestRouter(&fakeCompanies{})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"op@ecosur.com","password":"correcta"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"op@ecosur.com","password":"incorrecta"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIngestAccepted(t *testing.T) {
	h := newTestRouter(&fakeCompanies{})
	body := `{"deviceId":"dev-001","containerId":"CONT-001","fillLevel":55.5}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sensor-data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestUnknownRouteJSON(t *testing.T) {
	h := newTestRouter(&fakeCompanies{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nada", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ROUTE_NOT_FOUND", body.Code)
}
