package hybrid

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/smartbin/internal/cache"
	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/dualwrite"
)

type fakeUserRows struct {
	nextRowID int64
	rows      map[int64]*domain.UserRecord
	companies map[string]bool
}

func newFakeUserRows(companies ...string) *fakeUserRows {
	f := &fakeUserRows{rows: map[int64]*domain.UserRecord{}, companies: map[string]bool{}}
	for _, c := range companies {
		f.companies[c] = true
	}
	return f
}

func (f *fakeUserRows) InsertUser(ctx context.Context, u *domain.UserRecord) (int64, error) {
	for _, ex := range f.rows {
		if ex.Email == u.Email {
			return 0, repository.ErrDuplicateKey
		}
	}
	f.nextRowID++
	cp := *u
	cp.ID = f.nextRowID
	f.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeUserRows) GetUser(ctx context.Context, id int64) (*domain.UserRecord, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRows) GetUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	for _, u := range f.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRows) ListUsers(ctx context.Context) ([]domain.UserRecord, error) {
	out := make([]domain.UserRecord, 0, len(f.rows))
	for i := int64(1); i <= f.nextRowID; i++ {
		if u, ok := f.rows[i]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRows) ListUsersByCompany(ctx context.Context, companyID string) ([]domain.UserRecord, error) {
	var out []domain.UserRecord
	for i := int64(1); i <= f.nextRowID; i++ {
		if u, ok := f.rows[i]; ok && u.MongoCompanyID == companyID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRows) UpdateUser(ctx context.Context, id int64, in domain.UserUpdate, now time.Time) (*domain.UserRecord, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.CompanyID != nil {
		u.MongoCompanyID = *in.CompanyID
	}
	u.UpdatedAt = now
	cp := *u
	return &cp, nil
}

func (f *fakeUserRows) DeactivateUser(ctx context.Context, id int64, now time.Time) error {
	u, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = false
	u.UpdatedAt = now
	return nil
}

func (f *fakeUserRows) GetCompanyByExternalID(ctx context.Context, externalID string) (*domain.CompanyRecord, error) {
	if !f.companies[externalID] {
		return nil, repository.ErrNotFound
	}
	return &domain.CompanyRecord{MongoCompanyID: externalID, Active: true}, nil
}

// fakeUserMirror es a la vez DocWriter y lado documental de usuarios.
type fakeUserMirror struct {
	failN int
	docs  map[int64]map[string]any
}

func newFakeUserMirror() *fakeUserMirror {
	return &fakeUserMirror{docs: map[int64]map[string]any{}}
}

func (f *fakeUserMirror) keyOf(key any) int64 {
	switch v := key.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func (f *fakeUserMirror) UpsertByKey(ctx context.Context, collection, keyField string, key any, doc map[string]any) error {
	if f.failN > 0 {
		f.failN--
		return errors.New("mongo down")
	}
	f.docs[f.keyOf(key)] = doc
	return nil
}

func (f *fakeUserMirror) SetByKey(ctx context.Context, collection, keyField string, key any, fields map[string]any) error {
	if f.failN > 0 {
		f.failN--
		return errors.New("mongo down")
	}
	doc, ok := f.docs[f.keyOf(key)]
	if !ok {
		doc = map[string]any{}
	}
	for k, v := range fields {
		doc[k] = v
	}
	f.docs[f.keyOf(key)] = doc
	return nil
}

func (f *fakeUserMirror) toDocument(id int64, raw map[string]any) *domain.UserSyncDocument {
	doc := &domain.UserSyncDocument{SQLUserID: id}
	if v, ok := raw["email"].(string); ok {
		doc.Email = v
	}
	if v, ok := raw["role"].(string); ok {
		doc.Role = v
	}
	if v, ok := raw["company_id"].(string); ok {
		doc.CompanyID = v
	}
	if v, ok := raw["active"].(bool); ok {
		doc.Active = v
	}
	if v, ok := raw["last_sync"].(time.Time); ok {
		doc.LastSync = v
	}
	return doc
}

func (f *fakeUserMirror) GetUserSyncDocument(ctx context.Context, sqlUserID int64) (*domain.UserSyncDocument, error) {
	raw, ok := f.docs[sqlUserID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f.toDocument(sqlUserID, raw), nil
}

func (f *fakeUserMirror) ListUserSyncDocuments(ctx context.Context) (map[int64]domain.UserSyncDocument, error) {
	out := map[int64]domain.UserSyncDocument{}
	for id, raw := range f.docs {
		out[id] = *f.toDocument(id, raw)
	}
	return out, nil
}

func newUserFixture(t *testing.T, mirror *fakeUserMirror, companies ...string) (*UserRepo, *fakeUserRows, *dualwrite.Coordinator) {
	t.Helper()
	rows := newFakeUserRows(companies...)
	pending := dualwrite.NewPendingStore(cache.NewMemory("t", time.Minute), time.Minute)
	coord := dualwrite.New(mirror, pending, 1)
	return NewUserRepo(rows, mirror, coord), rows, coord
}

// ───────── tests ─────────

func TestUserCreateWritesMirrorKeyedBySQLID(t *testing.T) {
	mirror := newFakeUserMirror()
	repo, _, _ := newUserFixture(t, mirror, "COMP-001")

	u, err := repo.Create(context.Background(), domain.NewUser{
		Email:     "Ana@EcoTrash.example",
		Password:  "s3cret-pass",
		FirstName: "Ana",
		LastName:  "García",
		Role:      domain.RoleCollector,
		CompanyID: "COMP-001",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "ana@ecotrash.example", u.Email, "el email se normaliza a minúsculas")

	doc := mirror.docs[1]
	require.NotNil(t, doc)
	assert.Equal(t, int64(1), doc["sql_user_id"])
	assert.Equal(t, domain.RoleCollector, doc["role"])
	assert.Equal(t, "COMP-001", doc["company_id"])
}

func TestUserCreateRejectsUnknownRoleAndCompany(t *testing.T) {
	repo, _, _ := newUserFixture(t, newFakeUserMirror(), "COMP-001")

	_, err := repo.Create(context.Background(), domain.NewUser{
		Email: "a@b.c", Password: "s3cret-pass", Role: "superuser",
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	_, err = repo.Create(context.Background(), domain.NewUser{
		Email: "a@b.c", Password: "s3cret-pass", Role: domain.RoleAdmin, CompanyID: "COMP-999",
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestUserCreatePartialWriteRepairable(t *testing.T) {
	mirror := newFakeUserMirror()
	mirror.failN = 1
	repo, rows, coord := newUserFixture(t, mirror, "COMP-001")

	u, err := repo.Create(context.Background(), domain.NewUser{
		Email:    "ana@ecotrash.example",
		Password: "s3cret-pass",
		Role:     domain.RoleEmployee,
	})
	require.Error(t, err)

	pw, ok := repository.IsPartialWrite(err)
	require.True(t, ok)
	assert.Equal(t, "1", pw.ExternalID, "sin external id, la clave es el id relacional")
	assert.Equal(t, int64(1), pw.RelationalID)
	require.NotNil(t, u)
	assert.Len(t, rows.rows, 1)

	// reparación idempotente por kind+clave
	_, err = coord.Repair(context.Background(), "user", "1")
	require.NoError(t, err)
	doc := mirror.docs[1]
	require.NotNil(t, doc)
	assert.Equal(t, domain.RoleEmployee, doc["role"])
}

func TestUserAuthenticate(t *testing.T) {
	mirror := newFakeUserMirror()
	repo, _, _ := newUserFixture(t, mirror, "COMP-001")

	_, err := repo.Create(context.Background(), domain.NewUser{
		Email:    "ana@ecotrash.example",
		Password: "s3cret-pass",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	u, err := repo.Authenticate(context.Background(), "ana@ecotrash.example", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = repo.Authenticate(context.Background(), "ana@ecotrash.example", "wrong-pass")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Authenticate(context.Background(), "nadie@ecotrash.example", "s3cret-pass")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// cuenta desactivada: misma respuesta que credenciales inválidas
	require.NoError(t, repo.Deactivate(context.Background(), 1))
	_, err = repo.Authenticate(context.Background(), "ana@ecotrash.example", "s3cret-pass")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserUpdateSyncsMirror(t *testing.T) {
	mirror := newFakeUserMirror()
	repo, _, _ := newUserFixture(t, mirror, "COMP-001", "COMP-002")

	_, err := repo.Create(context.Background(), domain.NewUser{
		Email:    "ana@ecotrash.example",
		Password: "s3cret-pass",
		Role:     domain.RoleEmployee,
		CompanyID: "COMP-001",
	})
	require.NoError(t, err)

	role := domain.RoleCollector
	company := "COMP-002"
	u, err := repo.Update(context.Background(), 1, domain.UserUpdate{Role: &role, CompanyID: &company})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCollector, u.Role)
	assert.Equal(t, "COMP-002", u.CompanyID)

	doc := mirror.docs[1]
	assert.Equal(t, domain.RoleCollector, doc["role"])
	assert.Equal(t, "COMP-002", doc["company_id"])
}

func TestUserSnapshotPair(t *testing.T) {
	mirror := newFakeUserMirror()
	repo, _, _ := newUserFixture(t, mirror, "COMP-001")

	_, err := repo.Create(context.Background(), domain.NewUser{
		Email:    "ana@ecotrash.example",
		Password: "s3cret-pass",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	rec, doc, err := repo.Snapshot(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, doc)
	assert.Equal(t, rec.ID, doc.SQLUserID)
	assert.Equal(t, strconv.FormatInt(rec.ID, 10), "1")
}
