package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

func syncedCompanyPair() (*domain.CompanyRecord, *domain.CompanyDocument) {
	now := time.Now().UTC()
	rec := &domain.CompanyRecord{
		ID:             1,
		Name:           "EcoTrash SA",
		TaxID:          "30-12345678-9",
		Email:          "info@ecotrash.example",
		Phone:          "+54 11 5555-0001",
		Address:        "Av. Siempreviva 742",
		MongoCompanyID: "COMP-001",
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	doc := &domain.CompanyDocument{
		CompanyID: "COMP-001",
		Name:      "EcoTrash SA",
		Contact: domain.ContactInfo{
			Email:   "info@ecotrash.example",
			Phone:   "+54 11 5555-0001",
			Address: "Av. Siempreviva 742",
		},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return rec, doc
}

func TestCompareCompanyInSync(t *testing.T) {
	rec, doc := syncedCompanyPair()
	r := CompareCompany(rec, doc)

	assert.True(t, r.RecordFound)
	assert.True(t, r.DocumentFound)
	assert.True(t, r.InSync)
	assert.Empty(t, r.Divergences)
	assert.Equal(t, "COMP-001", r.Key)
}

func TestCompareCompanyDiverged(t *testing.T) {
	rec, doc := syncedCompanyPair()
	doc.Name = "EcoTrash SRL"
	doc.Active = false

	r := CompareCompany(rec, doc)
	assert.False(t, r.InSync)
	require.Len(t, r.Divergences, 2)
	assert.Equal(t, "name", r.Divergences[0].Field)
	assert.Equal(t, "EcoTrash SA", r.Divergences[0].Relational)
	assert.Equal(t, "EcoTrash SRL", r.Divergences[0].Document)
	assert.Equal(t, "active", r.Divergences[1].Field)
}

func TestCompareCompanyEmailDivergence(t *testing.T) {
	rec, doc := syncedCompanyPair()
	doc.Contact.Email = "facturacion@ecotrash.example"

	r := CompareCompany(rec, doc)
	assert.False(t, r.InSync)
	require.Len(t, r.Divergences, 1)
	assert.Equal(t, "contact.email", r.Divergences[0].Field)
	assert.Equal(t, "info@ecotrash.example", r.Divergences[0].Relational)
	assert.Equal(t, "facturacion@ecotrash.example", r.Divergences[0].Document)
}

func TestCompareCompanyMissingDocument(t *testing.T) {
	rec, _ := syncedCompanyPair()
	r := CompareCompany(rec, nil)

	assert.True(t, r.RecordFound)
	assert.False(t, r.DocumentFound)
	assert.False(t, r.InSync)
	assert.Empty(t, r.Divergences)
}

func TestCompareUser(t *testing.T) {
	rec := &domain.UserRecord{
		ID:             42,
		Email:          "ana@ecotrash.example",
		Role:           domain.RoleCollector,
		MongoCompanyID: "COMP-001",
		Active:         true,
	}
	doc := &domain.UserSyncDocument{
		SQLUserID: 42,
		Email:     "ana@ecotrash.example",
		Role:      domain.RoleCollector,
		CompanyID: "COMP-001",
		Active:    true,
	}

	r := CompareUser(rec, doc)
	assert.True(t, r.InSync)
	assert.Equal(t, "42", r.Key)

	doc.Role = domain.RoleEmployee
	doc.CompanyID = "COMP-002"
	r = CompareUser(rec, doc)
	assert.False(t, r.InSync)
	require.Len(t, r.Divergences, 2)
	assert.Equal(t, "role", r.Divergences[0].Field)
	assert.Equal(t, "company_id", r.Divergences[1].Field)
}

func TestCompareUserEmailDivergence(t *testing.T) {
	rec := &domain.UserRecord{
		ID:             42,
		Email:          "ana@ecotrash.example",
		Role:           domain.RoleCollector,
		MongoCompanyID: "COMP-001",
		Active:         true,
	}
	doc := &domain.UserSyncDocument{
		SQLUserID: 42,
		Email:     "ana.garcia@ecotrash.example",
		Role:      domain.RoleCollector,
		CompanyID: "COMP-001",
		Active:    true,
	}

	r := CompareUser(rec, doc)
	assert.False(t, r.InSync)
	require.Len(t, r.Divergences, 1)
	assert.Equal(t, "email", r.Divergences[0].Field)
	assert.Equal(t, "ana@ecotrash.example", r.Divergences[0].Relational)
	assert.Equal(t, "ana.garcia@ecotrash.example", r.Divergences[0].Document)
}
