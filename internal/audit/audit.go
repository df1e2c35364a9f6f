// Package audit compara pares fila/documento y reporta divergencias.
// Es de solo lectura: nunca corrige, solo informa.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

// Divergence es un campo cuyo valor difiere entre motores.
type Divergence struct {
	Field      string `json:"field"`
	Relational any    `json:"relational"`
	Document   any    `json:"document"`
}

// Report es el resultado de auditar una entidad.
type Report struct {
	Kind          string       `json:"kind"`
	Key           string       `json:"key"`
	RecordFound   bool         `json:"recordFound"`
	DocumentFound bool         `json:"documentFound"`
	InSync        bool         `json:"inSync"`
	Divergences   []Divergence `json:"divergences,omitempty"`
	CheckedAt     time.Time    `json:"checkedAt"`
}

type diffCollector struct {
	out []Divergence
}

func (d *diffCollector) check(field string, rel, doc any) {
	if rel != doc {
		d.out = append(d.out, Divergence{Field: field, Relational: rel, Document: doc})
	}
}

// CompareCompany contrasta la fila autoritativa contra su espejo.
// Los campos que solo existen de un lado (tax_id, location) no se
// comparan.
func CompareCompany(rec *domain.CompanyRecord, doc *domain.CompanyDocument) Report {
	r := Report{Kind: "company", CheckedAt: time.Now().UTC()}
	if rec != nil {
		r.Key = rec.MongoCompanyID
		r.RecordFound = true
	}
	if doc != nil {
		r.DocumentFound = true
		if r.Key == "" {
			r.Key = doc.CompanyID
		}
	}
	if rec == nil || doc == nil {
		return r
	}

	var d diffCollector
	d.check("name", rec.Name, doc.Name)
	d.check("contact.email", rec.Email, doc.Contact.Email)
	d.check("contact.phone", rec.Phone, doc.Contact.Phone)
	d.check("contact.address", rec.Address, doc.Contact.Address)
	d.check("active", rec.Active, doc.Active)

	r.Divergences = d.out
	r.InSync = len(d.out) == 0
	return r
}

// CompareUser contrasta la fila de usuario contra su espejo de sync.
func CompareUser(rec *domain.UserRecord, doc *domain.UserSyncDocument) Report {
	r := Report{Kind: "user", CheckedAt: time.Now().UTC()}
	if rec != nil {
		r.Key = fmt.Sprintf("%d", rec.ID)
		r.RecordFound = true
	}
	if doc != nil {
		r.DocumentFound = true
		if r.Key == "" {
			r.Key = fmt.Sprintf("%d", doc.SQLUserID)
		}
	}
	if rec == nil || doc == nil {
		return r
	}

	var d diffCollector
	d.check("email", rec.Email, doc.Email)
	d.check("role", rec.Role, doc.Role)
	d.check("company_id", rec.MongoCompanyID, doc.CompanyID)
	d.check("active", rec.Active, doc.Active)

	r.Divergences = d.out
	r.InSync = len(d.out) == 0
	return r
}

// Auditor resuelve snapshots vía los repos híbridos y los compara.
type Auditor struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
}

func New(companies repository.CompanyRepository, users repository.UserRepository) *Auditor {
	return &Auditor{companies: companies, users: users}
}

func (a *Auditor) AuditCompany(ctx context.Context, id int64) (Report, error) {
	rec, doc, err := a.companies.Snapshot(ctx, id)
	if err != nil {
		return Report{}, err
	}
	return CompareCompany(rec, doc), nil
}

func (a *Auditor) AuditUser(ctx context.Context, id int64) (Report, error) {
	rec, doc, err := a.users.Snapshot(ctx, id)
	if err != nil {
		return Report{}, err
	}
	return CompareUser(rec, doc), nil
}
