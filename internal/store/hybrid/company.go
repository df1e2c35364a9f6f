// Package hybrid implementa los repositorios del dominio componiendo
// la fila autoritativa (Postgres) con el espejo documental (Mongo).
// Las escrituras híbridas pasan por el coordinador de doble escritura;
// las lecturas fusionan de forma laxa: espejo ausente degrada campos,
// nunca falla la lectura.
package hybrid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/dualwrite"
	"github.com/dropDatabas3/smartbin/internal/ident"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
)

// companyRows es lo que el repo necesita del lado relacional.
type companyRows interface {
	NextSeq(ctx context.Context, name string) (int64, error)
	InsertCompany(ctx context.Context, c *domain.CompanyRecord) (int64, error)
	GetCompany(ctx context.Context, id int64) (*domain.CompanyRecord, error)
	GetCompanyByExternalID(ctx context.Context, externalID string) (*domain.CompanyRecord, error)
	ListCompanies(ctx context.Context) ([]domain.CompanyRecord, error)
	UpdateCompany(ctx context.Context, id int64, in domain.CompanyUpdate, now time.Time) (*domain.CompanyRecord, error)
	DeactivateCompany(ctx context.Context, id int64, now time.Time) error
}

// companyDocs es lo que el repo necesita del lado documental (lecturas;
// las escrituras van por el coordinador).
type companyDocs interface {
	GetCompanyDocument(ctx context.Context, externalID string) (*domain.CompanyDocument, error)
	ListCompanyDocuments(ctx context.Context) (map[string]domain.CompanyDocument, error)
}

type CompanyRepo struct {
	rows  companyRows
	docs  companyDocs
	coord *dualwrite.Coordinator
}

func NewCompanyRepo(rows companyRows, docs companyDocs, coord *dualwrite.Coordinator) *CompanyRepo {
	return &CompanyRepo{rows: rows, docs: docs, coord: coord}
}

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

func (r *CompanyRepo) Create(ctx context.Context, in domain.NewCompany) (*domain.Company, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: name and email are required", repository.ErrInvalidInput)
	}

	now := time.Now().UTC()
	var rec *domain.CompanyRecord

	plan := dualwrite.Plan{
		Op:   "create",
		Kind: "company",
		GenerateID: func(ctx context.Context) (string, error) {
			n, err := r.rows.NextSeq(ctx, ident.PrefixCompany)
			if err != nil {
				return "", err
			}
			return ident.Format(ident.PrefixCompany, n), nil
		},
		Relational: func(ctx context.Context, externalID string) (int64, error) {
			c := &domain.CompanyRecord{
				Name:           in.Name,
				TaxID:          in.TaxID,
				Email:          in.Email,
				Phone:          in.Phone,
				Address:        in.Address,
				MongoCompanyID: externalID,
				Active:         true,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			id, err := r.rows.InsertCompany(ctx, c)
			if err != nil {
				return 0, err
			}
			c.ID = id
			rec = c
			return id, nil
		},
		Document: func(externalID string, relID int64) dualwrite.DocumentWrite {
			return dualwrite.DocumentWrite{
				Collection: domain.CollCompanies,
				KeyField:   "company_id",
				Key:        externalID,
				Mode:       dualwrite.ModeReplace,
				Doc:        companyDocPayload(externalID, in, now),
			}
		},
	}

	_, err := r.coord.Execute(ctx, plan)
	if err != nil {
		if _, ok := repository.IsPartialWrite(err); ok {
			// SQL confirmado: la empresa existe, el espejo queda pendiente
			return mergeCompany(rec, nil), err
		}
		return nil, err
	}

	view := mergeCompany(rec, nil)
	view.Location = in.Location
	sync := now
	view.LastSync = &sync
	return view, nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	rec, doc, err := r.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return mergeCompany(rec, doc), nil
}

func (r *CompanyRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.Company, error) {
	rec, err := r.rows.GetCompanyByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	doc := r.lenientDoc(ctx, rec.MongoCompanyID)
	return mergeCompany(rec, doc), nil
}

func (r *CompanyRepo) List(ctx context.Context) ([]domain.Company, error) {
	var (
		recs []domain.CompanyRecord
		docs map[string]domain.CompanyDocument
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = r.rows.ListCompanies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		docs, err = r.docs.ListCompanyDocuments(gctx)
		if err != nil {
			// lectura laxa: sin espejo el listado degrada campos
			logger.Named("hybrid.company").Warn("mirror list unavailable", logger.Err(err))
			docs = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.Company, 0, len(recs))
	for i := range recs {
		var doc *domain.CompanyDocument
		if d, ok := docs[recs[i].MongoCompanyID]; ok {
			doc = &d
		}
		out = append(out, *mergeCompany(&recs[i], doc))
	}
	return out, nil
}

func (r *CompanyRepo) Update(ctx context.Context, id int64, in domain.CompanyUpdate) (*domain.Company, error) {
	existing, err := r.rows.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var updated *domain.CompanyRecord

	plan := dualwrite.Plan{
		Op:         "update",
		Kind:       "company",
		ExternalID: existing.MongoCompanyID,
		Relational: func(ctx context.Context, externalID string) (int64, error) {
			rec, err := r.rows.UpdateCompany(ctx, id, in, now)
			if err != nil {
				return 0, err
			}
			updated = rec
			return rec.ID, nil
		},
		Document: func(externalID string, relID int64) dualwrite.DocumentWrite {
			fields := map[string]any{
				"name": updated.Name,
				"contact": map[string]any{
					"email":   updated.Email,
					"phone":   updated.Phone,
					"address": updated.Address,
				},
				"active":     updated.Active,
				"updated_at": now,
			}
			if in.Location != nil {
				fields["location"] = geoPayload(in.Location)
			}
			return dualwrite.DocumentWrite{
				Collection: domain.CollCompanies,
				KeyField:   "company_id",
				Key:        externalID,
				// $set parcial: preserva location y created_at del espejo
				Mode: dualwrite.ModeSet,
				Doc:  fields,
			}
		},
	}

	if _, err := r.coord.Execute(ctx, plan); err != nil {
		if _, ok := repository.IsPartialWrite(err); ok {
			return mergeCompany(updated, nil), err
		}
		return nil, err
	}

	doc := r.lenientDoc(ctx, updated.MongoCompanyID)
	return mergeCompany(updated, doc), nil
}

func (r *CompanyRepo) Deactivate(ctx context.Context, id int64) error {
	existing, err := r.rows.GetCompany(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	plan := dualwrite.Plan{
		Op:         "deactivate",
		Kind:       "company",
		ExternalID: existing.MongoCompanyID,
		Relational: func(ctx context.Context, externalID string) (int64, error) {
			if err := r.rows.DeactivateCompany(ctx, id, now); err != nil {
				return 0, err
			}
			return id, nil
		},
		Document: func(externalID string, relID int64) dualwrite.DocumentWrite {
			return dualwrite.DocumentWrite{
				Collection: domain.CollCompanies,
				KeyField:   "company_id",
				Key:        externalID,
				Mode:       dualwrite.ModeSet,
				Doc:        map[string]any{"active": false, "updated_at": now},
			}
		},
	}

	_, err = r.coord.Execute(ctx, plan)
	return err
}

func (r *CompanyRepo) Snapshot(ctx context.Context, id int64) (*domain.CompanyRecord, *domain.CompanyDocument, error) {
	rec, err := r.rows.GetCompany(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := r.docs.GetCompanyDocument(ctx, rec.MongoCompanyID)
	if err != nil {
		if repository.IsNotFound(err) {
			return rec, nil, nil
		}
		return nil, nil, err
	}
	return rec, doc, nil
}

// lenientDoc busca el espejo sin propagar fallas: lectura degradada.
func (r *CompanyRepo) lenientDoc(ctx context.Context, externalID string) *domain.CompanyDocument {
	doc, err := r.docs.GetCompanyDocument(ctx, externalID)
	if err != nil {
		if !repository.IsNotFound(err) {
			logger.Named("hybrid.company").Warn("mirror read failed",
				logger.ExternalID(externalID), logger.Err(err))
		}
		return nil
	}
	return doc
}

func mergeCompany(rec *domain.CompanyRecord, doc *domain.CompanyDocument) *domain.Company {
	if rec == nil {
		return nil
	}
	c := &domain.Company{
		ID:         rec.ID,
		ExternalID: rec.MongoCompanyID,
		Name:       rec.Name,
		TaxID:      rec.TaxID,
		Email:      rec.Email,
		Phone:      rec.Phone,
		Address:    rec.Address,
		Active:     rec.Active,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	if doc != nil {
		c.Location = doc.Location
		sync := doc.UpdatedAt
		c.LastSync = &sync
	}
	return c
}

// companyDocPayload arma el documento espejo como mapa plano, apto
// para retención y re-aplicación sin pérdida.
func companyDocPayload(externalID string, in domain.NewCompany, now time.Time) map[string]any {
	doc := map[string]any{
		"company_id": externalID,
		"name":       in.Name,
		"contact": map[string]any{
			"email":   in.Email,
			"phone":   in.Phone,
			"address": in.Address,
		},
		"active":     true,
		"created_at": now,
		"updated_at": now,
	}
	if in.Location != nil {
		doc["location"] = geoPayload(in.Location)
	}
	return doc
}

func geoPayload(p *domain.GeoPoint) map[string]any {
	return map[string]any{"type": p.Type, "coordinates": p.Coordinates}
}
