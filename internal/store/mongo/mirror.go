package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/dropDatabas3/smartbin/internal/domain"
)

// GetCompanyDocument lee el espejo documental de una empresa por su
// external id (COMP-NNN).
func (s *Store) GetCompanyDocument(ctx context.Context, externalID string) (*domain.CompanyDocument, error) {
	var doc domain.CompanyDocument
	if err := s.findByKey(ctx, domain.CollCompanies, "company_id", externalID, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetUserSyncDocument lee el espejo de sincronización de un usuario
// por su id relacional.
func (s *Store) GetUserSyncDocument(ctx context.Context, sqlUserID int64) (*domain.UserSyncDocument, error) {
	var doc domain.UserSyncDocument
	if err := s.findByKey(ctx, domain.CollUserSync, "sql_user_id", sqlUserID, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListCompanyDocuments trae todos los espejos de empresa indexados por
// external id, para fusionar listados sin N consultas.
func (s *Store) ListCompanyDocuments(ctx context.Context) (map[string]domain.CompanyDocument, error) {
	cur, err := s.db.Collection(domain.CollCompanies).Find(ctx, bson.M{})
	if err != nil {
		return nil, translateErr(err)
	}
	var docs []domain.CompanyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateErr(err)
	}
	out := make(map[string]domain.CompanyDocument, len(docs))
	for _, d := range docs {
		out[d.CompanyID] = d
	}
	return out, nil
}

// ListUserSyncDocuments trae todos los espejos de usuario indexados
// por id relacional.
func (s *Store) ListUserSyncDocuments(ctx context.Context) (map[int64]domain.UserSyncDocument, error) {
	cur, err := s.db.Collection(domain.CollUserSync).Find(ctx, bson.M{})
	if err != nil {
		return nil, translateErr(err)
	}
	var docs []domain.UserSyncDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateErr(err)
	}
	out := make(map[int64]domain.UserSyncDocument, len(docs))
	for _, d := range docs {
		out[d.SQLUserID] = d
	}
	return out, nil
}
