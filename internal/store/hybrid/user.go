package hybrid

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
	"github.com/dropDatabas3/smartbin/internal/dualwrite"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
	"github.com/dropDatabas3/smartbin/internal/security/password"
)

// userRows es lo que el repo necesita del lado relacional.
type userRows interface {
	InsertUser(ctx context.Context, u *domain.UserRecord) (int64, error)
	GetUser(ctx context.Context, id int64) (*domain.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error)
	ListUsers(ctx context.Context) ([]domain.UserRecord, error)
	ListUsersByCompany(ctx context.Context, companyID string) ([]domain.UserRecord, error)
	UpdateUser(ctx context.Context, id int64, in domain.UserUpdate, now time.Time) (*domain.UserRecord, error)
	DeactivateUser(ctx context.Context, id int64, now time.Time) error
	GetCompanyByExternalID(ctx context.Context, externalID string) (*domain.CompanyRecord, error)
}

// userDocs es el lado documental (solo lecturas).
type userDocs interface {
	GetUserSyncDocument(ctx context.Context, sqlUserID int64) (*domain.UserSyncDocument, error)
	ListUserSyncDocuments(ctx context.Context) (map[int64]domain.UserSyncDocument, error)
}

type UserRepo struct {
	rows  userRows
	docs  userDocs
	coord *dualwrite.Coordinator
}

func NewUserRepo(rows userRows, docs userDocs, coord *dualwrite.Coordinator) *UserRepo {
	return &UserRepo{rows: rows, docs: docs, coord: coord}
}

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", repository.ErrInvalidInput)
	}
	if !domain.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", repository.ErrInvalidInput, in.Role)
	}
	if in.CompanyID != "" {
		// la empresa referenciada debe existir en la fuente autoritativa
		if _, err := r.rows.GetCompanyByExternalID(ctx, in.CompanyID); err != nil {
			if repository.IsNotFound(err) {
				return nil, fmt.Errorf("%w: company %s does not exist", repository.ErrInvalidInput, in.CompanyID)
			}
			return nil, err
		}
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}

	now := time.Now().UTC()
	var rec *domain.UserRecord

	plan := dualwrite.Plan{
		Op:   "create",
		Kind: "user",
		Relational: func(ctx context.Context, _ string) (int64, error) {
			u := &domain.UserRecord{
				Email:          strings.ToLower(in.Email),
				PasswordHash:   hash,
				FirstName:      in.FirstName,
				LastName:       in.LastName,
				Role:           in.Role,
				MongoCompanyID: in.CompanyID,
				Active:         true,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			id, err := r.rows.InsertUser(ctx, u)
			if err != nil {
				return 0, err
			}
			u.ID = id
			rec = u
			return id, nil
		},
		Document: func(_ string, relID int64) dualwrite.DocumentWrite {
			return dualwrite.DocumentWrite{
				Collection: domain.CollUserSync,
				KeyField:   "sql_user_id",
				Key:        relID,
				Mode:       dualwrite.ModeReplace,
				Doc: map[string]any{
					"sql_user_id": relID,
					"email":       strings.ToLower(in.Email),
					"role":        in.Role,
					"company_id":  in.CompanyID,
					"active":      true,
					"last_sync":   now,
				},
			}
		},
	}

	if _, err := r.coord.Execute(ctx, plan); err != nil {
		if _, ok := repository.IsPartialWrite(err); ok {
			return mergeUser(rec, nil), err
		}
		return nil, err
	}

	view := mergeUser(rec, nil)
	sync := now
	view.LastSync = &sync
	return view, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	rec, doc, err := r.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return mergeUser(rec, doc), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	rec, err := r.rows.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	doc := r.lenientDoc(ctx, rec.ID)
	return mergeUser(rec, doc), nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	recs, err := r.rows.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return r.mergeAll(ctx, recs), nil
}

func (r *UserRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	recs, err := r.rows.ListUsersByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return r.mergeAll(ctx, recs), nil
}

func (r *UserRepo) mergeAll(ctx context.Context, recs []domain.UserRecord) []domain.User {
	docs, err := r.docs.ListUserSyncDocuments(ctx)
	if err != nil {
		logger.Named("hybrid.user").Warn("mirror list unavailable", logger.Err(err))
		docs = nil
	}
	out := make([]domain.User, 0, len(recs))
	for i := range recs {
		var doc *domain.UserSyncDocument
		if d, ok := docs[recs[i].ID]; ok {
			doc = &d
		}
		out = append(out, *mergeUser(&recs[i], doc))
	}
	return out
}

func (r *UserRepo) Update(ctx context.Context, id int64, in domain.UserUpdate) (*domain.User, error) {
	if in.Role != nil && !domain.ValidRole(*in.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", repository.ErrInvalidInput, *in.Role)
	}
	if in.CompanyID != nil && *in.CompanyID != "" {
		if _, err := r.rows.GetCompanyByExternalID(ctx, *in.CompanyID); err != nil {
			if repository.IsNotFound(err) {
				return nil, fmt.Errorf("%w: company %s does not exist", repository.ErrInvalidInput, *in.CompanyID)
			}
			return nil, err
		}
	}
	if _, err := r.rows.GetUser(ctx, id); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var updated *domain.UserRecord

	plan := dualwrite.Plan{
		Op:         "update",
		Kind:       "user",
		ExternalID: strconv.FormatInt(id, 10),
		Relational: func(ctx context.Context, _ string) (int64, error) {
			rec, err := r.rows.UpdateUser(ctx, id, in, now)
			if err != nil {
				return 0, err
			}
			updated = rec
			return rec.ID, nil
		},
		Document: func(_ string, relID int64) dualwrite.DocumentWrite {
			return dualwrite.DocumentWrite{
				Collection: domain.CollUserSync,
				KeyField:   "sql_user_id",
				Key:        relID,
				Mode:       dualwrite.ModeSet,
				Doc: map[string]any{
					"sql_user_id": relID,
					"email":       updated.Email,
					"role":        updated.Role,
					"company_id":  updated.MongoCompanyID,
					"active":      updated.Active,
					"last_sync":   now,
				},
			}
		},
	}

	if _, err := r.coord.Execute(ctx, plan); err != nil {
		if _, ok := repository.IsPartialWrite(err); ok {
			return mergeUser(updated, nil), err
		}
		return nil, err
	}

	view := mergeUser(updated, nil)
	sync := now
	view.LastSync = &sync
	return view, nil
}

func (r *UserRepo) Deactivate(ctx context.Context, id int64) error {
	if _, err := r.rows.GetUser(ctx, id); err != nil {
		return err
	}

	now := time.Now().UTC()
	plan := dualwrite.Plan{
		Op:         "deactivate",
		Kind:       "user",
		ExternalID: strconv.FormatInt(id, 10),
		Relational: func(ctx context.Context, _ string) (int64, error) {
			if err := r.rows.DeactivateUser(ctx, id, now); err != nil {
				return 0, err
			}
			return id, nil
		},
		Document: func(_ string, relID int64) dualwrite.DocumentWrite {
			return dualwrite.DocumentWrite{
				Collection: domain.CollUserSync,
				KeyField:   "sql_user_id",
				Key:        relID,
				Mode:       dualwrite.ModeSet,
				Doc:        map[string]any{"active": false, "last_sync": now},
			}
		},
	}

	_, err := r.coord.Execute(ctx, plan)
	return err
}

func (r *UserRepo) Authenticate(ctx context.Context, email, pass string) (*domain.User, error) {
	rec, err := r.rows.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// cuenta desactivada o password incorrecto: misma respuesta
	if !rec.Active || !password.Verify(pass, rec.PasswordHash) {
		return nil, repository.ErrNotFound
	}
	doc := r.lenientDoc(ctx, rec.ID)
	return mergeUser(rec, doc), nil
}

func (r *UserRepo) Snapshot(ctx context.Context, id int64) (*domain.UserRecord, *domain.UserSyncDocument, error) {
	rec, err := r.rows.GetUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := r.docs.GetUserSyncDocument(ctx, rec.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return rec, nil, nil
		}
		return nil, nil, err
	}
	return rec, doc, nil
}

func (r *UserRepo) lenientDoc(ctx context.Context, id int64) *domain.UserSyncDocument {
	doc, err := r.docs.GetUserSyncDocument(ctx, id)
	if err != nil {
		if !repository.IsNotFound(err) {
			logger.Named("hybrid.user").Warn("mirror read failed",
				logger.UserID(id), logger.Err(err))
		}
		return nil
	}
	return doc
}

func mergeUser(rec *domain.UserRecord, doc *domain.UserSyncDocument) *domain.User {
	if rec == nil {
		return nil
	}
	u := &domain.User{
		ID:        rec.ID,
		Email:     rec.Email,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Role:      rec.Role,
		CompanyID: rec.MongoCompanyID,
		Active:    rec.Active,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if doc != nil {
		sync := doc.LastSync
		u.LastSync = &sync
	}
	return u
}
