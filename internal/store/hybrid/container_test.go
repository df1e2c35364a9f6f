package hybrid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/smartbin/internal/domain"
	"github.com/dropDatabas3/smartbin/internal/domain/repository"
)

type fakeSeq struct{ counters map[string]int64 }

func newFakeSeq() *fakeSeq { return &fakeSeq{counters: map[string]int64{}} }

func (f *fakeSeq) NextSeq(ctx context.Context, name string) (int64, error) {
	f.counters[name]++
	return f.counters[name], nil
}

type fakeCompanies struct{ known map[string]bool }

func (f *fakeCompanies) GetCompanyByExternalID(ctx context.Context, externalID string) (*domain.CompanyRecord, error) {
	if !f.known[externalID] {
		return nil, repository.ErrNotFound
	}
	return &domain.CompanyRecord{MongoCompanyID: externalID}, nil
}

type fakeContainerDocs struct {
	containers map[string]*domain.Container
}

func newFakeContainerDocs() *fakeContainerDocs {
	return &fakeContainerDocs{containers: map[string]*domain.Container{}}
}

func (f *fakeContainerDocs) InsertContainer(ctx context.Context, c *domain.Container) error {
	if _, ok := f.containers[c.ContainerID]; ok {
		return repository.ErrDuplicateKey
	}
	cp := *c
	f.containers[c.ContainerID] = &cp
	return nil
}

func (f *fakeContainerDocs) GetContainer(ctx context.Context, containerID string) (*domain.Container, error) {
	c, ok := f.containers[containerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContainerDocs) ListContainers(ctx context.Context, companyID string) ([]domain.Container, error) {
	var out []domain.Container
	for _, c := range f.containers {
		if companyID == "" || c.CompanyID == companyID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeContainerDocs) UpdateContainer(ctx context.Context, containerID string, fields map[string]any) (*domain.Container, error) {
	c, ok := f.containers[containerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := fields["fill_level"].(float64); ok {
		c.FillLevel = v
	}
	if v, ok := fields["status"].(string); ok {
		c.Status = v
	}
	if v, ok := fields["device_id"].(string); ok {
		c.DeviceID = v
	}
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	return &cp, nil
}

func (f *fakeContainerDocs) DeleteContainer(ctx context.Context, containerID string) error {
	if _, ok := f.containers[containerID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.containers, containerID)
	return nil
}

func newContainerFixture() (*ContainerRepo, *fakeContainerDocs) {
	docs := newFakeContainerDocs()
	repo := NewContainerRepo(docs, newFakeSeq(), &fakeCompanies{known: map[string]bool{"COMP-001": true}})
	return repo, docs
}

func TestContainerCreateAssignsSequentialIDs(t *testing.T) {
	repo, _ := newContainerFixture()

	for i, want := range []string{"CONT-001", "CONT-002", "CONT-003"} {
		c, err := repo.Create(context.Background(), domain.NewContainer{
			CompanyID: "COMP-001",
			Type:      "organic",
			CapacityL: 240,
		})
		require.NoError(t, err, "create %d", i)
		assert.Equal(t, want, c.ContainerID)
		assert.Equal(t, domain.ContainerStatusActive, c.Status)
		assert.Zero(t, c.FillLevel)
	}
}

func TestContainerCreateValidates(t *testing.T) {
	repo, _ := newContainerFixture()

	_, err := repo.Create(context.Background(), domain.NewContainer{CompanyID: "COMP-001", Type: "organic"})
	assert.ErrorIs(t, err, repository.ErrInvalidInput, "capacidad cero")

	_, err = repo.Create(context.Background(), domain.NewContainer{
		CompanyID: "COMP-999", Type: "organic", CapacityL: 240,
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInput, "empresa inexistente")
}

func TestContainerUpdateValidatesAndApplies(t *testing.T) {
	repo, docs := newContainerFixture()

	_, err := repo.Create(context.Background(), domain.NewContainer{
		CompanyID: "COMP-001", Type: "organic", CapacityL: 240,
	})
	require.NoError(t, err)

	bad := 140.0
	_, err = repo.Update(context.Background(), "CONT-001", domain.ContainerUpdate{FillLevel: &bad})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)

	fill := 55.5
	status := domain.ContainerStatusMaintenance
	c, err := repo.Update(context.Background(), "CONT-001", domain.ContainerUpdate{
		FillLevel: &fill, Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, 55.5, c.FillLevel)
	assert.Equal(t, domain.ContainerStatusMaintenance, c.Status)
	assert.Equal(t, 55.5, docs.containers["CONT-001"].FillLevel)

	_, err = repo.Update(context.Background(), "CONT-001", domain.ContainerUpdate{})
	assert.ErrorIs(t, err, repository.ErrInvalidInput, "update vacío")
}

func TestContainerDelete(t *testing.T) {
	repo, _ := newContainerFixture()

	_, err := repo.Create(context.Background(), domain.NewContainer{
		CompanyID: "COMP-001", Type: "organic", CapacityL: 240,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), "CONT-001"))
	err = repo.Delete(context.Background(), "CONT-001")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
