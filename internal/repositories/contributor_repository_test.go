package repositories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfscout/hfscout/internal/models"
	"github.com/hfscout/hfscout/pkg/database"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.Init(path))
	t.Cleanup(func() { database.Close() })
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestRepositoryUpsert(t *testing.T) {
	setupTestDB(t)
	repo := NewRepositoryRepository(database.DB)

	id1, err := repo.Upsert("acme/model")
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	// Upserting the same path keeps the original ID
	id2, err := repo.Upsert("acme/model")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	id3, err := repo.GetIDByPath("acme/model")
	require.NoError(t, err)
	assert.Equal(t, id1, id3)
}

func TestRepositoryGetIDByPathMissing(t *testing.T) {
	setupTestDB(t)
	repo := NewRepositoryRepository(database.DB)

	_, err := repo.GetIDByPath("acme/unknown")
	assert.Error(t, err)
}

func TestContributorUpsertAll(t *testing.T) {
	setupTestDB(t)
	repoRepo := NewRepositoryRepository(database.DB)
	contribRepo := NewContributorRepository(database.DB)

	repositoryID, err := repoRepo.Upsert("acme/model")
	require.NoError(t, err)

	contributors := []*models.Contributor{
		{Name: "Ada Lovelace", Email: strPtr("ada@uni-x.de"), CommitCount: intPtr(3)},
		{Name: "Bob Smith", CommitCount: intPtr(1)},
	}
	require.NoError(t, contribRepo.UpsertAll(repositoryID, contributors))

	stored, err := contribRepo.GetByRepositoryID(repositoryID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	// Ordered by commit count descending
	assert.Equal(t, "Ada Lovelace", stored[0].Name)
	require.NotNil(t, stored[0].Email)
	assert.Equal(t, "ada@uni-x.de", *stored[0].Email)
	assert.Equal(t, "Bob Smith", stored[1].Name)
	assert.Nil(t, stored[1].Email)
}

func TestContributorUpsertAllIdempotent(t *testing.T) {
	setupTestDB(t)
	repoRepo := NewRepositoryRepository(database.DB)
	contribRepo := NewContributorRepository(database.DB)

	repositoryID, err := repoRepo.Upsert("acme/model")
	require.NoError(t, err)

	first := []*models.Contributor{{Name: "Ada Lovelace", CommitCount: intPtr(1)}}
	require.NoError(t, contribRepo.UpsertAll(repositoryID, first))

	// A re-run updates the existing row instead of duplicating it
	second := []*models.Contributor{{Name: "Ada Lovelace", Email: strPtr("ada@uni-x.de"), CommitCount: intPtr(5)}}
	require.NoError(t, contribRepo.UpsertAll(repositoryID, second))

	stored, err := contribRepo.GetByRepositoryID(repositoryID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].Email)
	assert.Equal(t, "ada@uni-x.de", *stored[0].Email)
	require.NotNil(t, stored[0].CommitCount)
	assert.Equal(t, 5, *stored[0].CommitCount)
}

func TestContributorsScopedToRepository(t *testing.T) {
	setupTestDB(t)
	repoRepo := NewRepositoryRepository(database.DB)
	contribRepo := NewContributorRepository(database.DB)

	firstID, err := repoRepo.Upsert("acme/model")
	require.NoError(t, err)
	secondID, err := repoRepo.Upsert("acme/other")
	require.NoError(t, err)

	require.NoError(t, contribRepo.UpsertAll(firstID, []*models.Contributor{{Name: "Ada Lovelace"}}))

	stored, err := contribRepo.GetByRepositoryID(secondID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
