package services

import (
	"fmt"

	"github.com/hfscout/hfscout/internal/models"
	"github.com/hfscout/hfscout/internal/repositories"
)

// PersistService writes completed extraction results to the store. It is a
// pure upsert sink; nothing in the pipeline reads back from it.
type PersistService struct {
	repositoryRepo  *repositories.RepositoryRepository
	contributorRepo *repositories.ContributorRepository
}

// NewPersistService creates a new persist service
func NewPersistService(repositoryRepo *repositories.RepositoryRepository, contributorRepo *repositories.ContributorRepository) *PersistService {
	return &PersistService{
		repositoryRepo:  repositoryRepo,
		contributorRepo: contributorRepo,
	}
}

// SaveExtraction upserts the repository and its contributor list
func (s *PersistService) SaveExtraction(repoPath string, contributors []*models.Contributor) error {
	repoID, err := s.repositoryRepo.Upsert(repoPath)
	if err != nil {
		return fmt.Errorf("failed to upsert repository: %w", err)
	}

	if err := s.contributorRepo.UpsertAll(repoID, contributors); err != nil {
		return fmt.Errorf("failed to upsert contributors: %w", err)
	}

	return nil
}
