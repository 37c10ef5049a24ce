package repositories

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/hfscout/hfscout/internal/models"
)

type ContributorRepository struct {
	db *sql.DB
}

func NewContributorRepository(db *sql.DB) *ContributorRepository {
	return &ContributorRepository{db: db}
}

// UpsertAll inserts or updates contributors for a repository, keyed by the
// unique (repository, name) pair
func (r *ContributorRepository) UpsertAll(repositoryID string, contributors []*models.Contributor) error {
	query := `
		INSERT INTO contributors (
			id, repository_id, name, email, commit_count, first_commit_date, last_commit_date
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(repository_id, name) DO UPDATE SET
			email = excluded.email,
			commit_count = excluded.commit_count,
			first_commit_date = excluded.first_commit_date,
			last_commit_date = excluded.last_commit_date
	`

	for _, contributor := range contributors {
		_, err := r.db.Exec(query,
			uuid.New().String(), repositoryID, contributor.Name,
			contributor.Email, contributor.CommitCount,
			contributor.FirstCommitDate, contributor.LastCommitDate,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByRepositoryID retrieves all contributors stored for a repository
func (r *ContributorRepository) GetByRepositoryID(repositoryID string) ([]*models.Contributor, error) {
	query := `
		SELECT name, email, commit_count, first_commit_date, last_commit_date
		FROM contributors WHERE repository_id = ?
		ORDER BY commit_count DESC, name ASC
	`

	rows, err := r.db.Query(query, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributors []*models.Contributor
	for rows.Next() {
		contributor := &models.Contributor{}
		err := rows.Scan(
			&contributor.Name, &contributor.Email, &contributor.CommitCount,
			&contributor.FirstCommitDate, &contributor.LastCommitDate,
		)
		if err != nil {
			return nil, err
		}
		contributors = append(contributors, contributor)
	}

	return contributors, rows.Err()
}
