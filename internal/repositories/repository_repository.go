package repositories

import (
	"database/sql"

	"github.com/google/uuid"
)

type RepositoryRepository struct {
	db *sql.DB
}

func NewRepositoryRepository(db *sql.DB) *RepositoryRepository {
	return &RepositoryRepository{db: db}
}

// Upsert inserts a repository by path if absent and returns its ID
func (r *RepositoryRepository) Upsert(repoPath string) (string, error) {
	id := uuid.New().String()

	query := `
		INSERT INTO repositories (id, repo_path) VALUES (?, ?)
		ON CONFLICT(repo_path) DO NOTHING
	`
	if _, err := r.db.Exec(query, id, repoPath); err != nil {
		return "", err
	}

	var existingID string
	err := r.db.QueryRow(`SELECT id FROM repositories WHERE repo_path = ?`, repoPath).Scan(&existingID)
	if err != nil {
		return "", err
	}

	return existingID, nil
}

// GetIDByPath returns the stored ID for a repository path
func (r *RepositoryRepository) GetIDByPath(repoPath string) (string, error) {
	var id string
	err := r.db.QueryRow(`SELECT id FROM repositories WHERE repo_path = ?`, repoPath).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
