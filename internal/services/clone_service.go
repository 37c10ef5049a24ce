package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CloneService checks out hub repositories into per-extraction temporary
// directories.
type CloneService struct {
	runner Runner
}

// NewCloneService creates a new clone service
func NewCloneService(runner Runner) *CloneService {
	return &CloneService{runner: runner}
}

// CloneRepository clones gitURL under baseDir and returns the checkout path.
// The caller owns baseDir and is responsible for removing it.
func (s *CloneService) CloneRepository(ctx context.Context, gitURL, repoPath, baseDir string) (string, error) {
	name := repoPath
	if idx := strings.LastIndex(repoPath, "/"); idx >= 0 {
		name = repoPath[idx+1:]
	}
	cloneDir := filepath.Join(baseDir, name)

	if _, err := s.runner.Run(ctx, "", "git", "clone", gitURL, cloneDir); err != nil {
		return "", fmt.Errorf("failed to clone repository %s: %w", repoPath, err)
	}

	return cloneDir, nil
}

// CreateWorkDir creates a temporary directory scoped to one extraction run
func (s *CloneService) CreateWorkDir() (string, error) {
	dir, err := os.MkdirTemp("", "hfscout-clone-")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	return dir, nil
}
