package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hfscout/hfscout/internal/models"
	"github.com/hfscout/hfscout/pkg/logger"
)

// Collaborator interfaces, narrowed to what the pipeline needs so tests can
// substitute fakes.

type repositoryScraper interface {
	GetRepositoryInfo(ctx context.Context, repoPath string) (*RepositoryInfo, error)
}

type repositoryCloner interface {
	CreateWorkDir() (string, error)
	CloneRepository(ctx context.Context, gitURL, repoPath, baseDir string) (string, error)
}

type historyExtractor interface {
	ExtractContributors(ctx context.Context, repoDir string) []*models.Contributor
}

type pageExtractor interface {
	Extract(ctx context.Context, info *RepositoryInfo) []*models.Contributor
}

type emailSearcher interface {
	Search(ctx context.Context, name, affiliation string) *models.EmailSearchResult
}

type resultStore interface {
	SaveExtraction(repoPath string, contributors []*models.Contributor) error
}

// ExtractionService orchestrates contributor extraction per repository:
// metadata fetch, clone, history parsing, page-based fallback extraction,
// sequential email discovery and final persistence. Each repository runs at
// most once per process; progress is observable while the run advances.
type ExtractionService struct {
	scraper    repositoryScraper
	cloner     repositoryCloner
	history    historyExtractor
	pages      pageExtractor
	searcher   emailSearcher
	ranking    *EmailRankingService
	validation *EmailValidationService
	store      resultStore

	mu          sync.RWMutex
	extractions map[string]*models.Extraction

	statusTTL time.Duration
	stopChan  chan struct{}
}

// NewExtractionService creates a new extraction pipeline
func NewExtractionService(
	scraper repositoryScraper,
	cloner repositoryCloner,
	history historyExtractor,
	pages pageExtractor,
	searcher emailSearcher,
	ranking *EmailRankingService,
	validation *EmailValidationService,
	store resultStore,
	statusTTL time.Duration,
) *ExtractionService {
	return &ExtractionService{
		scraper:     scraper,
		cloner:      cloner,
		history:     history,
		pages:       pages,
		searcher:    searcher,
		ranking:     ranking,
		validation:  validation,
		store:       store,
		extractions: make(map[string]*models.Extraction),
		statusTTL:   statusTTL,
		stopChan:    make(chan struct{}),
	}
}

// Start begins extraction for a repository path, or returns the current
// snapshot if an extraction for it already exists. The caller must have
// validated repoPath.
func (s *ExtractionService) Start(repoPath string) *models.Extraction {
	s.mu.Lock()
	if existing, ok := s.extractions[repoPath]; ok {
		snapshot := existing.Snapshot()
		s.mu.Unlock()
		return snapshot
	}

	extraction := models.NewExtraction(repoPath)
	s.extractions[repoPath] = extraction
	// Snapshot before the lock is released; the worker mutates the record
	// under it.
	snapshot := extraction.Snapshot()
	s.mu.Unlock()

	go s.run(repoPath)

	return snapshot
}

// GetStatus returns a snapshot of the extraction for a repository path
func (s *ExtractionService) GetStatus(repoPath string) (*models.Extraction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	extraction, ok := s.extractions[repoPath]
	if !ok {
		return nil, false
	}
	return extraction.Snapshot(), true
}

// run executes the pipeline for one repository. It is the only writer for
// its key; all mutations go through the locked helpers below.
func (s *ExtractionService) run(repoPath string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Extraction for %s panicked: %v", repoPath, r)
			s.setError(repoPath, "Error extracting contributor emails")
		}
	}()

	ctx := context.Background()

	s.setProgress(repoPath, "Extracting repository information...")

	info, err := s.scraper.GetRepositoryInfo(ctx, repoPath)
	if err != nil || info == nil {
		if err != nil {
			logger.WithError(err).Warnf("Failed to fetch repository info for %s", repoPath)
		}
		s.setError(repoPath, fmt.Sprintf("Repository %s not found", repoPath))
		return
	}

	workDir, err := s.cloner.CreateWorkDir()
	if err != nil {
		logger.WithError(err).Warnf("Failed to create work directory for %s", repoPath)
		s.setError(repoPath, fmt.Sprintf("Failed to clone repository %s", repoPath))
		return
	}
	defer os.RemoveAll(workDir)

	s.setProgress(repoPath, "Cloning repository...")

	cloneDir, err := s.cloner.CloneRepository(ctx, info.GitURL, repoPath, workDir)
	if err != nil {
		logger.WithError(err).Warnf("Failed to clone %s", repoPath)
		s.setError(repoPath, fmt.Sprintf("Failed to clone repository %s", repoPath))
		return
	}

	s.setProgress(repoPath, "Extracting contributors from git logs...")

	contributors := s.history.ExtractContributors(ctx, cloneDir)
	if len(contributors) == 0 {
		contributors = s.pages.Extract(ctx, info)
	}
	contributors = models.MergeContributors(contributors)

	s.setProgress(repoPath, "Searching for contributor emails...")

	for i, contributor := range contributors {
		// A valid non-placeholder commit email is kept as is
		if contributor.HasEmail() && s.validation.IsValid(*contributor.Email) {
			s.appendContributor(repoPath, contributor)
			continue
		}

		s.setProgress(repoPath, fmt.Sprintf("Searching for email of %s (%d/%d)...", contributor.Name, i+1, len(contributors)))

		result := s.searcher.Search(ctx, contributor.Name, "")
		s.ranking.Apply(result)
		if result.BestGuess != nil {
			contributor.SetEmail(*result.BestGuess)
		}

		s.appendContributor(repoPath, contributor)
	}

	s.setCompleted(repoPath, "Extraction completed successfully")

	if err := s.store.SaveExtraction(repoPath, contributors); err != nil {
		logger.WithError(err).Errorf("Failed to persist extraction for %s", repoPath)
	}
}

// StartJanitor begins evicting terminal extractions older than the
// configured TTL. In-flight extractions are never evicted.
func (s *ExtractionService) StartJanitor() {
	if s.statusTTL <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(s.statusTTL / 2)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.evictStale()
			}
		}
	}()
}

// StopJanitor stops the eviction loop
func (s *ExtractionService) StopJanitor() {
	close(s.stopChan)
}

func (s *ExtractionService) evictStale() {
	cutoff := time.Now().Add(-s.statusTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for repoPath, extraction := range s.extractions {
		if extraction.IsTerminal() && extraction.UpdatedAt.Before(cutoff) {
			delete(s.extractions, repoPath)
			logger.Infof("Evicted stale extraction for %s", repoPath)
		}
	}
}

func (s *ExtractionService) setProgress(repoPath, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if extraction, ok := s.extractions[repoPath]; ok && !extraction.IsTerminal() {
		extraction.Status = models.ExtractionStatusInProgress
		extraction.Message = message
		extraction.UpdatedAt = time.Now()
	}
}

func (s *ExtractionService) setError(repoPath, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Terminal states never move backwards, even if persistence panics
	// after completion.
	if extraction, ok := s.extractions[repoPath]; ok && !extraction.IsTerminal() {
		extraction.Status = models.ExtractionStatusError
		extraction.Message = message
		extraction.UpdatedAt = time.Now()
	}
}

func (s *ExtractionService) setCompleted(repoPath, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if extraction, ok := s.extractions[repoPath]; ok {
		extraction.Status = models.ExtractionStatusCompleted
		extraction.Message = message
		extraction.UpdatedAt = time.Now()
	}
}

func (s *ExtractionService) appendContributor(repoPath string, contributor *models.Contributor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if extraction, ok := s.extractions[repoPath]; ok {
		extraction.Contributors = append(extraction.Contributors, contributor)
		extraction.UpdatedAt = time.Now()
	}
}
