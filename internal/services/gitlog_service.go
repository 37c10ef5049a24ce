package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hfscout/hfscout/internal/models"
	"github.com/hfscout/hfscout/pkg/logger"
)

// gitDateLayout matches git's default author date format
const gitDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// GitLogService extracts contributors from the commit history of a cloned
// repository. One record per unique author name, with commit counts and
// first/last commit dates accumulated across commits.
type GitLogService struct {
	runner     Runner
	validation *EmailValidationService
}

// NewGitLogService creates a new git log service
func NewGitLogService(runner Runner, validation *EmailValidationService) *GitLogService {
	return &GitLogService{runner: runner, validation: validation}
}

// ExtractContributors parses the commit log of repoDir. Failures degrade to
// an empty list; they never propagate.
func (s *GitLogService) ExtractContributors(ctx context.Context, repoDir string) []*models.Contributor {
	output, err := s.runner.Run(ctx, repoDir, "git", "log", "--format=%an|%ae|%ad|%H")
	if err != nil {
		logger.WithError(err).Warnf("Failed to read git log in %s", repoDir)
		return nil
	}

	byName := make(map[string]*models.Contributor)
	counts := make(map[string]int)
	var order []string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			continue
		}
		name, email, dateStr := parts[0], parts[1], parts[2]
		if name == "" {
			continue
		}

		// Auto-generated addresses are treated as absent, not low-ranked
		if email != "" && s.validation.IsPlaceholder(email, name) {
			email = ""
		}

		contributor, ok := byName[name]
		if !ok {
			contributor = models.NewContributor(name)
			if email != "" {
				contributor.SetEmail(email)
			}
			contributor.FirstCommitDate = &dateStr
			contributor.LastCommitDate = &dateStr
			byName[name] = contributor
			order = append(order, name)
		}
		counts[name]++

		s.updateCommitDates(contributor, dateStr)
	}

	result := make([]*models.Contributor, 0, len(order))
	for _, name := range order {
		contributor := byName[name]
		count := counts[name]
		contributor.CommitCount = &count
		result = append(result, contributor)
	}

	// Most active contributors first
	sort.SliceStable(result, func(i, j int) bool {
		return *result[i].CommitCount > *result[j].CommitCount
	})

	return result
}

// updateCommitDates widens the contributor's first/last commit dates to
// include the given commit date. Unparseable dates leave the range as is.
func (s *GitLogService) updateCommitDates(contributor *models.Contributor, dateStr string) {
	current, err := time.Parse(gitDateLayout, dateStr)
	if err != nil {
		return
	}

	if contributor.FirstCommitDate != nil {
		if first, err := time.Parse(gitDateLayout, *contributor.FirstCommitDate); err == nil && current.Before(first) {
			value := dateStr
			contributor.FirstCommitDate = &value
		}
	}
	if contributor.LastCommitDate != nil {
		if last, err := time.Parse(gitDateLayout, *contributor.LastCommitDate); err == nil && current.After(last) {
			value := dateStr
			contributor.LastCommitDate = &value
		}
	}
}
