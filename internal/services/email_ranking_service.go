package services

import (
	"github.com/hfscout/hfscout/internal/models"
)

// EmailRankingService picks the most likely email from a candidate multiset.
// Academic addresses are preferred over any raw frequency advantage of
// non-academic ones; within a class, higher frequency wins and ties go to
// the first-discovered candidate.
type EmailRankingService struct {
	validation *EmailValidationService
}

// NewEmailRankingService creates a ranking service
func NewEmailRankingService(validation *EmailValidationService) *EmailRankingService {
	return &EmailRankingService{validation: validation}
}

// Rank returns the best-guess email for the given candidates, or nil when
// there are none.
func (s *EmailRankingService) Rank(candidates []models.EmailCandidate) *string {
	if len(candidates) == 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, candidate := range candidates {
		if _, ok := counts[candidate.Email]; !ok {
			order = append(order, candidate.Email)
		}
		counts[candidate.Email]++
	}

	var academic []string
	for _, email := range order {
		if s.validation.IsAcademic(email) {
			academic = append(academic, email)
		}
	}

	pool := order
	if len(academic) > 0 {
		pool = academic
	}

	// pool keeps discovery order, so on equal counts the earlier
	// candidate wins.
	best := pool[0]
	for _, email := range pool[1:] {
		if counts[email] > counts[best] {
			best = email
		}
	}

	return &best
}

// Apply ranks a search result's candidates and sets its best guess
func (s *EmailRankingService) Apply(result *models.EmailSearchResult) {
	result.BestGuess = s.Rank(result.Candidates)
}
