package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfscout/hfscout/internal/models"
)

func candidates(emails ...string) []models.EmailCandidate {
	result := make([]models.EmailCandidate, 0, len(emails))
	for _, email := range emails {
		result = append(result, models.EmailCandidate{
			Email:      email,
			SourceKind: models.EmailSourceWebPage,
		})
	}
	return result
}

func TestRank(t *testing.T) {
	ranking := NewEmailRankingService(NewEmailValidationService(defaultDenylist()))

	testCases := []struct {
		name       string
		candidates []models.EmailCandidate
		expected   string
	}{
		{
			name:       "Academic beats more frequent non-academic",
			candidates: candidates("b@gmail.com", "b@gmail.com", "b@gmail.com", "bob@mit.edu"),
			expected:   "bob@mit.edu",
		},
		{
			name:       "Highest frequency wins without academic candidates",
			candidates: candidates("a@corp.com", "b@corp.com", "b@corp.com"),
			expected:   "b@corp.com",
		},
		{
			name:       "Frequency tie goes to first discovered",
			candidates: candidates("a@corp.com", "b@corp.com"),
			expected:   "a@corp.com",
		},
		{
			name:       "Most frequent academic among several",
			candidates: candidates("a@mit.edu", "b@cam.ac.uk", "b@cam.ac.uk"),
			expected:   "b@cam.ac.uk",
		},
		{
			name:       "Single candidate",
			candidates: candidates("only@corp.com"),
			expected:   "only@corp.com",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			best := ranking.Rank(tc.candidates)
			require.NotNil(t, best)
			assert.Equal(t, tc.expected, *best)
		})
	}
}

func TestRankEmptyCandidates(t *testing.T) {
	ranking := NewEmailRankingService(NewEmailValidationService(defaultDenylist()))

	assert.Nil(t, ranking.Rank(nil))
	assert.Nil(t, ranking.Rank([]models.EmailCandidate{}))
}

func TestApply(t *testing.T) {
	ranking := NewEmailRankingService(NewEmailValidationService(defaultDenylist()))

	result := models.NewEmailSearchResult("Ada Lovelace", "")
	result.AddCandidate("b@gmail.com", models.EmailSourceSearchResult, "https://scholar.example/ada")
	result.AddCandidate("ada@uni-x.de", models.EmailSourceDocument, "https://arxiv.example/paper.pdf")

	ranking.Apply(result)

	require.NotNil(t, result.BestGuess)
	assert.Equal(t, "ada@uni-x.de", *result.BestGuess)
}

func TestApplyNoCandidates(t *testing.T) {
	ranking := NewEmailRankingService(NewEmailValidationService(defaultDenylist()))

	result := models.NewEmailSearchResult("Ada Lovelace", "")
	ranking.Apply(result)

	assert.Nil(t, result.BestGuess)
}
