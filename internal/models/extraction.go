package models

import "time"

// ExtractionStatus represents the status of a repository extraction
type ExtractionStatus string

const (
	ExtractionStatusStarted    ExtractionStatus = "started"
	ExtractionStatusInProgress ExtractionStatus = "in_progress"
	ExtractionStatusCompleted  ExtractionStatus = "completed"
	ExtractionStatusError      ExtractionStatus = "error"
)

// Extraction tracks the progress of one repository's contributor extraction.
// States move strictly forward: started -> in_progress -> completed | error.
type Extraction struct {
	RepoPath     string           `json:"repo_path"`
	Status       ExtractionStatus `json:"status"`
	Message      string           `json:"message"`
	Contributors []*Contributor   `json:"contributors,omitempty"`
	UpdatedAt    time.Time        `json:"-"`
}

// NewExtraction creates an extraction record in the started state
func NewExtraction(repoPath string) *Extraction {
	return &Extraction{
		RepoPath:  repoPath,
		Status:    ExtractionStatusStarted,
		Message:   "Email extraction started",
		UpdatedAt: time.Now(),
	}
}

// IsTerminal reports whether the extraction reached a final state
func (e *Extraction) IsTerminal() bool {
	return e.Status == ExtractionStatusCompleted || e.Status == ExtractionStatusError
}

// Snapshot returns a copy safe to hand to readers while the owning
// goroutine keeps mutating the original.
func (e *Extraction) Snapshot() *Extraction {
	copied := *e
	copied.Contributors = make([]*Contributor, len(e.Contributors))
	copy(copied.Contributors, e.Contributors)
	return &copied
}
