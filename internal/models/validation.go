package models

import "regexp"

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// repoPathPattern matches owner/name with alphanumerics, hyphen and
// underscore on each side of a single slash.
var repoPathPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+/[a-zA-Z0-9_-]+$`)

// ValidateRepositoryPath checks a hub repository path before any network
// call is made on its behalf.
func ValidateRepositoryPath(repoPath string) error {
	if repoPath == "" {
		return &ValidationError{Field: "repo_path", Message: "Repository path cannot be empty"}
	}
	if !repoPathPattern.MatchString(repoPath) {
		return &ValidationError{Field: "repo_path", Message: "Invalid repository path format. Expected format: owner/repo"}
	}
	return nil
}
