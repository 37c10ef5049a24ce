package services

import (
	"regexp"
	"strings"
)

// emailPattern matches generic email syntax inside arbitrary text
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// placeholderLocalParts are generic mailbox names that signal an
// auto-generated or role address rather than a personal one.
var placeholderLocalParts = []string{
	"noreply", "no-reply", "donotreply", "do-not-reply",
	"admin", "support", "info", "contact", "team", "hello",
	"research", "dev", "development", "github", "git",
	"huggingface", "hf",
}

// academicDomainPatterns classify a domain as belonging to a university or
// research institution.
var academicDomainPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.edu$`),
	regexp.MustCompile(`\.ac\.[a-z]{2}$`),
	regexp.MustCompile(`\.edu\.[a-z]{2}$`),
	regexp.MustCompile(`university`),
	regexp.MustCompile(`uni-[a-z]+\.[a-z]{2}$`),
	regexp.MustCompile(`\.college\.`),
	regexp.MustCompile(`\.institute\.`),
}

// EmailValidationService decides which email-shaped strings are worth
// keeping and classifies them for ranking.
type EmailValidationService struct {
	deniedDomains []string
}

// NewEmailValidationService creates a validation service with the given
// placeholder-domain denylist (e.g. example.com, test.com).
func NewEmailValidationService(deniedDomains []string) *EmailValidationService {
	return &EmailValidationService{deniedDomains: deniedDomains}
}

// FindEmails returns all email-shaped substrings in text, in order.
func (s *EmailValidationService) FindEmails(text string) []string {
	return emailPattern.FindAllString(text, -1)
}

// IsValid reports whether an email is syntactically valid, not on the
// placeholder-domain denylist and not a generic role mailbox.
func (s *EmailValidationService) IsValid(email string) bool {
	if !emailPattern.MatchString(email) {
		return false
	}
	lower := strings.ToLower(email)
	for _, domain := range s.deniedDomains {
		if strings.HasSuffix(lower, "@"+domain) || strings.HasSuffix(lower, "."+domain) {
			return false
		}
	}
	return !hasRoleLocalPart(lower)
}

// IsPlaceholder reports whether a commit email is likely auto-generated:
// either a generic role mailbox, or a domain token equal to a token of the
// author's display name (an organization address, not a personal one).
func (s *EmailValidationService) IsPlaceholder(email, name string) bool {
	lower := strings.ToLower(email)

	if hasRoleLocalPart(lower) {
		return true
	}

	// Organization address: domain token matches a name token
	at := strings.Index(lower, "@")
	if at <= 0 {
		return true
	}
	domain := lower[at+1:]
	domainToken := domain
	if dot := strings.Index(domain, "."); dot > 0 {
		domainToken = domain[:dot]
	}
	for _, token := range strings.Fields(strings.ToLower(name)) {
		if len(token) > 3 && strings.Contains(lower, token) && token == domainToken {
			return true
		}
	}

	return false
}

func hasRoleLocalPart(lower string) bool {
	at := strings.Index(lower, "@")
	if at <= 0 {
		return true
	}
	local := lower[:at]
	for _, part := range placeholderLocalParts {
		if local == part {
			return true
		}
	}
	return false
}

// IsAcademic reports whether the email's domain matches an academic
// institution pattern.
func (s *EmailValidationService) IsAcademic(email string) bool {
	lower := strings.ToLower(email)
	for _, pattern := range academicDomainPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}
