package contact

import (
	"regexp"
	"strings"

	"trouve-ton-artisan/internal/apperr"
	"trouve-ton-artisan/internal/domain"
)

// Submission is a visitor's contact request as received from the form.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Embedded markup is refused outright rather than stripped: the message is
// relayed into an HTML mail body.
var markupPattern = regexp.MustCompile(`(?is)<[a-z][\s\S]*>`)

// Validate trims the fields and checks the form bounds. The first violation
// is reported; all are caller-fixable.
func (s *Submission) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(strings.ToLower(s.Email))
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)

	if n := len([]rune(s.Name)); n < 2 || n > 100 {
		return apperr.Invalid("name must be 2-100 characters")
	}
	if !domain.ValidEmail(s.Email) {
		return apperr.Invalid("email address %q is not valid", s.Email)
	}
	if n := len([]rune(s.Subject)); n < 5 || n > 200 {
		return apperr.Invalid("subject must be 5-200 characters")
	}
	if n := len([]rune(s.Message)); n < 10 || n > 2000 {
		return apperr.Invalid("message must be 10-2000 characters")
	}
	if markupPattern.MatchString(s.Message) {
		return apperr.Invalid("message may not contain markup")
	}
	return nil
}
