package view

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/hireview/internal/domain/model"
)

// Matcher tests records against one filter text. A Matcher holds a caser
// and must not be shared between goroutines.
type Matcher struct {
	fold   cases.Caser
	needle string
}

// NewMatcher prepares a case-insensitive matcher for text.
func NewMatcher(text string) *Matcher {
	m := &Matcher{fold: cases.Fold()}
	m.needle = m.fold.String(text)
	return m
}

// Haystack is the text a record is searched in: first name, last name and
// email joined by spaces. Missing parts are empty.
func Haystack(r *model.ApplicantRecord) string {
	return r.FirstName.Or("") + " " + r.LastName.Or("") + " " + r.Email.Or("")
}

// Match reports whether r contains the filter text. An empty filter
// matches everything.
func (m *Matcher) Match(r *model.ApplicantRecord) bool {
	if m.needle == "" {
		return true
	}
	return strings.Contains(m.fold.String(Haystack(r)), m.needle)
}

// Filter returns pointers to the records matching text, in load order.
func Filter(records []model.ApplicantRecord, text string) []*model.ApplicantRecord {
	m := NewMatcher(text)
	out := make([]*model.ApplicantRecord, 0, len(records))
	for i := range records {
		if m.Match(&records[i]) {
			out = append(out, &records[i])
		}
	}
	return out
}
