// Package application holds the candidate's job application form and the
// resume that travels with it.
package application

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Defaults applied to applications submitted through the careers site.
const (
	DefaultSource = "Website"
	DefaultStatus = "applied"
)

// MaxResumeBytes caps an uploaded resume.
const MaxResumeBytes = 10 << 20

// ResumeExtensions are the accepted resume file types.
var ResumeExtensions = []string{".pdf", ".doc", ".docx"}

// Form is one application to one job.
type Form struct {
	JobID             int64    `json:"job_id" validate:"min=1"`
	Source            string   `json:"source" validate:"required"`
	ApplicationStatus string   `json:"application_status" validate:"required"`
	FirstName         string   `json:"first_name" validate:"required"`
	LastName          string   `json:"last_name" validate:"required"`
	Email             string   `json:"email" validate:"required,email"`
	Phone             string   `json:"phone,omitempty" validate:"omitempty,numeric,len=10"`
	LinkedInURL       string   `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	ExperienceYears   *float64 `json:"experience_years,omitempty" validate:"omitempty,min=0,max=50"`
	Education         string   `json:"education,omitempty"`
	CurrentCompany    string   `json:"current_company,omitempty"`
	CurrentRole       string   `json:"current_role,omitempty"`
	ExpectedCTC       *float64 `json:"expected_ctc,omitempty" validate:"omitempty,min=0"`
	NoticePeriodDays  *int     `json:"notice_period_days,omitempty" validate:"omitempty,min=0,max=90"`
	Skills            string   `json:"skills,omitempty"`
	Location          string   `json:"location,omitempty"`
}

// Resume is the uploaded file.
type Resume struct {
	Filename string
	Content  []byte
}

// Field is one multipart form value.
type Field struct {
	Name  string
	Value string
}

// Fields lists the non-empty values in the order the backend documents them.
func (f Form) Fields() []Field {
	out := []Field{
		{"job_id", strconv.FormatInt(f.JobID, 10)},
		{"source", f.Source},
		{"application_status", f.ApplicationStatus},
		{"first_name", f.FirstName},
		{"last_name", f.LastName},
		{"email", f.Email},
		{"phone", f.Phone},
		{"linkedin_url", f.LinkedInURL},
		{"experience_years", floatField(f.ExperienceYears)},
		{"education", f.Education},
		{"current_company", f.CurrentCompany},
		{"current_role", f.CurrentRole},
		{"expected_ctc", floatField(f.ExpectedCTC)},
		{"notice_period_days", intField(f.NoticePeriodDays)},
		{"skills", f.Skills},
		{"location", f.Location},
	}
	return slices.DeleteFunc(out, func(fl Field) bool { return fl.Value == "" })
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// Normalize trims text and fills the careers-site defaults.
func (f Form) Normalize() Form {
	for _, p := range []*string{
		&f.Source, &f.ApplicationStatus, &f.FirstName, &f.LastName, &f.Email, &f.Phone,
		&f.LinkedInURL, &f.Education, &f.CurrentCompany, &f.CurrentRole, &f.Skills, &f.Location,
	} {
		*p = strings.TrimSpace(*p)
	}
	if f.Source == "" {
		f.Source = DefaultSource
	}
	if f.ApplicationStatus == "" {
		f.ApplicationStatus = DefaultStatus
	}
	return f
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the form and the resume. Field errors are joined into one
// message wrapped in ErrInvalidForm.
func Validate(f Form, r Resume) error {
	var msgs []string
	err := formValidator().Struct(f)
	var fields validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &fields):
		for _, fe := range fields {
			msgs = append(msgs, describe(fe))
		}
	default:
		return fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	if msg := checkResume(r); msg != "" {
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(msgs, "; "))
}

func checkResume(r Resume) string {
	switch {
	case len(r.Content) == 0:
		return "resume is required"
	case len(r.Content) > MaxResumeBytes:
		return fmt.Sprintf("resume must be at most %d MB", MaxResumeBytes>>20)
	case !slices.Contains(ResumeExtensions, strings.ToLower(filepath.Ext(r.Filename))):
		return "resume must be one of " + strings.Join(ResumeExtensions, ", ")
	}
	return ""
}

func describe(fe validator.FieldError) string {
	switch fe.StructField() + "." + fe.Tag() {
	case "JobID.min":
		return "job id is required"
	case "Email.email":
		return "email is invalid"
	case "Phone.numeric", "Phone.len":
		return "phone must be 10 digits"
	case "LinkedInURL.url":
		return "linkedin url must be a valid URL"
	case "ExperienceYears.min", "ExperienceYears.max":
		return "experience must be between 0 and 50 years"
	case "NoticePeriodDays.min", "NoticePeriodDays.max":
		return "notice period must be between 0 and 90 days"
	case "ExpectedCTC.min":
		return "expected CTC cannot be negative"
	}
	if fe.Tag() == "required" {
		return fe.StructField() + " is required"
	}
	return fmt.Sprintf("%s failed %s", fe.StructField(), fe.Tag())
}
