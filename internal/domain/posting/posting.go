// Package posting holds the HR job creation form.
package posting

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// EmploymentTypes accepted on a posting.
var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Internship"}

// Statuses a posting can be created with.
var Statuses = []string{"open", "closed", "draft"}

// Draft is a job posting before the backend assigns it an id.
type Draft struct {
	CreatedBy        int64  `json:"created_by" validate:"min=1"`
	Title            string `json:"title" validate:"required,max=200"`
	JobCode          string `json:"job_code,omitempty"`
	Department       string `json:"department,omitempty"`
	Location         string `json:"location,omitempty"`
	EmploymentType   string `json:"employment_type" validate:"required,oneof=Full-time Part-time Contract Internship"`
	ExperienceNeeded string `json:"experience_required,omitempty"`
	SalaryRange      string `json:"salary_range,omitempty"`
	Description      string `json:"jd,omitempty"`
	KeySkills        string `json:"key_skills,omitempty"`
	AdditionalSkills string `json:"additional_skills,omitempty"`
	Openings         int    `json:"openings" validate:"min=1"`
	ClosingDate      string `json:"closing_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status           string `json:"status" validate:"required,oneof=open closed draft"`
}

// DefaultDraft returns the form's initial values.
func DefaultDraft() Draft {
	return Draft{
		EmploymentType: "Full-time",
		Openings:       1,
		Status:         "open",
	}
}

// Normalize trims the free-text fields.
func (d Draft) Normalize() Draft {
	for _, p := range []*string{
		&d.Title, &d.JobCode, &d.Department, &d.Location, &d.ExperienceNeeded,
		&d.SalaryRange, &d.Description, &d.KeySkills, &d.AdditionalSkills, &d.ClosingDate,
	} {
		*p = strings.TrimSpace(*p)
	}
	return d
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

// Validate checks the draft and wraps field errors in ErrInvalidDraft.
func (d Draft) Validate() error {
	err := formValidator().Struct(d)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidDraft, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.StructField() + "." + fe.Tag() {
	case "CreatedBy.min":
		return "created_by must be an employee id"
	case "Openings.min":
		return "openings must be at least 1"
	case "EmploymentType.oneof":
		return "employment type must be one of " + strings.Join(EmploymentTypes, ", ")
	case "Status.oneof":
		return "status must be one of " + strings.Join(Statuses, ", ")
	case "ClosingDate.datetime":
		return "closing date must be YYYY-MM-DD"
	}
	if fe.Tag() == "required" {
		return fe.StructField() + " is required"
	}
	return fmt.Sprintf("%s failed %s", fe.StructField(), fe.Tag())
}
