// Package schedule hands a selection of applications to an interview
// scheduler. It knows the form a schedule request takes and nothing about
// how the table selected the ids.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// StatusScheduled is the schedule_status of every created interview.
const StatusScheduled = "scheduled"

// Round types and locations accepted by the backend.
var (
	RoundTypes = []string{"Technical", "HR", "Manager", "Final", "Culture Fit"}
	Locations  = []string{"online", "office", "hybrid"}
)

// Request is the interview form shared by every application in one batch.
type Request struct {
	RoundNumber     int    `json:"round_number" validate:"min=1"`
	RoundType       string `json:"round_type" validate:"required,oneof=Technical HR Manager Final 'Culture Fit'"`
	ScheduledDate   string `json:"scheduled_date" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=15"`
	InterviewerIDs  string `json:"interviewer_ids"`
	ManagerID       *int64 `json:"manager_id,omitempty" validate:"omitempty,min=1"`
	MeetingLink     string `json:"meeting_link,omitempty" validate:"omitempty,url"`
	Location        string `json:"location" validate:"required,oneof=online office hybrid"`
	Remarks         string `json:"remarks,omitempty"`
}

// DefaultRequest returns the form's initial values.
func DefaultRequest() Request {
	return Request{
		RoundNumber:     1,
		RoundType:       "Technical",
		DurationMinutes: 60,
		Location:        "online",
	}
}

// Interview is one POSTed schedule: the shared form plus an application.
type Interview struct {
	Request
	ApplicationID  int64  `json:"application_id"`
	ScheduleStatus string `json:"schedule_status"`
}

// Scheduler creates a single interview.
type Scheduler interface {
	ScheduleInterview(ctx context.Context, in Interview) error
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

// Validate checks the form. Field errors are joined into one message and
// wrapped in ErrInvalidRequest.
func (r Request) Validate() error {
	err := formValidator().Struct(r)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.StructField() + "." + fe.Tag() {
	case "RoundNumber.min":
		return "round number must be at least 1"
	case "DurationMinutes.min":
		return "duration must be at least 15 minutes"
	case "MeetingLink.url":
		return "meeting link must be a valid URL"
	case "RoundType.oneof":
		return "round type must be one of " + strings.Join(RoundTypes, ", ")
	case "Location.oneof":
		return "location must be one of " + strings.Join(Locations, ", ")
	}
	if fe.Tag() == "required" {
		return fe.StructField() + " is required"
	}
	return fmt.Sprintf("%s failed %s", fe.StructField(), fe.Tag())
}

// Outcome reports how far a batch got.
type Outcome struct {
	Scheduled []int64 `json:"scheduled"`
	FailedID  int64   `json:"failed_id,omitempty"`
}

// Trigger validates req and schedules one interview per id, in order. It
// stops at the first failure; interviews already created are not undone.
// ids are passed through as given.
func Trigger(ctx context.Context, s Scheduler, ids []int64, req Request) (Outcome, error) {
	var out Outcome
	if len(ids) == 0 {
		return out, ErrNoSelection
	}
	if err := req.Validate(); err != nil {
		return out, err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		in := Interview{Request: req, ApplicationID: id, ScheduleStatus: StatusScheduled}
		if err := s.ScheduleInterview(ctx, in); err != nil {
			out.FailedID = id
			return out, fmt.Errorf("%w: application %d: %w", ErrScheduleFailed, id, err)
		}
		out.Scheduled = append(out.Scheduled, id)
	}
	return out, nil
}
