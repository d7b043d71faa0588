// Package board filters the public job board and the interview list.
package board

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/hireview/internal/domain/model"
	"github.com/okian/hireview/internal/domain/types"
)

// All disables a department, location or status filter.
const All = "all"

// Job board orderings.
const (
	SortRecent = "recent"
	SortTitle  = "title"
)

// JobQuery selects and orders jobs.
type JobQuery struct {
	Search     string `json:"search"`
	Department string `json:"department"`
	Location   string `json:"location"`
	SortBy     string `json:"sort_by"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDate reads the backend's date formats; unreadable dates are the
// zero time and sort as oldest.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func contains(fold cases.Caser, hay, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(fold.String(hay), fold.String(needle))
}

func selected(filter, value string) bool {
	return filter == "" || filter == All || value == filter
}

// Jobs returns the jobs matching q, ordered by q.SortBy. The input slice is
// not modified.
func Jobs(jobs []types.Job, q JobQuery) []types.Job {
	fold := cases.Fold()
	out := make([]types.Job, 0, len(jobs))
	for _, j := range jobs {
		hay := j.Title + " " + j.Department + " " + j.Location
		if contains(fold, hay, q.Search) && selected(q.Department, j.Department) && selected(q.Location, j.Location) {
			out = append(out, j)
		}
	}

	switch q.SortBy {
	case SortTitle:
		coll := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b types.Job) int {
			return coll.CompareString(a.Title, b.Title)
		})
	case SortRecent, "":
		slices.SortStableFunc(out, func(a, b types.Job) int {
			return ParseDate(b.PostedDate).Compare(ParseDate(a.PostedDate))
		})
	}
	return out
}

// Departments lists the distinct non-empty departments, sorted.
func Departments(jobs []types.Job) []string {
	return distinct(jobs, func(j types.Job) string { return j.Department })
}

// Locations lists the distinct non-empty locations, sorted.
func Locations(jobs []types.Job) []string {
	return distinct(jobs, func(j types.Job) string { return j.Location })
}

func distinct(jobs []types.Job, get func(types.Job) string) []string {
	var out []string
	for _, j := range jobs {
		if v := get(j); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// InterviewQuery selects interviews.
type InterviewQuery struct {
	Search string `json:"search"`
	Status string `json:"status"`
}

// Interviews returns the interviews matching q, latest scheduled first.
func Interviews(list []types.Interview, q InterviewQuery) []types.Interview {
	fold := cases.Fold()
	out := make([]types.Interview, 0, len(list))
	for _, in := range list {
		if contains(fold, in.ApplicantName+" "+in.JobTitle, q.Search) && selected(q.Status, in.ScheduleStatus) {
			out = append(out, in)
		}
	}
	slices.SortStableFunc(out, func(a, b types.Interview) int {
		return ParseDate(b.ScheduledDate).Compare(ParseDate(a.ScheduledDate))
	})
	return out
}

// RecentJobs is how many postings the dashboard lists.
const RecentJobs = 5

// Summary is the HR dashboard headline.
type Summary struct {
	ActiveJobs          int         `json:"active_jobs"`
	TotalApplicants     int         `json:"total_applicants"`
	HighScoreApplicants int         `json:"high_score_applicants"`
	RecentJobs          []types.Job `json:"recent_jobs"`
}

// Summarize counts the open postings and applicants. High-score applicants
// have a resume score in the good band or better; recent jobs are the
// newest RecentJobs postings.
func Summarize(jobs []types.Job, records []model.ApplicantRecord) Summary {
	s := Summary{
		ActiveJobs:      len(jobs),
		TotalApplicants: len(records),
		RecentJobs:      Jobs(jobs, JobQuery{SortBy: SortRecent}),
	}
	for i := range records {
		switch model.ScoreBand(records[i].ResumeOverallScore) {
		case model.BandExcellent, model.BandGood:
			s.HighScoreApplicants++
		}
	}
	if len(s.RecentJobs) > RecentJobs {
		s.RecentJobs = s.RecentJobs[:RecentJobs]
	}
	return s
}
