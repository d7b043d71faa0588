package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/okian/hireview/internal/domain/model"
	"github.com/okian/hireview/internal/domain/types"
	"github.com/okian/hireview/internal/domain/view"
	"github.com/olekukonko/tablewriter"
)

var (
	excellent = color.New(color.FgGreen, color.Bold).SprintFunc()
	good      = color.New(color.FgGreen).SprintFunc()
	fair      = color.New(color.FgYellow).SprintFunc()
	low       = color.New(color.FgRed).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
	success   = color.New(color.FgGreen).SprintFunc()
	heading   = color.New(color.FgCyan).SprintFunc()
)

// applicantHeader is the column order of the applicant table.
var applicantHeader = []string{
	"ID", "Applicant", "Email", "Job", "Applied", "Source",
	"Skills Match", "JD Match", "Resume", "Experience", "Role", "Status", "Location",
}

// scoreCell renders a score as a percentage colored by its band.
func scoreCell(score model.Opt[float64]) string {
	s := model.PercentOrPlaceholder(score)
	switch model.ScoreBand(score) {
	case model.BandExcellent:
		return excellent(s)
	case model.BandGood:
		return good(s)
	case model.BandFair:
		return fair(s)
	case model.BandLow:
		return low(s)
	default:
		return faint(s)
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return model.Placeholder
	}
	return s
}

func applicantRow(r *model.ApplicantRecord) []string {
	return []string{
		strconv.FormatInt(r.ApplicationID, 10),
		orPlaceholder(r.FullName()),
		model.Text(r.Email),
		model.Int(r.JobID),
		model.Text(r.AppliedDate),
		model.Text(r.Source),
		scoreCell(r.SkillsMatchingScore),
		scoreCell(r.JDMatchingScore),
		scoreCell(r.ResumeOverallScore),
		r.Experience(),
		model.Text(r.CurrentRole),
		r.Status(),
		model.Text(r.Location),
	}
}

func renderApplicants(w io.Writer, p view.Page) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(applicantHeader)
	table.SetAutoWrapText(false)
	for i := range p.Rows {
		table.Append(applicantRow(&p.Rows[i]))
	}
	table.Render()

	summary := fmt.Sprintf("Page %d of %d, %d of %d applicants", p.PageIndex+1, max(p.PageCount, 1), p.FilteredCount, p.TotalCount)
	if p.FilterText != "" {
		summary += fmt.Sprintf(" matching %q", p.FilterText)
	}
	if p.Sort != nil {
		summary += fmt.Sprintf(", sorted by %s %s", p.Sort.Key, p.Sort.Direction)
	}
	_, _ = fmt.Fprintln(w, heading(summary))
}

func renderJobs(w io.Writer, jobs []types.Job) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Title", "Department", "Location", "Type", "Experience", "Openings", "Posted"})
	for _, j := range jobs {
		openings := model.Placeholder
		if j.Openings > 0 {
			openings = strconv.Itoa(j.Openings)
		}
		table.Append([]string{
			j.Title,
			orPlaceholder(j.Department),
			orPlaceholder(j.Location),
			orPlaceholder(j.EmploymentType),
			orPlaceholder(j.ExperienceNeeded),
			openings,
			orPlaceholder(strings.TrimSpace(j.PostedDate)),
		})
	}
	table.Render()
	_, _ = fmt.Fprintln(w, heading(fmt.Sprintf("%d open positions", len(jobs))))
}
