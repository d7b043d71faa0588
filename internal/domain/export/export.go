// Package export writes applicant rows as CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/okian/hireview/internal/domain/model"
)

// Header is the fixed column order of an export.
var Header = []string{
	"Application ID",
	"Job ID",
	"Applicant ID",
	"Name",
	"Email",
	"Phone",
	"Applied Date",
	"Source",
	"Skills Score",
	"JD Score",
	"Resume Score",
	"Experience",
	"Current Role",
	"Skills",
	"Status",
	"Location",
}

// ContentType of an export body.
const ContentType = "text/csv; charset=utf-8"

// Filename is applicants-<UTC date>.csv.
func Filename(now time.Time) string {
	return "applicants-" + now.UTC().Format(time.DateOnly) + ".csv"
}

func text(o model.Opt[string]) string { return o.Or("") }

func integer(o model.Opt[int64]) string {
	v, ok := o.Get()
	if !ok {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func number(o model.Opt[float64]) string {
	v, ok := o.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Row projects one record onto Header. Missing values of any kind are
// empty cells.
func Row(r *model.ApplicantRecord) []string {
	return []string{
		strconv.FormatInt(r.ApplicationID, 10),
		integer(r.JobID),
		integer(r.ApplicantID),
		r.FullName(),
		text(r.Email),
		text(r.Phone),
		text(r.AppliedDate),
		text(r.Source),
		model.Percent(r.SkillsMatchingScore),
		model.Percent(r.JDMatchingScore),
		model.Percent(r.ResumeOverallScore),
		number(r.ExperienceYears),
		text(r.CurrentRole),
		text(r.Skills),
		text(r.ApplicationStatus),
		text(r.Location),
	}
}

// Write streams the header and one line per row to w and returns the
// number of data rows written.
func Write(w io.Writer, rows []model.ApplicantRecord) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for i := range rows {
		if err := cw.Write(Row(&rows[i])); err != nil {
			return i, fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(rows), fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return len(rows), nil
}

// Render returns the export as one byte slice.
func Render(rows []model.ApplicantRecord) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Write(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
