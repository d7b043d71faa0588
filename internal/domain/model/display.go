package model

import (
	"math"
	"strconv"
	"strings"
)

// Placeholder is rendered for any missing field in table views.
const Placeholder = "—"

// Band groups resume scores for highlighting.
type Band string

// Score bands, highest first.
const (
	BandExcellent Band = "excellent" // >= 0.85
	BandGood      Band = "good"      // >= 0.70
	BandFair      Band = "fair"      // >= 0.60
	BandLow       Band = "low"
	BandNone      Band = "none" // missing score
)

// FullName joins first and last name, trimmed. Missing parts are empty.
func (r *ApplicantRecord) FullName() string {
	return strings.TrimSpace(r.FirstName.Or("") + " " + r.LastName.Or(""))
}

// Status returns the application status or DefaultStatus.
func (r *ApplicantRecord) Status() string {
	return r.ApplicationStatus.Or(DefaultStatus)
}

// SkillList splits the comma-joined skills column, dropping blanks.
func (r *ApplicantRecord) SkillList() []string {
	raw, ok := r.Skills.Get()
	if !ok {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Percent formats a [0,1] score as a whole percentage, e.g. 0.73 -> "73%".
// Missing scores return "".
func Percent(score Opt[float64]) string {
	v, ok := score.Get()
	if !ok {
		return ""
	}
	return strconv.FormatInt(int64(math.Round(v*100)), 10) + "%"
}

// ScoreBand classifies a score for highlighting.
func ScoreBand(score Opt[float64]) Band {
	v, ok := score.Get()
	switch {
	case !ok:
		return BandNone
	case v >= 0.85:
		return BandExcellent
	case v >= 0.70:
		return BandGood
	case v >= 0.60:
		return BandFair
	default:
		return BandLow
	}
}

// Text returns the value or Placeholder.
func Text(o Opt[string]) string {
	return o.Or(Placeholder)
}

// Int returns the formatted value or Placeholder.
func Int(o Opt[int64]) string {
	v, ok := o.Get()
	if !ok {
		return Placeholder
	}
	return strconv.FormatInt(v, 10)
}

// Number formats a float without trailing zeros, or returns Placeholder.
func Number(o Opt[float64]) string {
	v, ok := o.Get()
	if !ok {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PercentOrPlaceholder is Percent with Placeholder for missing scores.
func PercentOrPlaceholder(score Opt[float64]) string {
	if p := Percent(score); p != "" {
		return p
	}
	return Placeholder
}

// Experience renders years of experience; missing counts as zero.
func (r *ApplicantRecord) Experience() string {
	return strconv.FormatFloat(r.ExperienceYears.Or(0), 'f', -1, 64) + " years"
}
