package view

import (
	"cmp"
	"slices"
	"strings"

	"github.com/okian/hireview/internal/domain/model"
)

// SortKey names a sortable column.
type SortKey string

// Sortable columns.
const (
	KeyApplicantName       SortKey = "applicant_name"
	KeyJobID               SortKey = "job_id"
	KeyAppliedDate         SortKey = "applied_date"
	KeySource              SortKey = "source"
	KeySkillsMatchingScore SortKey = "skills_matching_score"
	KeyJDMatchingScore     SortKey = "jd_matching_score"
	KeyResumeOverallScore  SortKey = "resume_overall_score"
	KeyExperienceYears     SortKey = "experience_years"
	KeyCurrentRole         SortKey = "current_role"
	KeySkills              SortKey = "skills"
	KeyApplicationStatus   SortKey = "application_status"
	KeyLocation            SortKey = "location"
)

// column extracts a comparable value; exactly one of text or num is set.
type column struct {
	text func(*model.ApplicantRecord) model.Opt[string]
	num  func(*model.ApplicantRecord) model.Opt[float64]
}

func intCol(get func(*model.ApplicantRecord) model.Opt[int64]) func(*model.ApplicantRecord) model.Opt[float64] {
	return func(r *model.ApplicantRecord) model.Opt[float64] {
		v, ok := get(r).Get()
		if !ok {
			return model.None[float64](model.Null)
		}
		return model.Some(float64(v))
	}
}

var columns = map[SortKey]column{
	KeyApplicantName: {text: func(r *model.ApplicantRecord) model.Opt[string] { return model.Some(r.FullName()) }},
	KeyJobID:         {num: intCol(func(r *model.ApplicantRecord) model.Opt[int64] { return r.JobID })},
	KeyAppliedDate:   {text: func(r *model.ApplicantRecord) model.Opt[string] { return r.AppliedDate }},
	KeySource:        {text: func(r *model.ApplicantRecord) model.Opt[string] { return r.Source }},
	KeySkillsMatchingScore: {num: func(r *model.ApplicantRecord) model.Opt[float64] {
		return r.SkillsMatchingScore
	}},
	KeyJDMatchingScore: {num: func(r *model.ApplicantRecord) model.Opt[float64] { return r.JDMatchingScore }},
	KeyResumeOverallScore: {num: func(r *model.ApplicantRecord) model.Opt[float64] {
		return r.ResumeOverallScore
	}},
	KeyExperienceYears:   {num: func(r *model.ApplicantRecord) model.Opt[float64] { return r.ExperienceYears }},
	KeyCurrentRole:       {text: func(r *model.ApplicantRecord) model.Opt[string] { return r.CurrentRole }},
	KeySkills:            {text: func(r *model.ApplicantRecord) model.Opt[string] { return r.Skills }},
	KeyApplicationStatus: {text: func(r *model.ApplicantRecord) model.Opt[string] { return r.ApplicationStatus }},
	KeyLocation:          {text: func(r *model.ApplicantRecord) model.Opt[string] { return r.Location }},
}

// Valid reports whether k names a sortable column.
func (k SortKey) Valid() bool {
	_, ok := columns[k]
	return ok
}

// SortKeys lists every sortable column, alphabetically.
func SortKeys() []SortKey {
	keys := make([]SortKey, 0, len(columns))
	for k := range columns {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// compareOpt orders missing values below every present value.
func compareOpt[T cmp.Ordered](a, b model.Opt[T], less func(x, y T) int) int {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	default:
		return less(av, bv)
	}
}

// Compare orders two records by the given sort. Descending reverses the
// whole order, so missing values come last.
func (s Sort) Compare(a, b *model.ApplicantRecord) int {
	col, ok := columns[s.Key]
	if !ok {
		return 0
	}
	var c int
	if col.text != nil {
		c = compareOpt(col.text(a), col.text(b), strings.Compare)
	} else {
		c = compareOpt(col.num(a), col.num(b), cmp.Compare[float64])
	}
	if s.Direction == Desc {
		return -c
	}
	return c
}

// sortRows orders rows in place; ties keep their relative order.
func sortRows(rows []*model.ApplicantRecord, s *Sort) {
	if s == nil || !s.Key.Valid() {
		return
	}
	slices.SortStableFunc(rows, s.Compare)
}
