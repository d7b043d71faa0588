// Package ingest turns the hiring backend's loosely typed applicant payload
// into model.ApplicantRecord values. Missing-value conventions (JSON null,
// the "string" placeholder, blank text) are resolved here, once.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/hireview/internal/domain/model"
)

// Drop reasons reported for rejected rows.
const (
	DropNotObject   = "not_object"
	DropMissingID   = "missing_application_id"
	DropDuplicateID = "duplicate_application_id"
)

// Drop describes a payload row that did not become a record.
type Drop struct {
	Index         int
	ApplicationID int64
	Reason        string
}

// Result is the outcome of decoding one payload.
type Result struct {
	Records []model.ApplicantRecord
	Dropped []Drop
}

// Decode parses a JSON payload. Anything other than a JSON array decodes to
// an empty set; malformed JSON is an error wrapping ErrMalformed.
func Decode(payload []byte) (Result, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	rows, ok := raw.([]any)
	if !ok {
		return Result{}, nil
	}
	return Rows(rows), nil
}

// Rows converts already-decoded rows. Numbers may be json.Number, float64
// or numeric strings.
func Rows(rows []any) Result {
	res := Result{Records: make([]model.ApplicantRecord, 0, len(rows))}
	seen := make(map[int64]struct{}, len(rows))

	for i, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			res.Dropped = append(res.Dropped, Drop{Index: i, Reason: DropNotObject})
			continue
		}
		f := fields(obj)

		id, ok := f.int("application_id").Get()
		if !ok {
			res.Dropped = append(res.Dropped, Drop{Index: i, Reason: DropMissingID})
			continue
		}
		if _, dup := seen[id]; dup {
			res.Dropped = append(res.Dropped, Drop{Index: i, ApplicationID: id, Reason: DropDuplicateID})
			continue
		}
		seen[id] = struct{}{}

		res.Records = append(res.Records, model.ApplicantRecord{
			ApplicationID:       id,
			JobID:               f.int("job_id"),
			AppliedDate:         f.str("applied_date"),
			Source:              f.str("source"),
			SkillsMatchingScore: f.float("skills_matching_score"),
			JDMatchingScore:     f.float("jd_matching_score"),
			ResumeOverallScore:  f.float("resume_overall_score"),
			ApplicationStatus:   f.str("application_status"),
			AssignedHR:          f.str("assigned_hr"),
			AssignedManager:     f.str("assigned_manager"),
			Comments:            f.str("comments"),
			UpdatedAt:           f.str("updated_at"),

			ApplicantID:        f.int("applicant_id"),
			FirstName:          f.str("first_name"),
			LastName:           f.str("last_name"),
			Email:              f.str("email"),
			Phone:              f.str("phone"),
			LinkedInURL:        f.str("linkedin_url"),
			ResumeURL:          f.str("resume_url"),
			ExperienceYears:    f.float("experience_years"),
			Education:          f.str("education"),
			CurrentCompany:     f.str("current_company"),
			CurrentRole:        f.str("current_role"),
			ExpectedCTC:        f.float("expected_ctc"),
			NoticePeriodDays:   f.int("notice_period_days"),
			Skills:             f.str("skills"),
			Location:           f.str("location"),
			CreatedAt:          f.str("created_at"),
			ApplicantUpdatedAt: f.str("applicant_updated_at"),
		})
	}
	return res
}

type fields map[string]any

// text classifies a string value; anything but Present means missing.
func text(s string) (string, model.Missing) {
	switch {
	case s == model.SentinelValue:
		return "", model.Sentinel
	case strings.TrimSpace(s) == "":
		return "", model.Blank
	default:
		return s, model.Present
	}
}

func (f fields) str(key string) model.Opt[string] {
	switch v := f[key].(type) {
	case nil:
		return model.None[string](model.Null)
	case string:
		s, why := text(v)
		if why != model.Present {
			return model.None[string](why)
		}
		return model.Some(s)
	case json.Number:
		return model.Some(v.String())
	case float64:
		return model.Some(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		return model.Some(strconv.FormatBool(v))
	default:
		return model.None[string](model.Null)
	}
}

func (f fields) float(key string) model.Opt[float64] {
	var n float64
	switch v := f[key].(type) {
	case nil:
		return model.None[float64](model.Null)
	case json.Number:
		x, err := v.Float64()
		if err != nil {
			return model.None[float64](model.Null)
		}
		n = x
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case string:
		s, why := text(v)
		if why != model.Present {
			return model.None[float64](why)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return model.None[float64](model.Null)
		}
		n = x
	default:
		return model.None[float64](model.Null)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return model.None[float64](model.Null)
	}
	return model.Some(n)
}

// int accepts integral numbers only; 12.5 is not an id.
func (f fields) int(key string) model.Opt[int64] {
	if v, ok := f[key].(json.Number); ok {
		if n, err := v.Int64(); err == nil {
			return model.Some(n)
		}
	}
	o := f.float(key)
	x, ok := o.Get()
	if !ok {
		return model.None[int64](o.Reason())
	}
	if x != math.Trunc(x) || x >= math.MaxInt64 || x < math.MinInt64 {
		return model.None[int64](model.Null)
	}
	return model.Some(int64(x))
}
