// Package model contains domain models passed between layers.
package model

// ApplicantRecord is one applicant/application pairing shown as a table row.
// Records are read-only once ingested. ApplicationID is unique within one
// loaded set; every other field may be missing.
type ApplicantRecord struct {
	// Application fields
	ApplicationID       int64        `json:"application_id"`
	JobID               Opt[int64]   `json:"job_id"`
	AppliedDate         Opt[string]  `json:"applied_date"`
	Source              Opt[string]  `json:"source"`
	SkillsMatchingScore Opt[float64] `json:"skills_matching_score"`
	JDMatchingScore     Opt[float64] `json:"jd_matching_score"`
	ResumeOverallScore  Opt[float64] `json:"resume_overall_score"`
	ApplicationStatus   Opt[string]  `json:"application_status"`
	AssignedHR          Opt[string]  `json:"assigned_hr"`
	AssignedManager     Opt[string]  `json:"assigned_manager"`
	Comments            Opt[string]  `json:"comments"`
	UpdatedAt           Opt[string]  `json:"updated_at"`

	// Applicant profile
	ApplicantID        Opt[int64]   `json:"applicant_id"`
	FirstName          Opt[string]  `json:"first_name"`
	LastName           Opt[string]  `json:"last_name"`
	Email              Opt[string]  `json:"email"`
	Phone              Opt[string]  `json:"phone"`
	LinkedInURL        Opt[string]  `json:"linkedin_url"`
	ResumeURL          Opt[string]  `json:"resume_url"`
	ExperienceYears    Opt[float64] `json:"experience_years"`
	Education          Opt[string]  `json:"education"`
	CurrentCompany     Opt[string]  `json:"current_company"`
	CurrentRole        Opt[string]  `json:"current_role"`
	ExpectedCTC        Opt[float64] `json:"expected_ctc"`
	NoticePeriodDays   Opt[int64]   `json:"notice_period_days"`
	Skills             Opt[string]  `json:"skills"`
	Location           Opt[string]  `json:"location"`
	CreatedAt          Opt[string]  `json:"created_at"`
	ApplicantUpdatedAt Opt[string]  `json:"applicant_updated_at"`
}

// DefaultStatus is shown when a record has no application status.
const DefaultStatus = "pending"
