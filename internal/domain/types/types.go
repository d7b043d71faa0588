// Package types contains common types used across the application
package types

// Job is a posting as listed on the public job board.
type Job struct {
	JobID            int64  `json:"job_id"`
	Title            string `json:"title"`
	JobCode          string `json:"job_code,omitempty"`
	Department       string `json:"department,omitempty"`
	Location         string `json:"location,omitempty"`
	EmploymentType   string `json:"employment_type,omitempty"`
	ExperienceNeeded string `json:"experience_required,omitempty"`
	SalaryRange      string `json:"salary_range,omitempty"`
	Description      string `json:"jd,omitempty"`
	KeySkills        string `json:"key_skills,omitempty"`
	Openings         int    `json:"openings,omitempty"`
	PostedDate       string `json:"posted_date,omitempty"`
	ClosingDate      string `json:"closing_date,omitempty"`
	Status           string `json:"status,omitempty"`
}

// Interview is one scheduled interview round.
type Interview struct {
	ScheduleID      int64  `json:"schedule_id"`
	ApplicationID   int64  `json:"application_id"`
	RoundNumber     int    `json:"round_number"`
	RoundType       string `json:"round_type"`
	ScheduledDate   string `json:"scheduled_date"`
	DurationMinutes int    `json:"duration_minutes"`
	InterviewerIDs  string `json:"interviewer_ids"`
	ManagerID       *int64 `json:"manager_id,omitempty"`
	MeetingLink     string `json:"meeting_link,omitempty"`
	Location        string `json:"location"`
	ScheduleStatus  string `json:"schedule_status"`
	Remarks         string `json:"remarks,omitempty"`
	ApplicantName   string `json:"applicant_name,omitempty"`
	JobTitle        string `json:"job_title,omitempty"`
}

// User is the authenticated HR portal user.
type User struct {
	EmpID    int64  `json:"emp_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name,omitempty"`
}
