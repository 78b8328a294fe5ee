package api

import (
	"time"

	"jobportal/internal/database"
	"jobportal/internal/jobs"
)

type userResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u database.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

type jobResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	MinSalary    float64   `json:"min_salary"`
	MaxSalary    float64   `json:"max_salary"`
	JobType      string    `json:"job_type"`
	Status       string    `json:"status"`
	PostedDate   time.Time `json:"posted_date"`
	Recruiter    string    `json:"recruiter"`
}

func newJobResponse(j database.Job) jobResponse {
	return jobResponse{
		ID:           j.ID,
		Title:        j.Title,
		Company:      j.Company,
		Location:     j.Location,
		Description:  j.Description,
		Requirements: j.Requirements,
		MinSalary:    j.MinSalary,
		MaxSalary:    j.MaxSalary,
		JobType:      j.JobType,
		Status:       j.Status,
		PostedDate:   j.PostedDate,
		Recruiter:    j.Recruiter.Username,
	}
}

func newJobList(items []database.Job) []jobResponse {
	out := make([]jobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, newJobResponse(j))
	}
	return out
}

type jobPageResponse struct {
	Items      []jobResponse `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Size       int           `json:"size"`
	TotalPages int           `json:"total_pages"`
}

func newJobPage(p jobs.Page) jobPageResponse {
	return jobPageResponse{
		Items:      newJobList(p.Items),
		Total:      p.Total,
		Page:       p.Page,
		Size:       p.Size,
		TotalPages: p.TotalPages,
	}
}

type jobSummary struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Status  string `json:"status"`
}

// applicationResponse 只包含申请人的 id 与用户名，绝不携带凭证信息。
type applicationResponse struct {
	ID        uint        `json:"id"`
	JobID     uint        `json:"job_id"`
	Job       *jobSummary `json:"job,omitempty"`
	Applicant *applicant  `json:"applicant,omitempty"`
	Status    string      `json:"status"`
	AppliedAt time.Time   `json:"applied_at"`
}

type applicant struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func newApplicationResponse(a database.JobApplication) applicationResponse {
	resp := applicationResponse{ID: a.ID, JobID: a.JobID, Status: a.Status, AppliedAt: a.AppliedAt}
	if a.Job.ID != 0 {
		resp.Job = &jobSummary{ID: a.Job.ID, Title: a.Job.Title, Company: a.Job.Company, Status: a.Job.Status}
	}
	if a.Applicant.ID != 0 {
		resp.Applicant = &applicant{ID: a.Applicant.ID, Username: a.Applicant.Username}
	}
	return resp
}

func newApplicationList(items []database.JobApplication) []applicationResponse {
	out := make([]applicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, newApplicationResponse(a))
	}
	return out
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
