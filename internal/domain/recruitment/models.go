package recruitment

import "time"

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"

	TypeFullTime   = "FULL_TIME"
	TypePartTime   = "PART_TIME"
	TypeContract   = "CONTRACT"
	TypeInternship = "INTERNSHIP"
)

var (
	Statuses        = []string{StatusOpen, StatusClosed}
	EmploymentTypes = []string{TypeFullTime, TypePartTime, TypeContract, TypeInternship}
)

type Job struct {
	ID             int64      `json:"id"`
	CompanyID      int64      `json:"companyId"`
	CompanyName    string     `json:"companyName"`
	Title          string     `json:"title"`
	Department     string     `json:"department"`
	Location       string     `json:"location"`
	EmploymentType string     `json:"employmentType"`
	Description    string     `json:"description"`
	SalaryMin      *float64   `json:"salaryMin,omitempty"`
	SalaryMax      *float64   `json:"salaryMax,omitempty"`
	Status         string     `json:"status"`
	PostedBy       *int64     `json:"postedBy,omitempty"`
	PostedAt       time.Time  `json:"postedAt"`
	ClosesAt       *time.Time `json:"closesAt,omitempty"`
}

// Filter.CompanyID of zero lists open postings across all companies.
type Filter struct {
	CompanyID  int64
	Status     string
	Department string
	Limit      int
	Offset     int
}

type NewJob struct {
	Title          string
	Department     string
	Location       string
	EmploymentType string
	Description    string
	SalaryMin      *float64
	SalaryMax      *float64
	ClosesAt       *time.Time
}
