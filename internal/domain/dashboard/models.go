package dashboard

import (
	"encoding/json"
	"time"
)

// SatisfactionRate is the fixed figure shown on the public teaser.
const SatisfactionRate = 98

const recentEmployeesLimit = 5

// Overview is either Public or Company. Callers branch with a type switch.
type Overview interface {
	overview()
}

type PublicStats struct {
	Companies      int `json:"companies"`
	Employees      int `json:"employees"`
	ApprovedLeaves int `json:"approvedLeaves"`
	Satisfaction   int `json:"satisfaction"`
}

type Public struct {
	Stats PublicStats
}

func (Public) overview() {}

func (p Public) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Public bool        `json:"public"`
		Stats  PublicStats `json:"stats"`
	}{Public: true, Stats: p.Stats})
}

type CompanyStats struct {
	TotalEmployees     int     `json:"totalEmployees"`
	ActiveEmployees    int     `json:"activeEmployees"`
	PendingLeaves      int     `json:"pendingLeaves"`
	MonthlyPayroll     float64 `json:"monthlyPayroll"`
	TotalDocuments     int     `json:"totalDocuments"`
	PayrollPeriodMonth int     `json:"payrollMonth"`
	PayrollPeriodYear  int     `json:"payrollYear"`
}

type RecentEmployee struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RecentActivities struct {
	Employees []RecentEmployee `json:"employees"`
}

type Company struct {
	CompanyID int64
	Stats     CompanyStats
	Recent    RecentActivities
}

func (Company) overview() {}

func (c Company) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Public           bool             `json:"public"`
		CompanyStats     CompanyStats     `json:"companyStats"`
		RecentActivities RecentActivities `json:"recentActivities"`
	}{Public: false, CompanyStats: c.Stats, RecentActivities: c.Recent})
}
