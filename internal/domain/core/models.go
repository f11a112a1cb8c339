package core

import "time"

const (
	EmployeeStatusActive     = "ACTIVE"
	EmployeeStatusInactive   = "INACTIVE"
	EmployeeStatusOnLeave    = "ON_LEAVE"
	EmployeeStatusTerminated = "TERMINATED"

	DefaultLeaveBalance = 14
	profileRecentLimit  = 5
)

var EmployeeStatuses = []string{EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusOnLeave, EmployeeStatusTerminated}

type Company struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	RegistrationNo string    `json:"registrationNo"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Employee struct {
	ID             int64     `json:"id"`
	EmployeeNumber string    `json:"employeeId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Department     string    `json:"department"`
	Position       string    `json:"position"`
	CompanyID      int64     `json:"companyId"`
	LeaveBalance   int       `json:"leaveBalance"`
	DateJoined     time.Time `json:"dateJoined"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type EmployeeFilter struct {
	Department string
	Status     string
	Search     string
	Limit      int
	Offset     int
}

type NewEmployee struct {
	EmployeeNumber string
	FirstName      string
	LastName       string
	Email          string
	Department     string
	Position       string
	LeaveBalance   *int
	DateJoined     time.Time
}

// EmployeePatch carries the HR-editable fields; nil means unchanged.
type EmployeePatch struct {
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	Status       *string `json:"status,omitempty"`
	LeaveBalance *int    `json:"leaveBalance,omitempty"`
}

func (p EmployeePatch) Empty() bool {
	return p.Department == nil && p.Position == nil && p.Status == nil && p.LeaveBalance == nil
}

type LeaveSummary struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Days      float64   `json:"days"`
	AppliedAt time.Time `json:"appliedAt"`
}

type DocumentSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

type Profile struct {
	Employee        Employee          `json:"employee"`
	Company         Company           `json:"company"`
	RecentLeaves    []LeaveSummary    `json:"recentLeaves"`
	RecentDocuments []DocumentSummary `json:"recentDocuments"`
}
