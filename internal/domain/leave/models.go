package leave

import "time"

const (
	TypeAnnual    = "ANNUAL"
	TypeSick      = "SICK"
	TypeEmergency = "EMERGENCY"
	TypeMaternity = "MATERNITY"
	TypePaternity = "PATERNITY"
	TypeUnpaid    = "UNPAID"

	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

var (
	Types    = []string{TypeAnnual, TypeSick, TypeEmergency, TypeMaternity, TypePaternity, TypeUnpaid}
	Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusCancelled}
)

type Leave struct {
	ID           int64      `json:"id"`
	CompanyID    int64      `json:"companyId"`
	EmployeeID   int64      `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	Days         float64    `json:"days"`
	Reason       string     `json:"reason"`
	AppliedAt    time.Time  `json:"appliedAt"`
	DecidedBy    *int64     `json:"decidedBy,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
}

type Filter struct {
	EmployeeID int64
	Status     string
	Type       string
	Limit      int
	Offset     int
}

type NewLeave struct {
	Type      string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Decision is an approve/reject verdict on a pending leave.
type Decision struct {
	Status string
	Note   string
}

// BalanceRow is one leave counted by the balance reporter.
type BalanceRow struct {
	Type      string
	Status    string
	StartDate time.Time
}

type BalanceEmployee struct {
	ID           int64  `json:"id"`
	EmployeeID   string `json:"employeeId"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	LeaveBalance int    `json:"leaveBalance"`
}

type Balance struct {
	Annual  int            `json:"annual"`
	Used    map[string]int `json:"used"`
	Pending map[string]int `json:"pending"`
}

type BalanceReport struct {
	Employee BalanceEmployee `json:"employee"`
	Balance  Balance         `json:"balance"`
}
