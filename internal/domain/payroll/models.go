package payroll

import "time"

const (
	StatusPending   = "PENDING"
	StatusProcessed = "PROCESSED"
	StatusPaid      = "PAID"
)

var Statuses = []string{StatusPending, StatusProcessed, StatusPaid}

type Payroll struct {
	ID           int64      `json:"id"`
	CompanyID    int64      `json:"companyId"`
	EmployeeID   int64      `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	Month        int        `json:"month"`
	Year         int        `json:"year"`
	BasicSalary  float64    `json:"basicSalary"`
	Allowances   float64    `json:"allowances"`
	Deductions   float64    `json:"deductions"`
	NetSalary    float64    `json:"netSalary"`
	Status       string     `json:"status"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Filter values of zero mean "all".
type Filter struct {
	EmployeeID int64
	Month      int
	Year       int
	Limit      int
	Offset     int
}

type NewPayroll struct {
	EmployeeID  int64
	Month       int
	Year        int
	BasicSalary float64
	Allowances  float64
	Deductions  float64
}

type Patch struct {
	BasicSalary *float64   `json:"basicSalary,omitempty"`
	Allowances  *float64   `json:"allowances,omitempty"`
	Deductions  *float64   `json:"deductions,omitempty"`
	Status      *string    `json:"status,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
}

func (p Patch) Empty() bool {
	return p.BasicSalary == nil && p.Allowances == nil && p.Deductions == nil && p.Status == nil && p.PaidAt == nil
}

// Amounts is the slice of a payroll row the stats reporter needs.
type Amounts struct {
	BasicSalary float64
	NetSalary   float64
	Paid        bool
}

type Stats struct {
	TotalPayroll     float64 `json:"totalPayroll"`
	TotalBasicSalary float64 `json:"totalBasicSalary"`
	TotalEmployees   int     `json:"totalEmployees"`
	AvgSalary        int64   `json:"avgSalary"`
	PendingPayments  int     `json:"pendingPayments"`
}

type PayslipData struct {
	Payroll        Payroll
	EmployeeNumber string
	Email          string
	Department     string
	Position       string
	CompanyName    string
}
