package documents

import "time"

const (
	CategoryContract       = "CONTRACT"
	CategoryPayslip        = "PAYSLIP"
	CategoryTax            = "TAX"
	CategoryIdentification = "IDENTIFICATION"
	CategoryCertificate    = "CERTIFICATE"
	CategoryOther          = "OTHER"
)

var Categories = []string{CategoryContract, CategoryPayslip, CategoryTax, CategoryIdentification, CategoryCertificate, CategoryOther}

type Document struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"companyId"`
	EmployeeID   int64     `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	FileURL      string    `json:"fileUrl"`
	UploadedBy   *int64    `json:"uploadedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Filter struct {
	EmployeeID int64
	Category   string
	Limit      int
	Offset     int
}

type NewDocument struct {
	EmployeeID int64
	Title      string
	Category   string
	FileURL    string
}
