package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

func PayslipFileName(p Payroll) string {
	return fmt.Sprintf("payslip-%d-%04d-%02d.pdf", p.EmployeeID, p.Year, p.Month)
}

func RenderPayslip(d PayslipData) ([]byte, error) {
	p := d.Payroll
	period := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s", period.Format("January 2006")), false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, d.CompanyName)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "Payslip for "+period.Format("January 2006"))
	pdf.Ln(12)

	line := func(label, value string) {
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}
	line("Employee", p.EmployeeName)
	line("Employee No.", d.EmployeeNumber)
	line("Email", d.Email)
	line("Department", d.Department)
	line("Position", d.Position)
	pdf.Ln(5)

	amount := func(label string, v float64) {
		pdf.CellFormat(55, 7, label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", v), "B", 1, "R", false, 0, "")
	}
	amount("Basic salary", p.BasicSalary)
	amount("Allowances", p.Allowances)
	amount("Deductions", -p.Deductions)
	pdf.SetFont("Helvetica", "B", 12)
	amount("Net salary", p.NetSalary)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Ln(5)

	status := p.Status
	if p.PaidAt != nil {
		status += " on " + p.PaidAt.Format("2006-01-02")
	}
	line("Status", status)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}
