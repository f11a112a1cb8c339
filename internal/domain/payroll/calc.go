package payroll

import "math"

const NegativeNetReason = "must not exceed basic salary plus allowances"

// ComputeNet is basic + allowances - deductions, rounded to cents.
func ComputeNet(basic, allowances, deductions float64) float64 {
	return roundCents(basic + allowances - deductions)
}

// Summarize aggregates payroll rows. An empty input yields the zero Stats.
func Summarize(rows []Amounts) Stats {
	var out Stats
	for _, row := range rows {
		out.TotalPayroll += row.NetSalary
		out.TotalBasicSalary += row.BasicSalary
		if !row.Paid {
			out.PendingPayments++
		}
	}
	out.TotalEmployees = len(rows)
	out.TotalPayroll = roundCents(out.TotalPayroll)
	out.TotalBasicSalary = roundCents(out.TotalBasicSalary)
	if out.TotalEmployees > 0 {
		out.AvgSalary = int64(math.Round(out.TotalPayroll / float64(out.TotalEmployees)))
	}
	return out
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
