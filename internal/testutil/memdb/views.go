package memdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/documents"
	"hrportal/internal/domain/errs"
	"hrportal/internal/domain/leave"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/recruitment"
)

func conflict(entity string) error {
	return fmt.Errorf("%s: %w", entity, errs.ErrConflict)
}

type authView struct{ db *DB }

func (v authView) FindActiveUserByEmail(_ context.Context, email string) (auth.Credential, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	for _, u := range v.db.users {
		if u.cred.Email == email && u.status == auth.UserStatusActive {
			return u.cred, nil
		}
	}
	return auth.Credential{}, notFound("user")
}

func (v authView) GetUser(_ context.Context, userID int64) (auth.User, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	u, ok := v.db.users[userID]
	if !ok || u.status != auth.UserStatusActive {
		return auth.User{}, notFound("user")
	}
	p := u.cred.Principal
	return auth.User{
		ID: p.UserID, Email: p.Email, Name: p.Name, Role: p.Role, Department: p.Department,
		CompanyID: p.CompanyID, EmployeeID: p.EmployeeID, MFAEnabled: u.cred.MFAEnabled, LastLogin: u.lastLogin,
	}, nil
}

func (v authView) UpdateLastLogin(_ context.Context, userID int64) error {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	if u, ok := v.db.users[userID]; ok {
		now := v.db.tick()
		u.lastLogin = &now
	}
	return nil
}

func (v authView) UpdateMFASecret(_ context.Context, userID int64, secretEnc []byte) error {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	if u, ok := v.db.users[userID]; ok {
		u.cred.MFASecretEnc = secretEnc
		u.cred.MFAEnabled = false
	}
	return nil
}

func (v authView) GetMFASecret(_ context.Context, userID int64) ([]byte, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	u, ok := v.db.users[userID]
	if !ok {
		return nil, notFound("user")
	}
	return u.cred.MFASecretEnc, nil
}

func (v authView) SetMFAEnabled(_ context.Context, userID int64, enabled bool) error {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	if u, ok := v.db.users[userID]; ok {
		u.cred.MFAEnabled = enabled
	}
	return nil
}

// CoreView implements core.StoreAPI.
type CoreView struct{ db *DB }

func (v *CoreView) GetCompany(_ context.Context, companyID int64) (core.Company, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	c, ok := v.db.companies[companyID]
	if !ok {
		return core.Company{}, notFound("company")
	}
	return c, nil
}

func (v *CoreView) ListEmployees(_ context.Context, scope auth.Scope, f core.EmployeeFilter) ([]core.Employee, int, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	search := strings.ToLower(f.Search)
	out := []core.Employee{}
	for _, e := range v.db.employees {
		if !inScope(scope, e.CompanyID, e.ID) {
			continue
		}
		if f.Department != "" && e.Department != f.Department {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.FirstName+"|"+e.LastName+"|"+e.Email+"|"+e.EmployeeNumber), search) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (v *CoreView) GetEmployee(_ context.Context, scope auth.Scope, employeeID int64) (core.Employee, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	e, ok := v.db.employees[employeeID]
	if !ok || !inScope(scope, e.CompanyID, e.ID) {
		return core.Employee{}, notFound("employee")
	}
	return e, nil
}

func (v *CoreView) CreateEmployee(_ context.Context, companyID int64, in core.NewEmployee) (core.Employee, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	for _, e := range v.db.employees {
		if e.Email == in.Email || (e.CompanyID == companyID && e.EmployeeNumber == in.EmployeeNumber) {
			return core.Employee{}, conflict("employee")
		}
	}
	now := v.db.tick()
	e := core.Employee{
		ID: v.db.id(), EmployeeNumber: in.EmployeeNumber, FirstName: in.FirstName, LastName: in.LastName,
		Email: in.Email, Department: in.Department, Position: in.Position, CompanyID: companyID,
		LeaveBalance: core.DefaultLeaveBalance, DateJoined: in.DateJoined, Status: core.EmployeeStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}
	if in.LeaveBalance != nil {
		e.LeaveBalance = *in.LeaveBalance
	}
	if e.DateJoined.IsZero() {
		e.DateJoined = now.Truncate(24 * time.Hour)
	}
	v.db.employees[e.ID] = e
	return e, nil
}

func (v *CoreView) UpdateEmployee(_ context.Context, companyID, employeeID int64, patch core.EmployeePatch) (core.Employee, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	e, ok := v.db.employees[employeeID]
	if !ok || e.CompanyID != companyID {
		return core.Employee{}, notFound("employee")
	}
	if patch.Department != nil {
		e.Department = *patch.Department
	}
	if patch.Position != nil {
		e.Position = *patch.Position
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	if patch.LeaveBalance != nil {
		e.LeaveBalance = *patch.LeaveBalance
	}
	e.UpdatedAt = v.db.tick()
	v.db.employees[e.ID] = e
	return e, nil
}

func (v *CoreView) RecentLeaves(_ context.Context, companyID, employeeID int64, limit int) ([]core.LeaveSummary, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	rows := []leave.Leave{}
	for _, l := range v.db.leaves {
		if l.CompanyID == companyID && l.EmployeeID == employeeID {
			rows = append(rows, l)
		}
	}
	sortByTimeDesc(rows, func(l leave.Leave) time.Time { return l.AppliedAt }, func(l leave.Leave) int64 { return l.ID })
	out := []core.LeaveSummary{}
	for _, l := range paginate(rows, limit, 0) {
		out = append(out, core.LeaveSummary{
			ID: l.ID, Type: l.Type, Status: l.Status, StartDate: l.StartDate, EndDate: l.EndDate, Days: l.Days, AppliedAt: l.AppliedAt,
		})
	}
	return out, nil
}

func (v *CoreView) RecentDocuments(_ context.Context, companyID, employeeID int64, limit int) ([]core.DocumentSummary, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	rows := []documents.Document{}
	for _, d := range v.db.documents {
		if d.CompanyID == companyID && d.EmployeeID == employeeID {
			rows = append(rows, d)
		}
	}
	sortByTimeDesc(rows, func(d documents.Document) time.Time { return d.CreatedAt }, func(d documents.Document) int64 { return d.ID })
	out := []core.DocumentSummary{}
	for _, d := range paginate(rows, limit, 0) {
		out = append(out, core.DocumentSummary{ID: d.ID, Title: d.Title, Category: d.Category, CreatedAt: d.CreatedAt})
	}
	return out, nil
}

type documentsView struct{ db *DB }

func (v documentsView) List(_ context.Context, scope auth.Scope, f documents.Filter) ([]documents.Document, int, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	out := []documents.Document{}
	for _, d := range v.db.documents {
		if !inScope(scope, d.CompanyID, d.EmployeeID) {
			continue
		}
		if f.EmployeeID != 0 && d.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Category != "" && d.Category != f.Category {
			continue
		}
		out = append(out, d)
	}
	sortByTimeDesc(out, func(d documents.Document) time.Time { return d.CreatedAt }, func(d documents.Document) int64 { return d.ID })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (v documentsView) Get(_ context.Context, scope auth.Scope, id int64) (documents.Document, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	d, ok := v.db.documents[id]
	if !ok || !inScope(scope, d.CompanyID, d.EmployeeID) {
		return documents.Document{}, notFound("document")
	}
	return d, nil
}

func (v documentsView) Create(_ context.Context, scope auth.Scope, uploadedBy int64, in documents.NewDocument) (documents.Document, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	e, ok := v.db.employees[in.EmployeeID]
	if !ok || !inScope(scope, e.CompanyID, e.ID) {
		return documents.Document{}, notFound("employee")
	}
	d := documents.Document{
		ID: v.db.id(), CompanyID: e.CompanyID, EmployeeID: e.ID, EmployeeName: e.FullName(),
		Title: in.Title, Category: in.Category, FileURL: in.FileURL, CreatedAt: v.db.tick(),
	}
	if uploadedBy > 0 {
		d.UploadedBy = &uploadedBy
	}
	v.db.documents[d.ID] = d
	return d, nil
}

func (v documentsView) Delete(_ context.Context, scope auth.Scope, id int64) (documents.Document, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	d, ok := v.db.documents[id]
	if !ok || !inScope(scope, d.CompanyID, d.EmployeeID) {
		return documents.Document{}, notFound("document")
	}
	delete(v.db.documents, id)
	return d, nil
}

type payrollView struct{ db *DB }

func (v payrollView) List(_ context.Context, scope auth.Scope, f payroll.Filter) ([]payroll.Payroll, int, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	out := []payroll.Payroll{}
	for _, p := range v.db.payrolls {
		if !inScope(scope, p.CompanyID, p.EmployeeID) {
			continue
		}
		if (f.EmployeeID != 0 && p.EmployeeID != f.EmployeeID) || (f.Month != 0 && p.Month != f.Month) || (f.Year != 0 && p.Year != f.Year) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		return a.ID > b.ID
	})
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (v payrollView) Get(_ context.Context, scope auth.Scope, id int64) (payroll.Payroll, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	p, ok := v.db.payrolls[id]
	if !ok || !inScope(scope, p.CompanyID, p.EmployeeID) {
		return payroll.Payroll{}, notFound("payroll")
	}
	return p, nil
}

func (v payrollView) Create(_ context.Context, companyID int64, in payroll.NewPayroll) (payroll.Payroll, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	e, ok := v.db.employees[in.EmployeeID]
	if !ok || e.CompanyID != companyID {
		return payroll.Payroll{}, notFound("employee")
	}
	for _, p := range v.db.payrolls {
		if p.EmployeeID == in.EmployeeID && p.Month == in.Month && p.Year == in.Year {
			return payroll.Payroll{}, conflict("payroll")
		}
	}
	if payroll.ComputeNet(in.BasicSalary, in.Allowances, in.Deductions) < 0 {
		return payroll.Payroll{}, errs.Invalid("deductions", payroll.NegativeNetReason)
	}
	now := v.db.tick()
	p := payroll.Payroll{
		ID: v.db.id(), CompanyID: companyID, EmployeeID: e.ID, EmployeeName: e.FullName(),
		Month: in.Month, Year: in.Year, BasicSalary: in.BasicSalary, Allowances: in.Allowances, Deductions: in.Deductions,
		NetSalary: payroll.ComputeNet(in.BasicSalary, in.Allowances, in.Deductions),
		Status:    payroll.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	v.db.payrolls[p.ID] = p
	return p, nil
}

func (v payrollView) Update(_ context.Context, companyID, id int64, patch payroll.Patch) (payroll.Payroll, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	p, ok := v.db.payrolls[id]
	if !ok || p.CompanyID != companyID {
		return payroll.Payroll{}, notFound("payroll")
	}
	if patch.BasicSalary != nil {
		p.BasicSalary = *patch.BasicSalary
	}
	if patch.Allowances != nil {
		p.Allowances = *patch.Allowances
	}
	if patch.Deductions != nil {
		p.Deductions = *patch.Deductions
	}
	now := v.db.tick()
	if patch.Status != nil {
		p.Status = *patch.Status
	} else if patch.PaidAt != nil {
		p.Status = payroll.StatusPaid
	}
	switch {
	case p.Status != payroll.StatusPaid:
		p.PaidAt = nil
	case patch.PaidAt != nil:
		paid := *patch.PaidAt
		p.PaidAt = &paid
	case p.PaidAt == nil:
		p.PaidAt = &now
	}
	p.NetSalary = payroll.ComputeNet(p.BasicSalary, p.Allowances, p.Deductions)
	if p.NetSalary < 0 {
		return payroll.Payroll{}, errs.Invalid("deductions", payroll.NegativeNetReason)
	}
	p.UpdatedAt = now
	v.db.payrolls[id] = p
	return p, nil
}

func (v payrollView) StatRows(_ context.Context, companyID int64, month, year int) ([]payroll.Amounts, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	ids := make([]int64, 0, len(v.db.payrolls))
	for id := range v.db.payrolls {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []payroll.Amounts{}
	for _, id := range ids {
		p := v.db.payrolls[id]
		if p.CompanyID != companyID || (month != 0 && p.Month != month) || (year != 0 && p.Year != year) {
			continue
		}
		out = append(out, payroll.Amounts{BasicSalary: p.BasicSalary, NetSalary: p.NetSalary, Paid: p.PaidAt != nil})
	}
	return out, nil
}

func (v payrollView) PayslipData(_ context.Context, scope auth.Scope, id int64) (payroll.PayslipData, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	p, ok := v.db.payrolls[id]
	if !ok || !inScope(scope, p.CompanyID, p.EmployeeID) {
		return payroll.PayslipData{}, notFound("payroll")
	}
	e := v.db.employees[p.EmployeeID]
	return payroll.PayslipData{
		Payroll: p, EmployeeNumber: e.EmployeeNumber, Email: e.Email, Department: e.Department,
		Position: e.Position, CompanyName: v.db.companies[p.CompanyID].Name,
	}, nil
}

type leaveView struct{ db *DB }

func (v leaveView) List(_ context.Context, scope auth.Scope, f leave.Filter) ([]leave.Leave, int, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	out := []leave.Leave{}
	for _, l := range v.db.leaves {
		if !inScope(scope, l.CompanyID, l.EmployeeID) {
			continue
		}
		if (f.EmployeeID != 0 && l.EmployeeID != f.EmployeeID) || (f.Status != "" && l.Status != f.Status) || (f.Type != "" && l.Type != f.Type) {
			continue
		}
		out = append(out, l)
	}
	sortByTimeDesc(out, func(l leave.Leave) time.Time { return l.AppliedAt }, func(l leave.Leave) int64 { return l.ID })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (v leaveView) Get(_ context.Context, scope auth.Scope, id int64) (leave.Leave, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	l, ok := v.db.leaves[id]
	if !ok || !inScope(scope, l.CompanyID, l.EmployeeID) {
		return leave.Leave{}, notFound("leave")
	}
	return l, nil
}

func (v leaveView) Create(_ context.Context, companyID, employeeID int64, in leave.NewLeave, days float64) (leave.Leave, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	e, ok := v.db.employees[employeeID]
	if !ok || e.CompanyID != companyID {
		return leave.Leave{}, notFound("employee")
	}
	l := leave.Leave{
		ID: v.db.id(), CompanyID: companyID, EmployeeID: employeeID, EmployeeName: e.FullName(),
		Type: in.Type, Status: leave.StatusPending, StartDate: in.StartDate, EndDate: in.EndDate,
		Days: days, Reason: in.Reason, AppliedAt: v.db.tick(),
	}
	v.db.leaves[l.ID] = l
	return l, nil
}

func (v leaveView) HasOverlap(_ context.Context, employeeID int64, start, end time.Time) (bool, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	for _, l := range v.db.leaves {
		if l.EmployeeID != employeeID || (l.Status != leave.StatusPending && l.Status != leave.StatusApproved) {
			continue
		}
		if !l.StartDate.After(end) && !l.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (v leaveView) Decide(_ context.Context, companyID, id int64, status string, decidedBy, deciderEmployeeID int64) (leave.Leave, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	l, ok := v.db.leaves[id]
	if !ok || l.CompanyID != companyID || l.Status != leave.StatusPending || l.EmployeeID == deciderEmployeeID {
		return leave.Leave{}, notFound("leave")
	}
	now := v.db.tick()
	l.Status = status
	l.DecidedBy = &decidedBy
	l.DecidedAt = &now
	v.db.leaves[id] = l
	return l, nil
}

func (v leaveView) BalanceEmployee(_ context.Context, companyID, employeeID int64) (leave.BalanceEmployee, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	e, ok := v.db.employees[employeeID]
	if !ok || e.CompanyID != companyID {
		return leave.BalanceEmployee{}, notFound("employee")
	}
	return leave.BalanceEmployee{
		ID: e.ID, EmployeeID: e.EmployeeNumber, Name: e.FullName(), Department: e.Department, LeaveBalance: e.LeaveBalance,
	}, nil
}

func (v leaveView) BalanceRows(_ context.Context, companyID, employeeID int64, from, to time.Time) ([]leave.BalanceRow, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	out := []leave.BalanceRow{}
	for _, l := range v.db.leaves {
		if l.CompanyID != companyID || l.EmployeeID != employeeID {
			continue
		}
		if l.StartDate.Before(from) || l.StartDate.After(to) {
			continue
		}
		if l.Status != leave.StatusPending && l.Status != leave.StatusApproved {
			continue
		}
		out = append(out, leave.BalanceRow{Type: l.Type, Status: l.Status, StartDate: l.StartDate})
	}
	return out, nil
}

type jobsView struct{ db *DB }

func (v jobsView) List(_ context.Context, f recruitment.Filter) ([]recruitment.Job, int, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	out := []recruitment.Job{}
	for _, j := range v.db.jobs {
		if (f.CompanyID != 0 && j.CompanyID != f.CompanyID) || (f.Status != "" && j.Status != f.Status) || (f.Department != "" && j.Department != f.Department) {
			continue
		}
		out = append(out, j)
	}
	sortByTimeDesc(out, func(j recruitment.Job) time.Time { return j.PostedAt }, func(j recruitment.Job) int64 { return j.ID })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (v jobsView) Create(_ context.Context, companyID, postedBy int64, in recruitment.NewJob) (recruitment.Job, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	j := recruitment.Job{
		ID: v.db.id(), CompanyID: companyID, CompanyName: v.db.companies[companyID].Name, Title: in.Title,
		Department: in.Department, Location: in.Location, EmploymentType: in.EmploymentType, Description: in.Description,
		SalaryMin: in.SalaryMin, SalaryMax: in.SalaryMax, Status: recruitment.StatusOpen, PostedAt: v.db.tick(), ClosesAt: in.ClosesAt,
	}
	if postedBy > 0 {
		j.PostedBy = &postedBy
	}
	v.db.jobs[j.ID] = j
	return j, nil
}

func (v jobsView) Close(_ context.Context, companyID, jobID int64) (recruitment.Job, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	j, ok := v.db.jobs[jobID]
	if !ok || j.CompanyID != companyID {
		return recruitment.Job{}, notFound("job posting")
	}
	j.Status = recruitment.StatusClosed
	v.db.jobs[jobID] = j
	return j, nil
}

type dashboardView struct{ db *DB }

func (v dashboardView) CountCompanies(context.Context) (int, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	return len(v.db.companies), nil
}

func (v dashboardView) CountEmployees(_ context.Context, companyID int64, status string) (int, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	n := 0
	for _, e := range v.db.employees {
		if (companyID == 0 || e.CompanyID == companyID) && (status == "" || e.Status == status) {
			n++
		}
	}
	return n, nil
}

func (v dashboardView) CountLeaves(_ context.Context, companyID int64, status string) (int, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	n := 0
	for _, l := range v.db.leaves {
		if (companyID == 0 || l.CompanyID == companyID) && (status == "" || l.Status == status) {
			n++
		}
	}
	return n, nil
}

func (v dashboardView) CountDocuments(_ context.Context, companyID int64) (int, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	n := 0
	for _, d := range v.db.documents {
		if companyID == 0 || d.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (v dashboardView) PayrollTotal(_ context.Context, companyID int64, month, year int) (float64, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	total := 0.0
	for _, p := range v.db.payrolls {
		if p.CompanyID == companyID && p.Month == month && p.Year == year {
			total += p.NetSalary
		}
	}
	return total, nil
}

func (v dashboardView) RecentEmployees(_ context.Context, companyID int64, limit int) ([]dashboard.RecentEmployee, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	rows := []core.Employee{}
	for _, e := range v.db.employees {
		if e.CompanyID == companyID {
			rows = append(rows, e)
		}
	}
	sortByTimeDesc(rows, func(e core.Employee) time.Time { return e.CreatedAt }, func(e core.Employee) int64 { return e.ID })
	out := []dashboard.RecentEmployee{}
	for _, e := range paginate(rows, limit, 0) {
		out = append(out, dashboard.RecentEmployee{
			ID: e.ID, EmployeeID: e.EmployeeNumber, Name: e.FullName(), Department: e.Department,
			Position: e.Position, CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}
