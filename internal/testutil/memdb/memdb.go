// Package memdb is an in-memory stand-in for the PostgreSQL stores, used by
// service and HTTP tests. It mirrors the scoping rules of the SQL queries.
package memdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/documents"
	"hrportal/internal/domain/errs"
	"hrportal/internal/domain/leave"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/recruitment"
)

type user struct {
	cred      auth.Credential
	status    string
	lastLogin *time.Time
}

type DB struct {
	mu        sync.Mutex
	nextID    int64
	clock     time.Time
	companies map[int64]core.Company
	employees map[int64]core.Employee
	users     map[int64]*user
	documents map[int64]documents.Document
	payrolls  map[int64]payroll.Payroll
	leaves    map[int64]leave.Leave
	jobs      map[int64]recruitment.Job
	events    []auditRow
}

type auditRow struct {
	id    int64
	at    time.Time
	entry audit.Entry
}

func New() *DB {
	return &DB{
		clock:     time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
		companies: map[int64]core.Company{},
		employees: map[int64]core.Employee{},
		users:     map[int64]*user{},
		documents: map[int64]documents.Document{},
		payrolls:  map[int64]payroll.Payroll{},
		leaves:    map[int64]leave.Leave{},
		jobs:      map[int64]recruitment.Job{},
	}
}

// id and tick must be called with mu held. tick gives every row a distinct,
// increasing creation time.
func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *DB) tick() time.Time {
	db.clock = db.clock.Add(time.Minute)
	return db.clock
}

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, errs.ErrNotFound)
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func inScope(scope auth.Scope, companyID, employeeID int64) bool {
	return companyID == scope.CompanyID && (scope.EmployeeID == 0 || scope.EmployeeID == employeeID)
}

func (db *DB) employeeName(id int64) string {
	return db.employees[id].FullName()
}

// Fixtures.

func (db *DB) AddCompany(name string) core.Company {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.id()
	c := core.Company{ID: id, Name: name, RegistrationNo: fmt.Sprintf("REG-%04d", id), CreatedAt: db.tick()}
	db.companies[id] = c
	return c
}

func (db *DB) AddEmployee(companyID int64, first, last, email, department string) core.Employee {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.id()
	now := db.tick()
	e := core.Employee{
		ID: id, EmployeeNumber: fmt.Sprintf("EMP-%04d", id), FirstName: first, LastName: last, Email: email,
		Department: department, Position: "Staff", CompanyID: companyID, LeaveBalance: core.DefaultLeaveBalance,
		DateJoined: now.Truncate(24 * time.Hour), Status: core.EmployeeStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	db.employees[id] = e
	return e
}

// AddUser stores a user with a bcrypt hash of password and returns the
// principal a successful login would produce (minus the session id).
func (db *DB) AddUser(email, password, role string, companyID, employeeID int64) (auth.Principal, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return auth.Principal{}, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	p := auth.Principal{
		UserID: db.id(), Email: email, Name: strings.Split(email, "@")[0], Role: role,
		CompanyID: companyID, EmployeeID: employeeID,
	}
	if emp, ok := db.employees[employeeID]; ok {
		p.Name = emp.FullName()
		p.Department = emp.Department
	}
	db.users[p.UserID] = &user{cred: auth.Credential{Principal: p, PasswordHash: hash}, status: auth.UserStatusActive}
	return p, nil
}

func (db *DB) AddPayroll(employeeID int64, month, year int, basic, allowances, deductions float64, paidAt *time.Time) payroll.Payroll {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := db.tick()
	p := payroll.Payroll{
		ID: db.id(), CompanyID: db.employees[employeeID].CompanyID, EmployeeID: employeeID,
		EmployeeName: db.employeeName(employeeID), Month: month, Year: year,
		BasicSalary: basic, Allowances: allowances, Deductions: deductions,
		NetSalary: payroll.ComputeNet(basic, allowances, deductions), Status: payroll.StatusPending,
		PaidAt: paidAt, CreatedAt: now, UpdatedAt: now,
	}
	if paidAt != nil {
		p.Status = payroll.StatusPaid
	}
	db.payrolls[p.ID] = p
	return p
}

func (db *DB) AddLeave(employeeID int64, typ, status string, start, end time.Time) leave.Leave {
	db.mu.Lock()
	defer db.mu.Unlock()
	days, _ := leave.CalculateDays(start, end)
	l := leave.Leave{
		ID: db.id(), CompanyID: db.employees[employeeID].CompanyID, EmployeeID: employeeID,
		EmployeeName: db.employeeName(employeeID), Type: typ, Status: status,
		StartDate: start, EndDate: end, Days: days, AppliedAt: db.tick(),
	}
	db.leaves[l.ID] = l
	return l
}

func (db *DB) AddDocument(employeeID int64, title, category string) documents.Document {
	db.mu.Lock()
	defer db.mu.Unlock()
	d := documents.Document{
		ID: db.id(), CompanyID: db.employees[employeeID].CompanyID, EmployeeID: employeeID,
		EmployeeName: db.employeeName(employeeID), Title: title, Category: category,
		FileURL: "https://files.example.test/" + title, CreatedAt: db.tick(),
	}
	db.documents[d.ID] = d
	return d
}

func (db *DB) AddJob(companyID int64, title, status string) recruitment.Job {
	db.mu.Lock()
	defer db.mu.Unlock()
	j := recruitment.Job{
		ID: db.id(), CompanyID: companyID, CompanyName: db.companies[companyID].Name, Title: title,
		EmploymentType: recruitment.TypeFullTime, Status: status, PostedAt: db.tick(),
	}
	db.jobs[j.ID] = j
	return j
}

// AuditEntries returns a copy of everything recorded through Audit().
func (db *DB) AuditEntries() []audit.Entry {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]audit.Entry, 0, len(db.events))
	for _, row := range db.events {
		out = append(out, row.entry)
	}
	return out
}

func (db *DB) Payroll(id int64) (payroll.Payroll, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.payrolls[id]
	return p, ok
}

func (db *DB) Document(id int64) (documents.Document, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	d, ok := db.documents[id]
	return d, ok
}

// Store views. Each satisfies one domain StoreAPI.

func (db *DB) Auth() auth.StoreAPI { return authView{db} }
func (db *DB) Core() *CoreView { return &CoreView{db} }
func (db *DB) Documents() documents.StoreAPI { return documentsView{db} }
func (db *DB) Payrolls() payroll.StoreAPI { return payrollView{db} }
func (db *DB) Leaves() leave.StoreAPI { return leaveView{db} }
func (db *DB) Jobs() recruitment.StoreAPI { return jobsView{db} }
func (db *DB) Dashboard() dashboard.StoreAPI { return dashboardView{db} }
func (db *DB) Audit() AuditView { return AuditView{db} }

// AuditView records entries and reads them back newest first.
type AuditView struct{ db *DB }

func (v AuditView) Record(_ context.Context, e audit.Entry) error {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	v.db.events = append(v.db.events, auditRow{id: v.db.id(), at: v.db.tick(), entry: e})
	return nil
}

func (v AuditView) Count(ctx context.Context, companyID int64, f audit.Filter) (int, error) {
	rows, err := v.List(ctx, companyID, f, 0, 0)
	return len(rows), err
}

func (v AuditView) List(_ context.Context, companyID int64, f audit.Filter, limit, offset int) ([]audit.Event, error) {
	v.db.mu.Lock()
	defer v.db.mu.Unlock()
	var out []audit.Event
	for i := len(v.db.events) - 1; i >= 0; i-- {
		row := v.db.events[i]
		e := row.entry
		if e.CompanyID != companyID ||
			(f.Action != "" && e.Action != f.Action) ||
			(f.EntityType != "" && e.EntityType != f.EntityType) ||
			(f.ActorID != 0 && e.ActorID != f.ActorID) {
			continue
		}
		actor := e.ActorID
		out = append(out, audit.Event{
			ID:         row.id,
			ActorID:    &actor,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   fmt.Sprint(e.EntityID),
			CreatedAt:  row.at,
		})
	}
	return paginate(out, limit, offset), nil
}

func sortByTimeDesc[T any](rows []T, at func(T) time.Time, id func(T) int64) {
	sort.Slice(rows, func(i, j int) bool {
		ti, tj := at(rows[i]), at(rows[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return id(rows[i]) > id(rows[j])
	})
}
