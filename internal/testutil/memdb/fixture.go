package memdb

import "hrportal/internal/domain/auth"

// Password is shared by every fixture user.
const Password = "secret123"

// Fixture is two tenants: Acme with an admin, an HR officer, a manager and
// two employees, and Globex with one employee.
type Fixture struct {
	DB *DB

	Acme, Globex int64

	AdminEmp, HREmp, ManagerEmp, AliceEmp, BobEmp, CarolEmp int64

	Admin, HR, Manager, Alice, Bob, Carol auth.Principal
}

func NewFixture() (*Fixture, error) {
	db := New()
	f := &Fixture{DB: db}
	f.Acme = db.AddCompany("Acme Sdn Bhd").ID
	f.Globex = db.AddCompany("Globex Bhd").ID

	f.AdminEmp = db.AddEmployee(f.Acme, "Ada", "Admin", "ada@acme.test", "Management").ID
	f.HREmp = db.AddEmployee(f.Acme, "Hana", "Rahman", "hana@acme.test", "Human Resources").ID
	f.ManagerEmp = db.AddEmployee(f.Acme, "Mike", "Tan", "mike@acme.test", "Engineering").ID
	f.AliceEmp = db.AddEmployee(f.Acme, "Alice", "Lim", "alice@acme.test", "Engineering").ID
	f.BobEmp = db.AddEmployee(f.Acme, "Bob", "Kumar", "bob@acme.test", "Finance").ID
	f.CarolEmp = db.AddEmployee(f.Globex, "Carol", "Wong", "carol@globex.test", "Sales").ID

	users := []struct {
		dst      *auth.Principal
		email    string
		role     string
		company  int64
		employee int64
	}{
		{&f.Admin, "ada@acme.test", auth.RoleAdmin, f.Acme, f.AdminEmp},
		{&f.HR, "hana@acme.test", auth.RoleHR, f.Acme, f.HREmp},
		{&f.Manager, "mike@acme.test", auth.RoleManager, f.Acme, f.ManagerEmp},
		{&f.Alice, "alice@acme.test", auth.RoleEmployee, f.Acme, f.AliceEmp},
		{&f.Bob, "bob@acme.test", auth.RoleEmployee, f.Acme, f.BobEmp},
		{&f.Carol, "carol@globex.test", auth.RoleEmployee, f.Globex, f.CarolEmp},
	}
	for _, u := range users {
		p, err := db.AddUser(u.email, Password, u.role, u.company, u.employee)
		if err != nil {
			return nil, err
		}
		*u.dst = p
	}
	return f, nil
}
