package mockapi

import (
	"strings"
	"time"

	"github.com/absensi/absensi/internal/dao"
)

// Demo accounts. Every seeded user logs in with DemoPassword.
const (
	DemoAdminEmail = "admin@example.com"
	DemoPassword   = "password"

	roleAdmin  = "Admin"
	roleMentor = "Mentor"
	roleIntern = "Intern"
)

func seedUsers() []dao.User {
	return []dao.User{
		{ID: "1", Name: "Admin Backoffice", Email: DemoAdminEmail, PhoneNumber: "081200000001", Division: "IT", Role: roleAdmin},
		{ID: "2", Name: "John Doe", Email: "john.doe@example.com", PhoneNumber: "081234567890", Division: "IT", Role: roleIntern},
		{ID: "3", Name: "Jane Smith", Email: "jane.smith@example.com", PhoneNumber: "081234567891", Division: "Marketing", Role: roleIntern},
		{ID: "4", Name: "Bob Johnson", Email: "bob.johnson@example.com", PhoneNumber: "081234567892", Division: "Finance", Role: roleIntern},
		{ID: "5", Name: "Alice Williams", Email: "alice.williams@example.com", PhoneNumber: "081234567893", Division: "IT", Role: roleIntern},
		{ID: "6", Name: "Charlie Brown", Email: "charlie.brown@example.com", PhoneNumber: "081234567894", Division: "HR", Role: roleIntern},
		{ID: "7", Name: "Dewi Lestari", Email: "dewi.lestari@example.com", PhoneNumber: "081234567895", Division: "IT", Role: roleMentor},
	}
}

func seedRoles() []dao.Role {
	return []dao.Role{
		{ID: "1", Name: roleAdmin, Description: "Mengelola seluruh data backoffice"},
		{ID: "2", Name: roleMentor, Description: "Membimbing peserta magang"},
		{ID: "3", Name: roleIntern, Description: "Peserta magang"},
	}
}

func seedDivisions() []dao.Division {
	return []dao.Division{
		{ID: "1", Name: "Divisi IT", Description: "Mengelola sistem informasi"},
		{ID: "2", Name: "Divisi Marketing", Description: "Mengelola pemasaran dan promosi"},
		{ID: "3", Name: "Divisi Finance", Description: "Mengelola keuangan perusahaan"},
		{ID: "4", Name: "Divisi HR", Description: "Mengelola sumber daya manusia"},
	}
}

// seedAttendance returns the demo records of today, one of them dated the
// day before.
func seedAttendance(now time.Time) []dao.Attendance {
	today := now.Format(time.DateOnly)
	yesterday := now.AddDate(0, 0, -1).Format(time.DateOnly)

	return []dao.Attendance{
		{ID: "1", UserID: "2", InternName: "John Doe", Email: "john.doe@example.com", Date: today, Status: dao.StatusAbsent, Reason: "Family emergency"},
		{ID: "2", UserID: "3", InternName: "Jane Smith", Email: "jane.smith@example.com", Date: today, Status: dao.StatusPresent, CheckIn: "08:30", CheckOut: "17:00"},
		{ID: "3", UserID: "4", InternName: "Bob Johnson", Email: "bob.johnson@example.com", Date: today, Status: dao.StatusSick, Reason: "Flu"},
		{ID: "4", UserID: "5", InternName: "Alice Williams", Email: "alice.williams@example.com", Date: yesterday, Status: dao.StatusPermit, Reason: "Medical appointment"},
		{ID: "5", UserID: "6", InternName: "Charlie Brown", Email: "charlie.brown@example.com", Date: today, Status: dao.StatusPresent, CheckIn: "09:00", CheckOut: "18:00"},
	}
}

func required(errs map[string][]string, field, value, msg string) map[string][]string {
	if strings.TrimSpace(value) != "" {
		return errs
	}
	if errs == nil {
		errs = make(map[string][]string)
	}
	errs[field] = append(errs[field], msg)
	return errs
}

func validateUser(u dao.User) map[string][]string {
	errs := required(nil, "name", u.Name, "Name is required")
	errs = required(errs, "email", u.Email, "Email is required")
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		if errs == nil {
			errs = make(map[string][]string)
		}
		errs["email"] = append(errs["email"], "Email is invalid")
	}
	return errs
}

func validateRole(r dao.Role) map[string][]string {
	return required(nil, "name", r.Name, "Name is required")
}

func validateDivision(d dao.Division) map[string][]string {
	return required(nil, "name", d.Name, "Name is required")
}

func validateAttendance(a dao.Attendance) map[string][]string {
	errs := required(nil, "internName", a.InternName, "Intern name is required")
	errs = required(errs, "date", a.Date, "Date is required")
	if !a.Status.Valid() {
		if errs == nil {
			errs = make(map[string][]string)
		}
		errs["status"] = append(errs["status"], "Status is invalid")
	}
	return errs
}
