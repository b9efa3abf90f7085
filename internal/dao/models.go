package dao

import "strings"

// User is a backoffice account, interns included.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Division    string `json:"divisi"`
	Role        string `json:"role"`
}

func (u User) GetID() string   { return u.ID }
func (u User) GetName() string { return u.Name }

// Role is a permission set.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r Role) GetID() string   { return r.ID }
func (r Role) GetName() string { return r.Name }

// Division is an organizational unit.
type Division struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d Division) GetID() string   { return d.ID }
func (d Division) GetName() string { return d.Name }

// AttendanceStatus is the presence state of an intern on a day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusSick    AttendanceStatus = "sick"
	StatusPermit  AttendanceStatus = "permit"
)

// AttendanceStatuses lists every known status.
var AttendanceStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusSick, StatusPermit}

// Valid returns true for a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusSick, StatusPermit:
		return true
	}
	return false
}

// Label returns the display label.
func (s AttendanceStatus) Label() string {
	if !s.Valid() {
		return string(s)
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Attendance is the record of one intern for one day.
type Attendance struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId,omitempty"`
	InternName string           `json:"internName"`
	Email      string           `json:"email"`
	Date       string           `json:"date"`
	Status     AttendanceStatus `json:"status"`
	Reason     string           `json:"reason,omitempty"`
	CheckIn    string           `json:"checkIn,omitempty"`
	CheckOut   string           `json:"checkOut,omitempty"`
}

func (a Attendance) GetID() string   { return a.ID }
func (a Attendance) GetName() string { return a.InternName }

// Statistic is the dashboard summary of the day.
type Statistic struct {
	TotalInterns int `json:"totalInterns"`
	PresentToday int `json:"presentToday"`
	AbsentToday  int `json:"absentToday"`
	OnLeave      int `json:"onLeave"`
}

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the content of a successful login.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// ReasonRequest carries the reason of a sick or permit request.
type ReasonRequest struct {
	Reason string `json:"reason"`
}
