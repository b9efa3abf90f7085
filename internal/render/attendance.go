package render

import (
	"time"

	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/model1"
)

// Attendance column keys.
const (
	KeyInternName = "internName"
	KeyDate       = "date"
	KeyStatus     = "status"
	KeyCheckIn    = "checkIn"
	KeyReason     = "reason"
)

// Attendance renders the daily presence records.
type Attendance struct {
	Base
}

// Header returns the attendance header.
func (a Attendance) Header() model1.Header {
	return model1.Header{
		a.IndexColumn(),
		{Key: KeyInternName, Name: "Intern Name"},
		{Key: KeyEmail, Name: "Email", Attrs: model1.Attrs{Hide: true}},
		{Key: KeyDate, Name: "Date", Kind: model1.KindDate},
		{Key: KeyStatus, Name: "Status", Kind: model1.KindStatus},
		{Key: KeyCheckIn, Name: "Check In/Out"},
		{Key: KeyReason, Name: "Reason/Note", Attrs: model1.Attrs{NoSort: true}},
		a.ActionsColumn(),
	}
}

// Render renders an attendance record to a row.
func (Attendance) Render(o dao.Attendance, row *model1.Row) error {
	row.ID = o.ID
	row.Fields = model1.Fields{
		Blank,
		Missing(o.InternName),
		Missing(o.Email),
		ShortDate(o.Date),
		StatusLabel(o.Status),
		CheckInOut(o.CheckIn, o.CheckOut),
		Missing(o.Reason),
		ActionsValue,
	}
	return nil
}

// SortValue orders dates and times on their raw values.
func (Attendance) SortValue(o dao.Attendance, key string) (string, bool) {
	switch key {
	case KeyDate:
		if t, ok := ParseDate(o.Date); ok {
			return t.Format(time.RFC3339), true
		}
		return o.Date, true
	case KeyCheckIn:
		return o.CheckIn, true
	}
	return "", false
}

// StatusLabel returns the badge text of a status.
func StatusLabel(s dao.AttendanceStatus) string {
	if s == "" {
		return MissingValue
	}
	return s.Label()
}
