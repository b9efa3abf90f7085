package render

import (
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/model1"
)

// User renders backoffice accounts.
type User struct {
	Base
}

// Header returns the user header.
func (u User) Header() model1.Header {
	return model1.Header{
		u.IndexColumn(),
		{Key: KeyName, Name: "Nama"},
		{Key: KeyEmail, Name: "Email"},
		{Key: "phoneNumber", Name: "No. HP"},
		{Key: "divisi", Name: "Divisi"},
		{Key: "role", Name: "Role"},
		u.ActionsColumn(),
	}
}

// Render renders a user to a row.
func (User) Render(o dao.User, row *model1.Row) error {
	row.ID = o.ID
	row.Fields = model1.Fields{
		Blank,
		Missing(o.Name),
		Missing(o.Email),
		Missing(o.PhoneNumber),
		Missing(o.Division),
		Missing(o.Role),
		ActionsValue,
	}
	return nil
}
