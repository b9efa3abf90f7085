package render

import (
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/model1"
)

// Role renders permission sets.
type Role struct {
	Base
}

// Header returns the role header.
func (r Role) Header() model1.Header {
	return model1.Header{
		r.IndexColumn(),
		{Key: KeyName, Name: "Nama"},
		{Key: KeyDescription, Name: "Deskripsi"},
		r.ActionsColumn(),
	}
}

// Render renders a role to a row.
func (Role) Render(o dao.Role, row *model1.Row) error {
	row.ID = o.ID
	row.Fields = model1.Fields{Blank, Missing(o.Name), Missing(o.Description), ActionsValue}
	return nil
}
