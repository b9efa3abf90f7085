package render

import (
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/model1"
)

// Division renders organizational units.
type Division struct {
	Base
}

// Header returns the division header.
func (d Division) Header() model1.Header {
	return model1.Header{
		d.IndexColumn(),
		{Key: KeyName, Name: "Nama"},
		{Key: KeyDescription, Name: "Deskripsi"},
		d.ActionsColumn(),
	}
}

// Render renders a division to a row.
func (Division) Render(o dao.Division, row *model1.Row) error {
	row.ID = o.ID
	row.Fields = model1.Fields{Blank, Missing(o.Name), Missing(o.Description), ActionsValue}
	return nil
}
