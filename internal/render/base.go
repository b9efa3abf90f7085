package render

import "github.com/absensi/absensi/internal/model1"

// Base provides the columns shared by every backoffice table.
type Base struct{}

// IndexColumn returns the row number column.
func (Base) IndexColumn() model1.HeaderColumn {
	return model1.HeaderColumn{Key: KeyIndex, Name: "No", Kind: model1.KindIndex}
}

// ActionsColumn returns the row action menu column.
func (Base) ActionsColumn() model1.HeaderColumn {
	return model1.HeaderColumn{Key: KeyActions, Name: "Actions", Kind: model1.KindActions}
}
