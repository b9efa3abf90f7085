// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"context"
	"slices"

	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/render"
	"github.com/absensi/absensi/internal/ui"
	"github.com/derailed/tcell/v2"
)

// AttendanceView browses the attendance records, filtered by status.
type AttendanceView struct {
	*TableView[dao.Attendance]
}

// NewAttendanceView returns the attendance table.
func NewAttendanceView(app *App) *AttendanceView {
	return &AttendanceView{
		TableView: NewTableView(app, app.Factory().Attendance(), render.Attendance{}),
	}
}

// Init builds the table and binds the status filter.
func (v *AttendanceView) Init(ctx context.Context) error {
	if err := v.TableView.Init(ctx); err != nil {
		return err
	}
	v.Actions().Add(ui.KeyF, ui.NewKeyAction("Status Filter", v.statusCmd, true))

	return nil
}

func (v *AttendanceView) statusCmd(*tcell.EventKey) *tcell.EventKey {
	current := dao.AttendanceStatus(v.Pager().Query().Filters[render.KeyStatus])
	next := nextStatus(current)
	v.Pager().SetFilter(render.KeyStatus, string(next))
	if next == "" {
		v.app.Flash().Info("Showing every status")
	} else {
		v.app.Flash().Infof("Showing %s only", next.Label())
	}

	return nil
}

// nextStatus cycles through every status, then back to no filter.
func nextStatus(s dao.AttendanceStatus) dao.AttendanceStatus {
	i := slices.Index(dao.AttendanceStatuses, s)
	if i+1 >= len(dao.AttendanceStatuses) {
		return ""
	}
	return dao.AttendanceStatuses[i+1]
}
