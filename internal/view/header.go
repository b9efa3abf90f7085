// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"github.com/absensi/absensi/internal/render"
	"github.com/absensi/absensi/internal/session"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Header displays the logged in account of the active profile.
type Header struct {
	*tview.Table

	profile string
	baseURL string
	version string
}

// NewHeader returns a header for the given profile store.
func NewHeader(s *session.Store, baseURL, version string) *Header {
	h := Header{
		Table:   tview.NewTable(),
		profile: s.Profile(),
		baseURL: baseURL,
		version: version,
	}
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetBorderPadding(0, 0, 1, 1)
	h.SetSelectable(false, false)

	return &h
}

// Update redraws the header for a session.
func (h *Header) Update(s session.Session) {
	h.Clear()

	user, role := "[gray]not logged in[-]", render.MissingValue
	if s.IsLogin {
		user = "[::b]" + s.User.Name + "[::-] " + render.Missing(s.User.Email)
		role = render.Missing(s.User.Role)
	}

	rows := [][2]string{
		{"Profile:", "[aqua::b]" + h.profile + "[-::-]"},
		{"User:", user},
		{"Role:", role},
		{"Backend:", h.baseURL + " [gray](v" + h.version + ")[-]"},
	}
	for i, r := range rows {
		h.SetCell(i, 0, tview.NewTableCell(r[0]).
			SetTextColor(tcell.ColorOrange).
			SetSelectable(false))
		h.SetCell(i, 1, tview.NewTableCell(r[1]).
			SetTextColor(tcell.ColorWhite).
			SetExpansion(1).
			SetSelectable(false))
	}
}
