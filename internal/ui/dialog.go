// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	// ErrorPageID names the error dialog layer.
	ErrorPageID = "error-dialog"

	// ReasonPageID names the reason dialog layer.
	ReasonPageID = "reason-dialog"

	// ConfirmPageID names the confirmation layer.
	ConfirmPageID = "confirm-dialog"

	dialogWidth = 60
)

// ShowError layers an error message over the current screen. Field
// errors, if any, are listed below the message.
func ShowError(pages *Pages, msg string, fields map[string]string, done func()) {
	m := tview.NewModal()
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetTextColor(tcell.ColorRed)
	m.SetButtonBackgroundColor(tcell.ColorRed)
	m.SetButtonTextColor(tcell.ColorWhite)
	m.SetText(errorText(msg, fields))
	m.AddButtons([]string{"OK"})
	m.SetDoneFunc(func(int, string) {
		pages.Dismiss(ErrorPageID)
		if done != nil {
			done()
		}
	})
	pages.Show(ErrorPageID, m)
}

// ShowConfirm asks a yes/no question. Dangerous questions are drawn in red.
func ShowConfirm(pages *Pages, msg string, dangerous bool, yes, no func()) {
	m := tview.NewModal()
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetButtonTextColor(tcell.ColorWhite)
	if dangerous {
		m.SetTextColor(tcell.ColorRed)
		m.SetButtonBackgroundColor(tcell.ColorRed)
	} else {
		m.SetTextColor(tcell.ColorWhite)
		m.SetButtonBackgroundColor(tcell.ColorBlue)
	}
	m.SetText(msg)
	m.AddButtons([]string{"Yes", "No"})
	m.SetDoneFunc(func(idx int, _ string) {
		pages.Dismiss(ConfirmPageID)
		fn := no
		if idx == 0 {
			fn = yes
		}
		if fn != nil {
			fn()
		}
	})
	pages.Show(ConfirmPageID, m)
}

func errorText(msg string, fields map[string]string) string {
	if len(fields) == 0 {
		return msg
	}
	kk := make([]string, 0, len(fields))
	for k := range fields {
		kk = append(kk, k)
	}
	sort.Strings(kk)

	var b strings.Builder
	b.WriteString(msg)
	b.WriteString("\n")
	for _, k := range kk {
		fmt.Fprintf(&b, "\n%s: %s", k, fields[k])
	}
	return b.String()
}

// ReasonDialog asks for the reason of a leave request.
type ReasonDialog struct {
	*tview.Form

	pages    *Pages
	submitFn func(string)
	cancelFn func()
}

// NewReasonDialog returns a dialog titled after the request kind.
func NewReasonDialog(pages *Pages, title string) *ReasonDialog {
	d := ReasonDialog{
		Form:  tview.NewForm(),
		pages: pages,
	}
	d.SetBorder(true)
	d.SetTitle(" " + title + " ")
	d.SetBackgroundColor(tcell.ColorDefault)
	d.SetFieldBackgroundColor(tcell.ColorDarkSlateGray)
	d.SetButtonBackgroundColor(tcell.ColorDodgerBlue)
	d.AddInputField("Reason", "", 40, nil, nil)
	d.AddButton("Submit", d.submit)
	d.AddButton("Cancel", d.cancel)
	d.SetCancelFunc(d.cancel)

	return &d
}

// SetSubmitFn sets the callback receiving the reason.
func (d *ReasonDialog) SetSubmitFn(fn func(string)) *ReasonDialog {
	d.submitFn = fn
	return d
}

// SetCancelFn sets the callback run when the dialog is abandoned.
func (d *ReasonDialog) SetCancelFn(fn func()) *ReasonDialog {
	d.cancelFn = fn
	return d
}

// Reason returns the typed reason.
func (d *ReasonDialog) Reason() string {
	field, ok := d.GetFormItemByLabel("Reason").(*tview.InputField)
	if !ok {
		return ""
	}
	return strings.TrimSpace(field.GetText())
}

// Show layers the dialog centered over the current screen.
func (d *ReasonDialog) Show() {
	d.pages.Show(ReasonPageID, center(d, dialogWidth, 7))
}

func (d *ReasonDialog) submit() {
	d.pages.Dismiss(ReasonPageID)
	if d.submitFn != nil {
		d.submitFn(d.Reason())
	}
}

func (d *ReasonDialog) cancel() {
	d.pages.Dismiss(ReasonPageID)
	if d.cancelFn != nil {
		d.cancelFn()
	}
}

func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
