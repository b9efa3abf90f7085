// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/absensi/absensi/internal/api"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/render"
	"github.com/absensi/absensi/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"golang.org/x/sync/errgroup"
)

const dashboardName = "dashboard"

type statCard struct {
	title string
	color tcell.Color
	value func(dao.Statistic) int
}

var statCards = []statCard{
	{"Total Interns", tcell.ColorDodgerBlue, func(s dao.Statistic) int { return s.TotalInterns }},
	{"Present Today", tcell.ColorGreen, func(s dao.Statistic) int { return s.PresentToday }},
	{"Absent Today", tcell.ColorRed, func(s dao.Statistic) int { return s.AbsentToday }},
	{"On Leave", tcell.ColorYellow, func(s dao.Statistic) int { return s.OnLeave }},
}

// Dashboard shows the counters of the day and the attendance of the
// logged in account.
type Dashboard struct {
	*tview.Flex

	app     *App
	cards   []*tview.TextView
	today   *tview.TextView
	account *tview.TextView
	actions *ui.KeyActions
}

// NewDashboard returns the dashboard screen.
func NewDashboard(app *App) *Dashboard {
	return &Dashboard{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		app:     app,
		today:   tview.NewTextView(),
		account: tview.NewTextView(),
		actions: ui.NewKeyActions(),
	}
}

// Init builds the dashboard layout.
func (d *Dashboard) Init(context.Context) error {
	row := tview.NewFlex()
	for _, c := range statCards {
		tv := tview.NewTextView()
		tv.SetDynamicColors(true)
		tv.SetTextAlign(tview.AlignCenter)
		tv.SetBorder(true)
		tv.SetBorderColor(c.color)
		tv.SetTitle(" " + c.title + " ")
		tv.SetBackgroundColor(tcell.ColorDefault)
		tv.SetText(render.MissingValue)
		d.cards = append(d.cards, tv)
		row.AddItem(tv, 0, 1, false)
	}

	for _, tv := range []*tview.TextView{d.today, d.account} {
		tv.SetDynamicColors(true)
		tv.SetBorder(true)
		tv.SetBorderPadding(0, 0, 1, 1)
		tv.SetBackgroundColor(tcell.ColorDefault)
	}
	d.today.SetTitle(" Absensi Hari Ini ")
	d.account.SetTitle(" Akun ")

	bottom := tview.NewFlex().
		AddItem(d.today, 0, 2, false).
		AddItem(d.account, 0, 1, false)

	d.AddItem(row, 5, 0, false).
		AddItem(bottom, 0, 1, false)

	d.actions.Bulk(ui.KeyMap{
		ui.KeyC: ui.NewKeyAction("Check In", d.checkInCmd, true),
		ui.KeyO: ui.NewKeyAction("Check Out", d.checkOutCmd, true),
		ui.KeyS: ui.NewKeyAction("Sick", d.reasonCmd(dao.StatusSick), true),
		ui.KeyP: ui.NewKeyAction("Permit", d.reasonCmd(dao.StatusPermit), true),
	})
	d.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		if out, ok := d.actions.Handle(evt); ok {
			return out
		}
		return evt
	})
	d.drawAccount()

	return nil
}

// Name returns the view name.
func (d *Dashboard) Name() string {
	return dashboardName
}

// Hints returns the menu hints.
func (d *Dashboard) Hints() ui.MenuHints {
	return d.actions.Hints()
}

// Start loads the dashboard data.
func (d *Dashboard) Start() {
	d.Refresh()
}

// Stop implements model.Component.
func (d *Dashboard) Stop() {}

// Refresh fetches the statistics and today's attendance concurrently.
func (d *Dashboard) Refresh() {
	go func() {
		ctx, cancel := context.WithTimeout(d.app.Context(), d.app.opts.Config.Absensi.Timeout())
		defer cancel()

		stats, today, err := d.load(ctx)
		if err != nil {
			d.app.log.Warn("dashboard load failed", "error", err)
			d.app.Flash().Err(err)
			return
		}
		d.app.QueueUpdateDraw(func() {
			d.drawStats(stats)
			d.drawToday(today)
			d.drawAccount()
		})
	}()
}

func (d *Dashboard) load(ctx context.Context) (dao.Statistic, dao.Attendance, error) {
	var (
		stats dao.Statistic
		today dao.Attendance
	)
	f := d.app.Factory()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = f.Dashboard().Statistics(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = f.AttendanceActions().Today(ctx)
		return err
	})
	err := g.Wait()

	return stats, today, err
}

func (d *Dashboard) drawStats(s dao.Statistic) {
	for i, c := range statCards {
		d.cards[i].SetText(fmt.Sprintf("\n[::b]%d[::-]", c.value(s)))
	}
}

func (d *Dashboard) drawToday(a dao.Attendance) {
	d.today.SetText(todayText(a, time.Now()))
}

func (d *Dashboard) drawAccount() {
	u := d.app.Session().Current().User
	var b strings.Builder
	fmt.Fprintf(&b, "[aqua::b]%s[-::-]\n", render.Missing(u.Name))
	fmt.Fprintf(&b, "Email : %s\n", render.Missing(u.Email))
	fmt.Fprintf(&b, "No. HP: %s\n", render.Missing(u.PhoneNumber))
	fmt.Fprintf(&b, "Divisi: %s\n", render.Missing(u.Division))
	fmt.Fprintf(&b, "Role  : %s\n", render.Missing(u.Role))
	d.account.SetText(b.String())
}

// todayText describes the attendance of the day and the next action.
func todayText(a dao.Attendance, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[::-]\n\n", render.ShortDate(now.Format(time.DateOnly)))
	if a.ID == "" {
		b.WriteString("You have not checked in yet.\n\n[gray]<c> check in, <s> sick, <p> permit[-]")
		return b.String()
	}

	fmt.Fprintf(&b, "Status   : %s\n", render.StatusLabel(a.Status))
	fmt.Fprintf(&b, "Check In : %s\n", render.Missing(a.CheckIn))
	fmt.Fprintf(&b, "Check Out: %s\n", render.Missing(a.CheckOut))
	if a.Reason != "" {
		fmt.Fprintf(&b, "Reason   : %s\n", tview.Escape(a.Reason))
	}
	if a.Status == dao.StatusPresent && a.CheckOut == "" {
		b.WriteString("\n[gray]<o> check out[-]")
	}

	return b.String()
}

type attendanceCall func(context.Context) (*api.Envelope[dao.Attendance], error)

func (d *Dashboard) checkInCmd(*tcell.EventKey) *tcell.EventKey {
	d.run("Check in", d.app.Factory().AttendanceActions().CheckIn)
	return nil
}

func (d *Dashboard) checkOutCmd(*tcell.EventKey) *tcell.EventKey {
	d.run("Check out", d.app.Factory().AttendanceActions().CheckOut)
	return nil
}

func (d *Dashboard) reasonCmd(status dao.AttendanceStatus) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		aa := d.app.Factory().AttendanceActions()
		dlg := ui.NewReasonDialog(d.app.Main, status.Label())
		dlg.SetSubmitFn(func(reason string) {
			call := func(ctx context.Context) (*api.Envelope[dao.Attendance], error) {
				if status == dao.StatusSick {
					return aa.MarkSick(ctx, reason)
				}
				return aa.RequestPermit(ctx, reason)
			}
			d.app.focusTop()
			d.run(status.Label(), call)
		})
		dlg.SetCancelFn(d.app.focusTop)
		dlg.Show()
		return nil
	}
}

func (d *Dashboard) run(action string, call attendanceCall) {
	go func() {
		ctx, cancel := context.WithTimeout(d.app.Context(), d.app.opts.Config.Absensi.Timeout())
		defer cancel()

		env, err := call(ctx)
		if err != nil {
			d.app.log.Warn("attendance action failed", "action", action, "error", err)
			d.app.QueueUpdateDraw(func() {
				ui.ShowError(d.app.Main, api.ErrorEnvelope(err).Message, api.FieldErrors(err), d.app.focusTop)
			})
			return
		}
		d.app.Flash().Infof("%s: %s", action, env.Message)
		d.Refresh()
	}()
}
