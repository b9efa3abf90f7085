// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/absensi/absensi/internal/api"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	loginName = "login"

	emailLabel    = "Email"
	passwordLabel = "Password"
)

// Login asks for the credentials of the backoffice account.
type Login struct {
	*tview.Flex

	app     *App
	form    *tview.Form
	pending atomic.Bool
}

// NewLogin returns the login screen.
func NewLogin(app *App) *Login {
	return &Login{
		Flex: tview.NewFlex(),
		app:  app,
		form: tview.NewForm(),
	}
}

// Init builds the form.
func (l *Login) Init(context.Context) error {
	l.form.SetBorder(true)
	l.form.SetTitle(" Login ")
	l.form.SetBackgroundColor(tcell.ColorDefault)
	l.form.SetFieldBackgroundColor(tcell.ColorDarkSlateGray)
	l.form.SetButtonBackgroundColor(tcell.ColorDodgerBlue)

	email := l.app.opts.Session.Current().User.Email
	l.form.AddInputField(emailLabel, email, 40, nil, nil)
	l.form.AddPasswordField(passwordLabel, "", 40, '*', nil)
	l.form.AddButton("Login", l.submit)
	l.form.AddButton("Quit", l.app.Stop)

	l.AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(l.form, 9, 0, true).
			AddItem(nil, 0, 1, false), 60, 0, true).
		AddItem(nil, 0, 1, false)

	return nil
}

// Name returns the view name.
func (l *Login) Name() string {
	return loginName
}

// Start implements model.Component.
func (l *Login) Start() {}

// Stop implements model.Component.
func (l *Login) Stop() {}

// Hints returns the menu hints.
func (l *Login) Hints() ui.MenuHints {
	return ui.MenuHints{
		{Mnemonic: "tab", Description: "Next Field", Visible: true},
		{Mnemonic: "enter", Description: "Login", Visible: true},
		{Mnemonic: "ctrl-c", Description: "Quit", Visible: true},
	}
}

func (l *Login) field(label string) string {
	f, ok := l.form.GetFormItemByLabel(label).(*tview.InputField)
	if !ok {
		return ""
	}
	return f.GetText()
}

func (l *Login) submit() {
	if !l.pending.CompareAndSwap(false, true) {
		return
	}
	req := dao.LoginRequest{
		Email:    strings.TrimSpace(l.field(emailLabel)),
		Password: l.field(passwordLabel),
	}
	l.app.Flash().Info("Logging in...")

	go func() {
		defer l.pending.Store(false)

		ctx, cancel := context.WithTimeout(l.app.Context(), l.app.opts.Config.Absensi.Timeout())
		defer cancel()

		env, err := l.app.Factory().Auth().Login(ctx, req)
		if err == nil {
			err = l.app.Session().Login(env.Content)
		}
		if err != nil {
			l.app.log.Warn("login failed", "email", req.Email, "error", err)
			l.app.QueueUpdateDraw(func() {
				l.app.Flash().Clear()
				ui.ShowError(l.app.Main, api.ErrorEnvelope(err).Message, api.FieldErrors(err), l.app.focusTop)
			})
			return
		}

		l.app.Factory().Cache().Clear()
		l.app.Flash().Infof("%s, welcome %s", env.Message, env.Content.User.Name)
		l.app.QueueUpdateDraw(func() {
			if err := l.app.command.Run(""); err != nil {
				l.app.Flash().Err(err)
			}
		})
	}()
}
