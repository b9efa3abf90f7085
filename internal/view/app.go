// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/absensi/absensi/internal/config"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/export"
	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/session"
	"github.com/absensi/absensi/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second

	mainPage = "main"
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash handles flash messages in the application.
type Flash struct {
	*tview.TextView
	app    *App
	cancel context.CancelFunc
	mx     sync.RWMutex
}

// NewFlash creates a new Flash instance.
func NewFlash(app *App) *Flash {
	f := &Flash{
		TextView: tview.NewTextView(),
		app:      app,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	f.SetBackgroundColor(tcell.ColorDefault)
	return f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...any) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...any) {
	f.setMessage(FlashErr, fmt.Sprintf(format, args...))
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	f.app.QueueUpdateDraw(func() {
		f.TextView.Clear()
	})
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	if msg == "" {
		f.Clear()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.cancel = cancel
	f.mx.Unlock()

	f.app.QueueUpdateDraw(func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		_, _ = fmt.Fprintf(f.TextView, "%s %s", flashPrefix(level), msg)
	})

	go f.autoClear(ctx)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "<WARN>"
	case FlashErr:
		return "<ERROR>"
	default:
		return "<INFO>"
	}
}

// Refresher reloads its data on demand.
type Refresher interface {
	Refresh()
}

// Searchable accepts a free text search.
type Searchable interface {
	Search(text string)
	SearchText() string
}

// AppOptions carries the dependencies of the application.
type AppOptions struct {
	Config  *config.Config
	Factory *dao.Factory
	Session *session.Store
	HotKeys *config.HotKeys
	Aliases *config.Aliases
	Export  export.Target
	Logger  *slog.Logger
	Version string
}

// App represents the main application container.
type App struct {
	*tview.Application

	Main    *ui.Pages
	Content *ui.Pages

	opts    AppOptions
	stack   *model.Stack
	command *Command
	header  *Header
	prompt  *ui.Prompt
	menu    *ui.Menu
	crumbs  *ui.Crumbs
	flash   *Flash
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	mx      sync.RWMutex
}

// NewApp creates a new application instance.
func NewApp(opts AppOptions) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HotKeys == nil {
		opts.HotKeys = config.NewHotKeys()
	}
	if opts.Aliases == nil {
		opts.Aliases = config.NewAliases()
	}

	a := App{
		Application: tview.NewApplication(),
		Main:        ui.NewPages(),
		Content:     ui.NewPages(),
		opts:        opts,
		stack:       model.NewStack(),
		log:         opts.Logger.With("component", "app"),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.flash = NewFlash(&a)
	a.menu = ui.NewMenu()
	a.crumbs = ui.NewCrumbs(a.stack)
	a.prompt = ui.NewPrompt()
	a.header = NewHeader(opts.Session, opts.Config.Absensi.BaseURL, opts.Version)
	a.command = NewCommand(&a)

	return &a
}

// Init builds the application layout.
func (a *App) Init() error {
	a.stack.AddListener(a.Content)
	a.stack.AddListener(a.menu)
	a.stack.AddListener(a.crumbs)
	a.stack.AddListener(a)

	a.prompt.SetActiveFn(func(active bool) {
		if active {
			a.SetFocus(a.prompt)
			return
		}
		a.focusTop()
	})
	a.prompt.SetDoneFn(a.promptDone)
	a.prompt.SetCancelFn(func(mode ui.PromptMode) {
		if mode == ui.PromptSearch {
			a.search("")
		}
	})

	a.opts.Session.AddListener(func(s session.Session) {
		a.QueueUpdateDraw(func() {
			a.header.Update(s)
			if !s.IsLogin && a.IsRunning() {
				a.flash.Warn("Session ended, please log in again")
				a.showLogin()
			}
		})
	})
	a.header.Update(a.opts.Session.Current())

	a.Main.AddPage(mainPage, a.buildLayout(), true, true)
	a.SetRoot(a.Main, true)
	a.SetInputCapture(a.keyboard)
	a.EnableMouse(a.opts.Config.Absensi.UI.EnableMouse)

	return nil
}

// Run starts the application on the given screen, or the login form when
// no account is logged in.
func (a *App) Run(screen string) error {
	a.mx.Lock()
	a.running = true
	a.mx.Unlock()

	if !a.opts.Session.Current().IsLogin {
		a.showLogin()
	} else if err := a.command.Run(screen); err != nil {
		a.flash.Errf("Failed to open %q: %v", screen, err)
		_ = a.command.Run(config.DefaultHotKeys["dashboard"].Command)
	}

	return a.Application.Run()
}

// Stop stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	a.running = false
	a.mx.Unlock()

	a.stack.Clear()
	a.cancel()
	if err := a.opts.Config.Absensi.SaveActive(); err != nil {
		a.log.Warn("save profile state failed", "error", err)
	}
	a.Application.Stop()
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// Factory returns the resource accessors.
func (a *App) Factory() *dao.Factory {
	return a.opts.Factory
}

// Session returns the session store.
func (a *App) Session() *session.Store {
	return a.opts.Session
}

// Context returns the application context, done once the app stops.
func (a *App) Context() context.Context {
	return a.ctx
}

// QueueUpdateDraw queues a function to be executed on the UI thread.
func (a *App) QueueUpdateDraw(fn func()) {
	go a.Application.QueueUpdateDraw(fn)
}

// Inject initializes a screen and pushes it on the stack.
func (a *App) Inject(c ui.Component, clearStack bool) error {
	if err := c.Init(a.ctx); err != nil {
		return fmt.Errorf("init %s: %w", c.Name(), err)
	}
	if clearStack {
		a.stack.Clear()
	}
	a.stack.Push(c)

	return nil
}

// Back pops the top screen unless it is the last one.
func (a *App) Back() {
	if a.stack.IsLast() || a.stack.Empty() {
		return
	}
	a.stack.Pop()
}

// Confirm asks a yes/no question before running fn.
func (a *App) Confirm(msg string, dangerous bool, fn func()) {
	ui.ShowConfirm(a.Main, msg, dangerous, fn, a.focusTop)
}

// StackPushed implements model.StackListener.
func (a *App) StackPushed(model.Component) {}

// StackPopped implements model.StackListener.
func (a *App) StackPopped(_, _ model.Component) {}

// StackTop focuses the top screen and remembers it for the next start.
func (a *App) StackTop(top model.Component) {
	if p, ok := top.(tview.Primitive); ok {
		a.SetFocus(p)
	}
	if !isMainScreen(top.Name()) {
		return
	}
	if cfg := a.opts.Config.Absensi.ActiveConfig(); cfg != nil {
		if ctx := cfg.GetContext(); ctx != nil {
			v := ctx.GetView()
			v.Active = top.Name()
			ctx.SetView(v)
		}
	}
}

// isMainScreen tells the screens worth reopening on the next start.
func isMainScreen(name string) bool {
	switch name {
	case loginName, helpName, describeName:
		return false
	}
	return true
}

func (a *App) focusTop() {
	if p, ok := a.stack.Top().(tview.Primitive); ok {
		a.SetFocus(p)
	}
}

func (a *App) showLogin() {
	if a.stack.Top() != nil && a.stack.Top().Name() == loginName {
		return
	}
	if err := a.Inject(NewLogin(a), true); err != nil {
		a.flash.Err(err)
	}
}

func (a *App) buildLayout() *tview.Flex {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.header, 0, 1, false).
		AddItem(a.menu, 0, 2, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow)
	if !a.opts.Config.Absensi.UI.Headless {
		main.AddItem(top, 4, 0, false)
	}
	main.AddItem(a.prompt, 1, 0, false).
		AddItem(a.Content, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flash, 1, 0, false)

	return main
}

func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if evt.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}
	if a.prompt.IsActive() {
		return evt
	}
	if name, _ := a.Main.GetFrontPage(); name != mainPage {
		return evt
	}
	if _, ok := a.GetFocus().(*tview.InputField); ok {
		return evt
	}
	if top := a.stack.Top(); top == nil || top.Name() == loginName {
		return evt
	}

	switch ui.AsKey(evt) {
	case ':':
		a.prompt.Activate(ui.PromptCommand, "")
		return nil
	case ui.KeySlash:
		if s, ok := a.stack.Top().(Searchable); ok {
			a.prompt.Activate(ui.PromptSearch, s.SearchText())
		}
		return nil
	case '?':
		if a.stack.Top().Name() != helpName {
			_ = a.Inject(NewHelp(a), false)
		}
		return nil
	case 'q':
		a.Stop()
		return nil
	case ui.KeyShiftL:
		a.Confirm("Log out of "+a.opts.Session.Profile()+"?", false, a.logout)
		return nil
	case tcell.KeyCtrlR:
		if r, ok := a.stack.Top().(Refresher); ok {
			a.flash.Info("Refreshing...")
			r.Refresh()
		}
		return nil
	case tcell.KeyEsc:
		a.Back()
		return nil
	}

	if evt.Key() == tcell.KeyRune {
		if hk, ok := a.opts.HotKeys.ByShortCut(string(evt.Rune())); ok {
			if err := a.command.Run(hk.Command); err != nil {
				a.flash.Err(err)
			}
			return nil
		}
	}

	return evt
}

func (a *App) promptDone(mode ui.PromptMode, text string) {
	switch mode {
	case ui.PromptSearch:
		a.search(text)
	default:
		if text == "" {
			return
		}
		if err := a.command.Run(text); err != nil {
			a.flash.Errf("Command error: %v", err)
		}
	}
}

func (a *App) search(text string) {
	if s, ok := a.stack.Top().(Searchable); ok {
		s.Search(text)
	}
}

func (a *App) logout() {
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.opts.Config.Absensi.Timeout())
		defer cancel()

		if err := a.opts.Factory.Auth().Logout(ctx); err != nil {
			a.log.Warn("remote logout failed", "error", err)
		}
		if err := a.opts.Session.Logout(); err != nil {
			a.flash.Err(err)
			return
		}
		a.opts.Factory.Cache().Clear()
		a.flash.Info("Logged out")
	}()
}
