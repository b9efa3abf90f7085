// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"fmt"
	"strings"

	"github.com/absensi/absensi/internal/config/data"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/render"
	"github.com/absensi/absensi/internal/ui"
)

// Built-in commands.
const (
	cmdDashboard = "dashboard"
	cmdHelp      = "help"
	cmdLogout    = "logout"
	cmdQuit      = "quit"
)

// Command handles user command interpretation and execution.
type Command struct {
	app *App
}

// NewCommand creates a new command interpreter.
func NewCommand(app *App) *Command {
	return &Command{app: app}
}

// Run parses and executes a command. Trailing arguments of a resource
// command become its search.
func (c *Command) Run(cmd string) error {
	cmd = strings.TrimSpace(strings.TrimPrefix(cmd, ":"))
	if cmd == "" {
		return c.defaultCmd()
	}

	name, args := c.parseCommand(cmd)
	name = c.app.opts.Aliases.Get(name)

	switch name {
	case cmdDashboard:
		return c.app.Inject(NewDashboard(c.app), true)
	case cmdHelp:
		return c.app.Inject(NewHelp(c.app), false)
	case cmdLogout:
		c.app.Confirm("Log out of "+c.app.opts.Session.Profile()+"?", false, c.app.logout)
		return nil
	case cmdQuit, "q":
		c.app.Stop()
		return nil
	default:
		return c.resourceCmd(name, strings.Join(args, " "))
	}
}

// defaultCmd opens the screen saved for the profile, the dashboard
// otherwise.
func (c *Command) defaultCmd() error {
	name := data.DefaultView
	if cfg := c.app.opts.Config.Absensi.ActiveConfig(); cfg != nil {
		if ctx := cfg.GetContext(); ctx != nil {
			name = ctx.GetView().Active
		}
	}
	if name == "" || !isMainScreen(name) {
		name = cmdDashboard
	}
	if err := c.Run(name); err != nil {
		return c.Run(cmdDashboard)
	}
	return nil
}

// resourceCmd navigates to a resource table.
func (c *Command) resourceCmd(name, search string) error {
	rid, err := dao.ResourceFor(name)
	if err != nil {
		return err
	}
	v, err := c.resourceView(rid)
	if err != nil {
		return err
	}
	if search != "" {
		v.Search(search)
	}
	if err := c.app.Inject(v, true); err != nil {
		return err
	}
	c.app.Flash().Infof("Viewing %s...", rid.Title)

	return nil
}

type resourceComponent interface {
	ui.Component
	Searchable
}

func (c *Command) resourceView(rid dao.ResourceID) (resourceComponent, error) {
	f := c.app.opts.Factory
	switch rid.Name {
	case dao.UsersRID.Name:
		return NewTableView(c.app, f.Users(), render.User{}), nil
	case dao.RolesRID.Name:
		return NewTableView(c.app, f.Roles(), render.Role{}), nil
	case dao.DivisionsRID.Name:
		return NewTableView(c.app, f.Divisions(), render.Division{}), nil
	case dao.AttendanceRID.Name:
		return NewAttendanceView(c.app), nil
	default:
		return nil, fmt.Errorf("%w: %s", dao.ErrUnknownResource, rid.Name)
	}
}

// parseCommand parses a command string into command name and arguments.
func (c *Command) parseCommand(cmd string) (string, []string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "", nil
	}

	return parts[0], parts[1:]
}
