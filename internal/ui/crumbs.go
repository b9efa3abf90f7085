// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package ui

import (
	"strings"

	"github.com/absensi/absensi/internal/model"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Crumbs shows the path of screens from the bottom of the stack to the top.
type Crumbs struct {
	*tview.TextView

	stack *model.Stack
}

// NewCrumbs returns a breadcrumb view of the given stack.
func NewCrumbs(s *model.Stack) *Crumbs {
	c := Crumbs{
		TextView: tview.NewTextView(),
		stack:    s,
	}
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetBorderPadding(0, 0, 1, 1)
	c.SetDynamicColors(true)

	return &c
}

// StackPushed redraws the path.
func (c *Crumbs) StackPushed(model.Component) {
	c.SetText(crumbsText(c.stack.Flatten()))
}

// StackPopped redraws the path.
func (c *Crumbs) StackPopped(_, _ model.Component) {
	c.SetText(crumbsText(c.stack.Flatten()))
}

// StackTop is a no-op, push and pop already redraw.
func (*Crumbs) StackTop(model.Component) {}

// crumbsText highlights the last screen name.
func crumbsText(names []string) string {
	var b strings.Builder
	for i, n := range names {
		n = strings.ReplaceAll(strings.ToLower(n), " ", "")
		if i == len(names)-1 {
			b.WriteString("[black:aqua:b] <" + n + "> [-:-:-]")
			break
		}
		b.WriteString("[gray::-] <" + n + "> [-:-:-] ")
	}

	return b.String()
}
