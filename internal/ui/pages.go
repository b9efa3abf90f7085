// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package ui

import (
	"fmt"

	"github.com/absensi/absensi/internal/model"
	"github.com/derailed/tview"
)

// Pages shows the top screen of the application stack along with the
// modal dialogs layered over it.
type Pages struct {
	*tview.Pages
}

// NewPages returns a new pages manager.
func NewPages() *Pages {
	return &Pages{Pages: tview.NewPages()}
}

// Current returns the front screen.
func (p *Pages) Current() tview.Primitive {
	_, prim := p.GetFrontPage()
	return prim
}

// Show layers a modal over the current screen.
func (p *Pages) Show(name string, prim tview.Primitive) {
	p.AddPage(name, prim, true, true)
}

// Dismiss removes a modal.
func (p *Pages) Dismiss(name string) {
	if p.HasPage(name) {
		p.RemovePage(name)
	}
}

// StackPushed adds the screen and brings it to the front.
func (p *Pages) StackPushed(c model.Component) {
	prim, ok := c.(tview.Primitive)
	if !ok {
		return
	}
	p.AddPage(pageKey(c), prim, true, true)
}

// StackPopped drops the old screen and shows the new top.
func (p *Pages) StackPopped(old, top model.Component) {
	p.RemovePage(pageKey(old))
	if top != nil {
		p.SwitchToPage(pageKey(top))
	}
}

// StackTop makes sure the top screen is in front.
func (p *Pages) StackTop(top model.Component) {
	if top == nil {
		return
	}
	if !p.HasPage(pageKey(top)) {
		p.StackPushed(top)
		return
	}
	p.SwitchToPage(pageKey(top))
}

func pageKey(c model.Component) string {
	return fmt.Sprintf("%s-%p", c.Name(), c)
}
