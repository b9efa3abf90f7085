package model

import "sync"

// Component is a screen of the application.
type Component interface {
	Name() string
	Start()
	Stop()
}

// StackListener listens to screen stack changes.
type StackListener interface {
	StackPushed(Component)
	StackPopped(old, top Component)
	StackTop(Component)
}

// Stack tracks the screens a user navigated through. Only the top screen
// is started.
type Stack struct {
	components []Component
	listeners  []StackListener
	mx         sync.RWMutex
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// AddListener registers a listener and tells it about the current top.
func (s *Stack) AddListener(l StackListener) {
	s.mx.Lock()
	s.listeners = append(s.listeners, l)
	s.mx.Unlock()

	if top := s.Top(); top != nil {
		l.StackTop(top)
	}
}

// RemoveListener unregisters a listener.
func (s *Stack) RemoveListener(l StackListener) {
	s.mx.Lock()
	defer s.mx.Unlock()

	for i, lis := range s.listeners {
		if lis == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Push stops the current top and starts c on top of it.
func (s *Stack) Push(c Component) {
	if top := s.Top(); top != nil {
		top.Stop()
	}

	s.mx.Lock()
	s.components = append(s.components, c)
	ll := s.snapshotLocked()
	s.mx.Unlock()

	c.Start()
	for _, l := range ll {
		l.StackPushed(c)
		l.StackTop(c)
	}
}

// Pop stops and removes the top screen, restarting the one below.
func (s *Stack) Pop() (Component, bool) {
	s.mx.Lock()
	if len(s.components) == 0 {
		s.mx.Unlock()
		return nil, false
	}
	c := s.components[len(s.components)-1]
	s.components = s.components[:len(s.components)-1]
	ll := s.snapshotLocked()
	s.mx.Unlock()

	c.Stop()
	top := s.Top()
	if top != nil {
		top.Start()
	}
	for _, l := range ll {
		l.StackPopped(c, top)
		if top != nil {
			l.StackTop(top)
		}
	}

	return c, true
}

// Replace swaps the top screen for c. Listeners see the old top popped
// before c is pushed.
func (s *Stack) Replace(c Component) {
	s.mx.Lock()
	var old Component
	if n := len(s.components); n > 0 {
		old = s.components[n-1]
		s.components = s.components[:n-1]
	}
	ll := s.snapshotLocked()
	s.mx.Unlock()

	if old != nil {
		old.Stop()
		top := s.Top()
		for _, l := range ll {
			l.StackPopped(old, top)
		}
	}
	s.Push(c)
}

// Top returns the top screen or nil.
func (s *Stack) Top() Component {
	s.mx.RLock()
	defer s.mx.RUnlock()

	if len(s.components) == 0 {
		return nil
	}
	return s.components[len(s.components)-1]
}

// Empty returns true if no screen was pushed.
func (s *Stack) Empty() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return len(s.components) == 0
}

// IsLast returns true when a single screen remains.
func (s *Stack) IsLast() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return len(s.components) == 1
}

// Clear pops every screen.
func (s *Stack) Clear() {
	for {
		if _, ok := s.Pop(); !ok {
			return
		}
	}
}

// Flatten returns the screen names, bottom first.
func (s *Stack) Flatten() []string {
	s.mx.RLock()
	defer s.mx.RUnlock()

	ss := make([]string, len(s.components))
	for i, c := range s.components {
		ss[i] = c.Name()
	}
	return ss
}

func (s *Stack) snapshotLocked() []StackListener {
	ll := make([]StackListener, len(s.listeners))
	copy(ll, s.listeners)
	return ll
}
