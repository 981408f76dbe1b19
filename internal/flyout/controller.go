package flyout

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrDuplicatePanel is returned when two paths derive the same id.
	ErrDuplicatePanel = errors.New("duplicate flyout panel")
	// ErrUnknownPanel is returned for an id that was never registered.
	ErrUnknownPanel = errors.New("unknown flyout panel")
)

// Visibility is the state of one panel.
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

func (v Visibility) String() string {
	if v == Visible {
		return "visible"
	}
	return "hidden"
}

// Change describes one panel transition.
type Change struct {
	ID         string     `json:"id"`
	Path       MenuPath   `json:"path"`
	Visibility Visibility `json:"-"`
	Visible    bool       `json:"visible"`
}

type panel struct {
	path  MenuPath
	state Visibility
}

// Controller owns the visibility of every registered panel. Showing a
// panel does not hide the others. Safe for concurrent use.
type Controller struct {
	mu          sync.Mutex
	panels      map[string]*panel
	subscribers []func(Change)
}

// NewController returns a controller with no panels.
func NewController() *Controller {
	return &Controller{panels: make(map[string]*panel)}
}

// Register adds a hidden panel for path.
func (c *Controller) Register(path MenuPath) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := path.ID()
	if existing, ok := c.panels[id]; ok {
		return fmt.Errorf("registering %q: %w (id %s already used by %q)", path, ErrDuplicatePanel, id, existing.path)
	}
	c.panels[id] = &panel{path: path, state: Hidden}
	return nil
}

// Show makes the panel derived from path visible.
func (c *Controller) Show(path MenuPath) error {
	return c.set(path.ID(), Visible)
}

// Hide hides the panel with the given id.
func (c *Controller) Hide(id string) error {
	return c.set(id, Hidden)
}

// Back hides the panel and shows its parent. It does nothing for the root
// panel, which has no back affordance.
func (c *Controller) Back(id string) error {
	c.mu.Lock()
	p, ok := c.panels[id]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("back from %s: %w", id, ErrUnknownPanel)
	}
	if p.path.IsRoot() {
		return nil
	}
	if err := c.set(id, Hidden); err != nil {
		return err
	}
	return c.Show(p.path.Parent())
}

// ClickOutside handles a click on a panel's overlay outside its content.
func (c *Controller) ClickOutside(id string) error {
	return c.Hide(id)
}

// State returns the visibility of a panel.
func (c *Controller) State(id string) (Visibility, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.panels[id]
	if !ok {
		return Hidden, fmt.Errorf("state of %s: %w", id, ErrUnknownPanel)
	}
	return p.state, nil
}

// Visible returns the ids of visible panels, sorted.
func (c *Controller) Visible() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for id, p := range c.panels {
		if p.state == Visible {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Paths returns the registered paths ordered by id.
func (c *Controller) Paths() []MenuPath {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.panels))
	for id := range c.panels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]MenuPath, len(ids))
	for i, id := range ids {
		out[i] = c.panels[id].path
	}
	return out
}

// Subscribe registers fn to be called after every state change. fn runs
// on the goroutine that made the change and must not call back into the
// controller synchronously.
func (c *Controller) Subscribe(fn func(Change)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Controller) set(id string, v Visibility) error {
	c.mu.Lock()
	p, ok := c.panels[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("setting %s %s: %w", id, v, ErrUnknownPanel)
	}
	if p.state == v {
		c.mu.Unlock()
		return nil
	}
	p.state = v
	change := Change{ID: id, Path: p.path, Visibility: v, Visible: v == Visible}
	subs := append([]func(Change){}, c.subscribers...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
	return nil
}
