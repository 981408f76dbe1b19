package searchbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/suggest"
)

// DefaultBlurGrace is how long the panel stays open after the input
// loses focus.
const DefaultBlurGrace = 200 * time.Millisecond

// Keys understood by Key.
const (
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
	KeyEnter     = "Enter"
)

// ErrNoSuchRow is returned by Select for an index outside the list.
var ErrNoSuchRow = errors.New("no such suggestion")

// State is the search box state.
type State int

const (
	Idle State = iota
	SuggestionsOpen
	SuggestionSelected
)

func (s State) String() string {
	switch s {
	case SuggestionsOpen:
		return "suggestions_open"
	case SuggestionSelected:
		return "suggestion_selected"
	default:
		return "idle"
	}
}

// Navigator sends the visitor to another page.
type Navigator interface {
	Navigate(location string)
}

// Reporter shows a recoverable error to the visitor.
type Reporter interface {
	Report(err error)
}

// View is a snapshot of the search box for rendering.
type View struct {
	Input  string        `json:"input"`
	State  string        `json:"state"`
	Open   bool          `json:"open"`
	Cursor int           `json:"cursor"`
	Rows   []suggest.Row `json:"rows"`
	HTML   string        `json:"html"`
}

// Options tunes a Controller.
type Options struct {
	SearchPage string
	BlurGrace  time.Duration
	Now        func() time.Time
}

// Controller is the state machine of one search box. Its cursor indexes
// the selectable rows and is -1 when nothing is highlighted.
type Controller struct {
	submitter Submitter
	session   session.Session
	nav       Navigator
	reporter  Reporter
	grace     time.Duration

	mu         sync.Mutex
	input      string
	rows       []suggest.Row
	cursor     int
	state      State
	open       bool
	focused    bool
	cause      string
	generation uint64
	blurSeq    uint64
	blurTimer  *time.Timer
	listeners  []func(View)
}

// New creates a controller for one search box.
func New(searcher Searcher, sess session.Session, nav Navigator, reporter Reporter, opts Options) *Controller {
	if opts.BlurGrace <= 0 {
		opts.BlurGrace = DefaultBlurGrace
	}
	return &Controller{
		submitter: Submitter{Searcher: searcher, SearchPage: opts.SearchPage, Now: opts.Now},
		session:   sess,
		nav:       nav,
		reporter:  reporter,
		grace:     opts.BlurGrace,
		cursor:    -1,
	}
}

// OnChange registers fn to receive a View after every change.
func (c *Controller) OnChange(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Focus opens the panel and rebuilds the suggestions.
func (c *Controller) Focus(ctx context.Context) {
	c.mu.Lock()
	c.focused = true
	c.stopBlurLocked()
	c.mu.Unlock()
	c.refresh(ctx)
}

// Input replaces the input text and rebuilds the suggestions.
func (c *Controller) Input(ctx context.Context, text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
	c.refresh(ctx)
}

// Key handles a key press in the input. Unknown keys are ignored.
func (c *Controller) Key(ctx context.Context, key string) error {
	switch key {
	case KeyArrowDown, KeyArrowUp:
		c.move(key == KeyArrowDown)
		return nil
	case KeyEnter:
		c.mu.Lock()
		cause := c.cause
		c.mu.Unlock()
		return c.submit(ctx, cause)
	}
	return nil
}

// Blur closes the panel once the grace period passes, unless the input
// regains focus first.
func (c *Controller) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focused = false
	c.blurSeq++
	seq := c.blurSeq
	c.stopBlurLocked()
	c.blurTimer = time.AfterFunc(c.grace, func() {
		c.mu.Lock()
		if c.focused || c.blurSeq != seq {
			c.mu.Unlock()
			return
		}
		c.open = false
		c.state = Idle
		c.mu.Unlock()
		c.notify()
	})
}

// Clear blanks the input, refocuses it and rebuilds the list.
func (c *Controller) Clear(ctx context.Context) {
	c.mu.Lock()
	c.input = ""
	c.focused = true
	c.stopBlurLocked()
	c.mu.Unlock()
	c.refresh(ctx)
}

// Select chooses the selectable row at index: the input takes its text
// and the search is submitted with the row's attribution cause.
func (c *Controller) Select(ctx context.Context, index int) error {
	c.mu.Lock()
	sel := suggest.Selectable(c.rows)
	if index < 0 || index >= len(sel) {
		c.mu.Unlock()
		return fmt.Errorf("selecting row %d of %d: %w", index, len(sel), ErrNoSuchRow)
	}
	row := sel[index]
	c.input = row.Text
	c.focused = true
	c.stopBlurLocked()
	c.mu.Unlock()
	return c.submit(ctx, row.Cause)
}

// ClearRecent empties the recent searches, rebuilds the list and
// refocuses the input.
func (c *Controller) ClearRecent(ctx context.Context) error {
	if err := c.session.Recent().Clear(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.focused = true
	c.stopBlurLocked()
	c.mu.Unlock()
	c.refresh(ctx)
	return nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Close stops any pending blur timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopBlurLocked()
}

func (c *Controller) refresh(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	query := c.input
	c.mu.Unlock()

	sc := session.SearchContext(ctx, c.session, c.submitter.now())
	suggestions, err := c.submitter.Searcher.FetchSuggestions(ctx, query, sc)
	recents := c.session.Recent().Get(ctx)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		logging.FromContext(ctx).V(1).Info("discarding stale suggestions", "query", query)
		return
	}
	if err != nil {
		logging.FromContext(ctx).Info("suggestion fetch failed", "query", query, "error", err.Error())
	} else {
		c.rows = suggest.Render(query, recents, suggestions)
	}
	c.cursor = -1
	c.cause = ""
	c.open = true
	c.state = SuggestionsOpen
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) move(down bool) {
	c.mu.Lock()
	sel := suggest.Selectable(c.rows)
	n := len(sel)
	if n == 0 {
		c.mu.Unlock()
		return
	}
	switch {
	case down && c.cursor < n-1:
		c.cursor++
	case down:
		c.cursor = 0
	case c.cursor > 0:
		c.cursor--
	default:
		c.cursor = n - 1
	}
	row := sel[c.cursor]
	c.input = row.Text
	c.cause = row.Cause
	c.state = SuggestionSelected
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) submit(ctx context.Context, cause string) error {
	c.mu.Lock()
	term := c.input
	c.mu.Unlock()

	out, err := c.submitter.Submit(ctx, c.session, term, cause)
	if err != nil {
		logging.FromContext(ctx).Error(err, "search submission failed")
		if c.reporter != nil {
			c.reporter.Report(err)
		}
		return err
	}
	c.nav.Navigate(out.Location)
	return nil
}

func (c *Controller) stopBlurLocked() {
	if c.blurTimer != nil {
		c.blurTimer.Stop()
		c.blurTimer = nil
	}
}

func (c *Controller) viewLocked() View {
	rows := append([]suggest.Row(nil), c.rows...)
	return View{
		Input:  c.input,
		State:  c.state.String(),
		Open:   c.open,
		Cursor: c.cursor,
		Rows:   rows,
		HTML:   suggest.RenderPanel(suggest.Panel{Rows: rows, Selected: c.cursor}),
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	v := c.viewLocked()
	listeners := append([]func(View){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(v)
	}
}
