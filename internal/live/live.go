// Package live drives a search box and the header flyouts over a
// websocket. Each connection owns one searchbox.Controller and, when a
// navigation source is configured, one flyout.Controller.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/sitenav/internal/flyout"
	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/nav"
	"github.com/ziadkadry99/sitenav/internal/searchbox"
	"github.com/ziadkadry99/sitenav/internal/session"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Inbound message types.
const (
	MsgFocus        = "focus"
	MsgInput        = "input"
	MsgKey          = "key"
	MsgBlur         = "blur"
	MsgClear        = "clear"
	MsgSelect       = "select"
	MsgClearRecent  = "clear_recent"
	MsgFlyoutShow   = "flyout_show"
	MsgFlyoutHide   = "flyout_hide"
	MsgFlyoutBack   = "flyout_back"
	MsgClickOutside = "click_outside"
)

// Outbound message types.
const (
	MsgView     = "view"
	MsgNavigate = "navigate"
	MsgError    = "error"
	MsgFlyout   = "flyout"
)

// Request is an inbound websocket message.
type Request struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Key   string `json:"key,omitempty"`
	Index int    `json:"index,omitempty"`
	Path  string `json:"path,omitempty"`
	ID    string `json:"id,omitempty"`
}

// Response is an outbound websocket message.
type Response struct {
	Type     string          `json:"type"`
	View     *searchbox.View `json:"view,omitempty"`
	Location string          `json:"location,omitempty"`
	Error    string          `json:"error,omitempty"`
	Flyout   *flyout.Change  `json:"flyout,omitempty"`
}

// Deps are the collaborators of the live handler. Nav may be nil, in
// which case flyout messages are answered with an error.
type Deps struct {
	Searcher   searchbox.Searcher
	Store      storage.Store
	Nav        nav.Source
	SearchPage string
	BlurGrace  time.Duration
	Now        func() time.Time
}

// Handler upgrades requests to websockets.
type Handler struct {
	deps Deps
}

// NewHandler creates a live handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// conn serializes writes; gorilla connections allow one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(ctx context.Context, resp Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(resp); err != nil {
		logging.FromContext(ctx).V(1).Info("websocket write failed", "error", err.Error())
	}
}

type navigator struct {
	ctx  context.Context
	conn *conn
}

func (n navigator) Navigate(location string) {
	n.conn.send(n.ctx, Response{Type: MsgNavigate, Location: location})
}

func (n navigator) Report(err error) {
	n.conn.send(n.ctx, Response{Type: MsgError, Error: err.Error()})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	lgr := logging.FromContext(r.Context())
	sess := session.FromRequest(r, h.deps.Store)

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		lgr.Error(err, "websocket upgrade")
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &conn{ws: ws}
	nv := navigator{ctx: ctx, conn: c}
	box := searchbox.New(h.deps.Searcher, sess, nv, nv, searchbox.Options{
		SearchPage: h.deps.SearchPage,
		BlurGrace:  h.deps.BlurGrace,
		Now:        h.deps.Now,
	})
	defer box.Close()
	box.OnChange(func(v searchbox.View) {
		c.send(ctx, Response{Type: MsgView, View: &v})
	})

	flyouts := h.flyouts(ctx, sess)
	if flyouts != nil {
		flyouts.Subscribe(func(ch flyout.Change) {
			c.send(ctx, Response{Type: MsgFlyout, Flyout: &ch})
		})
	}

	s := &socket{box: box, flyouts: flyouts, conn: c}
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				lgr.Info("websocket read", "error", err.Error())
			}
			return
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			c.send(ctx, Response{Type: MsgError, Error: "invalid message format"})
			continue
		}
		if err := s.dispatch(ctx, req); err != nil {
			c.send(ctx, Response{Type: MsgError, Error: err.Error()})
		}
	}
}

func (h *Handler) flyouts(ctx context.Context, sess session.Session) *flyout.Controller {
	if h.deps.Nav == nil {
		return nil
	}
	header, err := h.deps.Nav.Assemble(ctx, sess, nav.PagePath(sess.Location()))
	if err != nil {
		return nil
	}
	ctrl, err := header.Flyouts()
	if err != nil {
		logging.FromContext(ctx).Info("duplicate flyout panels", "error", err.Error())
	}
	return ctrl
}

// ErrUnknownMessage is returned for an unrecognised message type.
var ErrUnknownMessage = errors.New("unknown message type")

// ErrNoNavigation is returned for flyout messages when no header is
// available for the connection.
var ErrNoNavigation = errors.New("navigation unavailable")

type socket struct {
	box     *searchbox.Controller
	flyouts *flyout.Controller
	conn    *conn
}

func (s *socket) dispatch(ctx context.Context, req Request) error {
	switch req.Type {
	case MsgFocus:
		s.box.Focus(ctx)
	case MsgInput:
		s.box.Input(ctx, req.Text)
	case MsgKey:
		// Submission failures reach the client through the reporter.
		_ = s.box.Key(ctx, req.Key)
	case MsgBlur:
		s.box.Blur()
	case MsgClear:
		s.box.Clear(ctx)
	case MsgSelect:
		if err := s.box.Select(ctx, req.Index); errors.Is(err, searchbox.ErrNoSuchRow) {
			return err
		}
	case MsgClearRecent:
		return s.box.ClearRecent(ctx)
	case MsgFlyoutShow, MsgFlyoutHide, MsgFlyoutBack, MsgClickOutside:
		return s.flyout(req)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, req.Type)
	}
	return nil
}

func (s *socket) flyout(req Request) error {
	if s.flyouts == nil {
		return ErrNoNavigation
	}
	switch req.Type {
	case MsgFlyoutShow:
		return s.flyouts.Show(flyout.MenuPath(req.Path))
	case MsgFlyoutHide:
		return s.flyouts.Hide(req.ID)
	case MsgFlyoutBack:
		return s.flyouts.Back(req.ID)
	default:
		return s.flyouts.ClickOutside(req.ID)
	}
}
