package live

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/saxonthune/carta-sub006/pkg/canvas"
	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/interact"
)

// CanvasFactory builds a fresh canvas for a new session. Sessions never
// share controllers; each gets its own viewport and drag state over the
// shared document.
type CanvasFactory func() *canvas.Canvas

// Server accepts websocket connections and runs one canvas session per
// client.
type Server struct {
	upgrader websocket.Upgrader
	factory  CanvasFactory
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewServer creates a live canvas server.
func NewServer(factory CanvasFactory) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		factory:  factory,
		sessions: make(map[string]*Session),
	}
}

// HandleWebSocket upgrades the connection and starts a session. The
// session id comes from the "session" query parameter, or is generated.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Live] upgrade failed: %v", err)
		return
	}

	session := &Session{
		ID:        sessionID,
		conn:      conn,
		canvas:    s.factory(),
		sendChan:  make(chan []byte, 256),
		closeChan: make(chan struct{}),
	}

	s.mu.Lock()
	if old, exists := s.sessions[sessionID]; exists {
		old.close()
	}
	s.sessions[sessionID] = session
	s.mu.Unlock()

	go session.run(func() {
		s.mu.Lock()
		if s.sessions[sessionID] == session {
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()
	})
}

// Session returns a live session by id.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Broadcast pushes a fresh frame to every connected session, e.g. after
// the underlying document file was reloaded.
func (s *Server) Broadcast() {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	for _, session := range sessions {
		session.sendFrame()
	}
}

// Session is one websocket client driving one canvas.
type Session struct {
	ID     string
	conn   *websocket.Conn
	canvas *canvas.Canvas

	// canvasMu serializes every touch of the canvas: the engine is
	// single-threaded by contract, and both the reader goroutine and
	// broadcast-triggered refreshes reach it.
	canvasMu sync.Mutex

	sendChan  chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
}

// close tears the session down exactly once, cancelling any live drag so
// captured listeners are released even on abnormal termination.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.canvasMu.Lock()
		s.canvas.Teardown()
		s.canvasMu.Unlock()
		s.conn.Close()
		close(s.closeChan)
	})
}

// run services the connection until it drops.
func (s *Session) run(onExit func()) {
	defer onExit()
	defer s.close()

	go s.writer()

	s.sendControl("HELLO")
	s.sendFrame()

	s.conn.SetReadLimit(128 * 1024)
	s.conn.SetReadDeadline(time.Now().Add(300 * time.Second))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(300 * time.Second))
		return nil
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Live %s] unexpected close: %v", s.ID, err)
			}
			return
		}
		if messageType != websocket.BinaryMessage || len(data) == 0 {
			continue
		}
		s.handleBinary(data)
	}
}

// writer drains the send channel onto the socket and keeps the connection
// alive with pings.
func (s *Session) writer() {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.sendChan:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[Live %s] write failed: %v", s.ID, err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.closeChan:
			return
		}
	}
}

func (s *Session) handleBinary(data []byte) {
	switch MessageType(data[0]) {
	case FrameEvent:
		evt, err := DecodeEvent(bytes.NewReader(data))
		if err != nil {
			log.Printf("[Live %s] bad event frame: %v", s.ID, err)
			return
		}
		s.Apply(*evt)
		s.sendFrame()

	case FrameControl:
		d := NewDecoder(bytes.NewReader(data[1:]))
		msg, err := d.ReadString()
		if err != nil {
			log.Printf("[Live %s] bad control frame: %v", s.ID, err)
			return
		}
		if msg == "PING" {
			s.sendControl("PONG")
		}
	}
}

// Apply routes one event into the canvas.
func (s *Session) Apply(evt Event) {
	s.canvasMu.Lock()
	defer s.canvasMu.Unlock()
	c := s.canvas
	switch evt.Type {
	case EventPointerDown:
		// An uncaptured press belongs to pan; the client sends that
		// motion as EventPan deltas, so the result is not needed here.
		c.PointerDown(pointerFrom(evt))
	case EventPointerMove:
		c.PointerMove(pointerFrom(evt))
	case EventPointerUp:
		c.PointerUp(pointerFrom(evt))
	case EventWheel:
		c.Wheel(evt.Factor, geom.Point{X: evt.X, Y: evt.Y})
	case EventPan:
		c.Pan(evt.X, evt.Y)
	case EventFitView:
		c.FitView()
	case EventCollapse:
		c.Document().SetCollapsed(evt.Text, true)
	case EventExpand:
		c.Document().SetCollapsed(evt.Text, false)
	case EventSearch:
		c.SetQuery(evt.Text)
	case EventClearSelect:
		c.BoxSelect.Clear()
	default:
		log.Printf("[Live %s] unknown event type %#x", s.ID, evt.Type)
	}
}

func pointerFrom(evt Event) interact.Pointer {
	return interact.Pointer{
		Position: geom.Point{X: evt.X, Y: evt.Y},
		Button:   interact.Button(evt.Button),
		Shift:    evt.Shift,
	}
}

// sendFrame encodes the current canvas frame and queues it, dropping the
// frame when the client cannot keep up; the next event produces a fresh
// one anyway.
func (s *Session) sendFrame() {
	s.canvasMu.Lock()
	frame := encodeFrame(s.canvas.Frame())
	s.canvasMu.Unlock()
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("[Live %s] frame encode failed: %v", s.ID, err)
		return
	}
	select {
	case s.sendChan <- data:
	default:
		log.Printf("[Live %s] send buffer full, dropping frame", s.ID)
	}
}

func (s *Session) sendControl(msg string) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	e.WriteBytes([]byte{byte(FrameControl)})
	e.WriteString(msg)
	select {
	case s.sendChan <- buf.Bytes():
	default:
	}
}

// encodeFrame flattens a canvas frame into its wire shape.
func encodeFrame(f canvas.Frame) wireFrame {
	out := wireFrame{
		Transform: wireTransform{X: f.Transform.X, Y: f.Transform.Y, K: f.Transform.K},
		Detail:    uint8(f.Detail),
	}

	for _, p := range f.Nodes {
		kind := "leaf"
		if _, isGroup := p.Node.(*document.GroupNode); isGroup {
			kind = "group"
		}
		r := p.Node.Rect()
		_, selected := f.Selection[p.Node.NodeID()]
		out.Nodes = append(out.Nodes, wireNode{
			ID:       p.Node.NodeID(),
			Kind:     kind,
			Rect:     wireRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
			Hidden:   p.Hidden,
			Dimmed:   p.Dimmed,
			Renaming: p.Renaming,
			Match:    p.Match,
			Selected: selected,
		})
	}

	for _, e := range f.Edges {
		out.Edges = append(out.Edges, wireEdge{
			ID:       e.Edge.ID,
			Source:   e.Source,
			Target:   e.Target,
			Remapped: e.Remapped,
		})
	}

	for id := range f.Selection {
		out.Selection = append(out.Selection, id)
	}
	if f.SelectBox != nil {
		out.SelectBox = &wireRect{X: f.SelectBox.X, Y: f.SelectBox.Y, Width: f.SelectBox.Width, Height: f.SelectBox.Height}
	}
	if f.Hint.Message != "" {
		out.Hint = &wireHint{Kind: uint8(f.Hint.Kind), Message: f.Hint.Message}
	}
	if len(f.GroupBounds) > 0 {
		out.Groups = make(map[string]wireRect, len(f.GroupBounds))
		for id, r := range f.GroupBounds {
			out.Groups[id] = wireRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
		}
	}
	return out
}
