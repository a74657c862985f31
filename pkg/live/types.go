// Package live hosts canvases over websocket: pointer and control events
// stream in from a client, and render frames stream back out. It is
// transport only; interaction semantics live in pkg/canvas and document
// ownership stays with the host that created the server.
package live

// MessageType is the leading byte of a binary protocol frame.
type MessageType uint8

const (
	// FrameEvent carries a client pointer/keyboard event.
	FrameEvent MessageType = 0x01
	// FrameControl carries a control message (HELLO, PING, ...).
	FrameControl MessageType = 0x02
)

// EventType identifies a client canvas event.
type EventType uint8

const (
	EventPointerDown EventType = 0x01
	EventPointerMove EventType = 0x02
	EventPointerUp   EventType = 0x03
	EventWheel       EventType = 0x04
	EventPan         EventType = 0x05
	EventFitView     EventType = 0x06
	EventCollapse    EventType = 0x07
	EventExpand      EventType = 0x08
	EventSearch      EventType = 0x09
	EventClearSelect EventType = 0x0A
)

// Event is one decoded client event.
type Event struct {
	Type   EventType
	X      float64
	Y      float64
	Button uint8
	Shift  bool
	// Factor carries the zoom multiplier for EventWheel.
	Factor float64
	// Text carries the group id for collapse/expand and the query for
	// search.
	Text string
}

// wireFrame is the JSON shape of a rendered frame sent to the client.
type wireFrame struct {
	Transform wireTransform       `json:"transform"`
	Detail    uint8               `json:"detail"`
	Nodes     []wireNode          `json:"nodes"`
	Edges     []wireEdge          `json:"edges"`
	Selection []string            `json:"selection,omitempty"`
	SelectBox *wireRect           `json:"selectBox,omitempty"`
	Hint      *wireHint           `json:"hint,omitempty"`
	Groups    map[string]wireRect `json:"groups,omitempty"`
}

type wireTransform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

type wireRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type wireNode struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"` // "group" or "leaf"
	Rect     wireRect `json:"rect"`
	Hidden   bool     `json:"hidden,omitempty"`
	Dimmed   bool     `json:"dimmed,omitempty"`
	Renaming bool     `json:"renaming,omitempty"`
	Match    bool     `json:"match"`
	Selected bool     `json:"selected,omitempty"`
}

type wireEdge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Remapped bool   `json:"remapped,omitempty"`
}

type wireHint struct {
	Kind    uint8  `json:"kind"`
	Message string `json:"message,omitempty"`
}
