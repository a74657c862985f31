// Package ui implements the terminal diagram viewer. The terminal grid is
// the screen plane: one cell is one screen unit, so the viewport transform
// maps canvas coordinates straight to cells.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saxonthune/carta-sub006/internal/config"
	"github.com/saxonthune/carta-sub006/pkg/canvas"
	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/viewport"
)

// Model is the TUI application state.
type Model struct {
	// Window dimensions
	width  int
	height int

	canvas *canvas.Canvas

	// Search input shown in the status row while searching
	search    textinput.Model
	searching bool

	// Right-button pan drag state
	panning bool
	lastPan geom.Point

	// Whether a primary press was captured by an interaction; uncaptured
	// primary drags fall through to pan as well.
	captured bool

	statusMessage string
	showHelp      bool
	quitting      bool
}

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	FitView  key.Binding
	Search   key.Binding
	Collapse key.Binding
	Clear    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "pan up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "pan down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "pan left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "pan right"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	FitView: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit view"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "toggle group collapse"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear selection/search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModel creates the viewer over a loaded document.
func NewModel(doc *document.Document, cfg *config.Config) Model {
	search := textinput.New()
	search.Placeholder = "search nodes..."
	search.CharLimit = 64
	search.Width = 32

	return Model{
		canvas: canvas.New(doc, canvas.Options{
			Viewport: &viewport.Options{
				MinZoom: cfg.Viewport.MinZoom,
				MaxZoom: cfg.Viewport.MaxZoom,
			},
			CurveCap: cfg.Canvas.CurveCap,
		}),
		search:        search,
		statusMessage: "press ? for help",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The bottom row is the status bar; everything above is canvas.
		m.canvas.Viewport.SetSize(float64(msg.Width), float64(msg.Height-1))
		if msg.Width > 0 {
			m.canvas.FitView()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}
