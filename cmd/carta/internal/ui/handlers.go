package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/interact"
)

// panStep is the keyboard pan distance in cells.
const panStep = 4

// zoomStep is the wheel/keyboard zoom factor per tick.
const zoomStep = 1.2

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			if msg.Type == tea.KeyEsc {
				m.search.SetValue("")
				m.canvas.SetQuery("")
			}
			m.searching = false
			m.search.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.canvas.SetQuery(m.search.Value())
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, DefaultKeyMap.Quit):
		m.quitting = true
		m.canvas.Teardown()
		return m, tea.Quit

	case key.Matches(msg, DefaultKeyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, DefaultKeyMap.Search):
		m.searching = true
		m.search.Focus()
		return m, nil

	case key.Matches(msg, DefaultKeyMap.Clear):
		m.canvas.BoxSelect.Clear()
		m.search.SetValue("")
		m.canvas.SetQuery("")
		m.statusMessage = ""
		return m, nil

	case key.Matches(msg, DefaultKeyMap.FitView):
		m.canvas.FitView()
		return m, nil

	case key.Matches(msg, DefaultKeyMap.ZoomIn):
		m.canvas.Wheel(zoomStep, m.viewCenter())
		return m, nil

	case key.Matches(msg, DefaultKeyMap.ZoomOut):
		m.canvas.Wheel(1/zoomStep, m.viewCenter())
		return m, nil

	case key.Matches(msg, DefaultKeyMap.Up):
		m.canvas.Pan(0, panStep)
		return m, nil
	case key.Matches(msg, DefaultKeyMap.Down):
		m.canvas.Pan(0, -panStep)
		return m, nil
	case key.Matches(msg, DefaultKeyMap.Left):
		m.canvas.Pan(panStep, 0)
		return m, nil
	case key.Matches(msg, DefaultKeyMap.Right):
		m.canvas.Pan(-panStep, 0)
		return m, nil

	case key.Matches(msg, DefaultKeyMap.Collapse):
		m.toggleSelectedGroups()
		return m, nil
	}

	return m, nil
}

// toggleSelectedGroups flips the collapsed flag of every selected group.
func (m *Model) toggleSelectedGroups() {
	doc := m.canvas.Document()
	selected := m.canvas.BoxSelect.Selected()
	toggled := 0
	for id := range selected {
		n, ok := doc.Node(id)
		if !ok {
			continue
		}
		if g, isGroup := n.(*document.GroupNode); isGroup {
			doc.SetCollapsed(id, !g.Collapsed)
			toggled++
		}
	}
	if toggled == 0 {
		m.statusMessage = "select a group first (drag on empty canvas)"
	} else {
		m.statusMessage = fmt.Sprintf("toggled %d group(s)", toggled)
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pos := geom.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.canvas.Wheel(zoomStep, pos)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.canvas.Wheel(1/zoomStep, pos)
			return m, nil
		case tea.MouseButtonLeft:
			m.captured = m.canvas.PointerDown(interact.Pointer{
				Position: pos,
				Button:   interact.ButtonPrimary,
				Shift:    msg.Shift,
			})
			if !m.captured {
				m.panning = true
				m.lastPan = pos
			}
			return m, nil
		case tea.MouseButtonRight, tea.MouseButtonMiddle:
			m.panning = true
			m.lastPan = pos
			return m, nil
		}

	case tea.MouseActionMotion:
		if m.panning {
			m.canvas.Pan(pos.X-m.lastPan.X, pos.Y-m.lastPan.Y)
			m.lastPan = pos
			return m, nil
		}
		if m.captured {
			m.canvas.PointerMove(interact.Pointer{
				Position: pos,
				Button:   interact.ButtonPrimary,
				Shift:    msg.Shift,
			})
			if h := m.canvas.Hint(); h.Message != "" {
				m.statusMessage = h.Message
			}
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.panning {
			m.panning = false
			return m, nil
		}
		if m.captured {
			m.canvas.PointerUp(interact.Pointer{
				Position: pos,
				Button:   interact.ButtonPrimary,
				Shift:    msg.Shift,
			})
			m.captured = false
			m.statusMessage = ""
		}
		return m, nil
	}

	return m, nil
}

// viewCenter returns the center of the canvas area in screen cells.
func (m Model) viewCenter() geom.Point {
	return geom.Point{X: float64(m.width) / 2, Y: float64(m.height-1) / 2}
}
