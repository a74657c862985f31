package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/saxonthune/carta-sub006/pkg/canvas"
	"github.com/saxonthune/carta-sub006/pkg/document"
	"github.com/saxonthune/carta-sub006/pkg/geom"
	"github.com/saxonthune/carta-sub006/pkg/pipeline"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimmedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	groupStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("103"))
	edgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	helpStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("103")).
			Padding(1, 2)
)

// cell paint classes, lowest wins on overlap
const (
	paintNone = iota
	paintEdge
	paintGroup
	paintDimmed
	paintNormal
	paintMatch
	paintSelected
)

var paintStyles = map[int]lipgloss.Style{
	paintEdge:     edgeStyle,
	paintGroup:    groupStyle,
	paintDimmed:   dimmedStyle,
	paintNormal:   normalStyle,
	paintMatch:    matchStyle,
	paintSelected: selectedStyle,
}

// grid is the character canvas one View pass draws into.
type grid struct {
	w, h  int
	runes []rune
	paint []int
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, runes: make([]rune, w*h), paint: make([]int, w*h)}
	for i := range g.runes {
		g.runes[i] = ' '
	}
	return g
}

func (g *grid) set(x, y int, r rune, paint int) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	i := y*g.w + x
	if paint < g.paint[i] {
		return
	}
	g.runes[i] = r
	g.paint[i] = paint
}

// box draws a rectangle border with an optional label on the top edge.
func (g *grid) box(x0, y0, x1, y1 int, label string, paint int) {
	if x1 <= x0 || y1 <= y0 {
		g.set(x0, y0, '▪', paint)
		return
	}
	for x := x0 + 1; x < x1; x++ {
		g.set(x, y0, '─', paint)
		g.set(x, y1, '─', paint)
	}
	for y := y0 + 1; y < y1; y++ {
		g.set(x0, y, '│', paint)
		g.set(x1, y, '│', paint)
	}
	g.set(x0, y0, '┌', paint)
	g.set(x1, y0, '┐', paint)
	g.set(x0, y1, '└', paint)
	g.set(x1, y1, '┘', paint)

	if label != "" {
		max := x1 - x0 - 1
		if max > 0 {
			// Truncate by rune, not byte: labels can carry multibyte text.
			runes := []rune(label)
			if len(runes) > max {
				runes = runes[:max]
			}
			for i, r := range runes {
				g.set(x0+1+i, y0, r, paint)
			}
		}
	}
}

// line draws a dotted segment between two screen points.
func (g *grid) line(a, b geom.Point, paint int) {
	steps := int(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y)))
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(a.X + (b.X-a.X)*t))
		y := int(math.Round(a.Y + (b.Y-a.Y)*t))
		g.set(x, y, '·', paint)
	}
}

// render joins the grid into styled terminal lines, batching runs of cells
// that share a paint class.
func (g *grid) render() string {
	var sb strings.Builder
	for y := 0; y < g.h; y++ {
		runStart := 0
		row := g.runes[y*g.w : (y+1)*g.w]
		paints := g.paint[y*g.w : (y+1)*g.w]
		for x := 1; x <= g.w; x++ {
			if x < g.w && paints[x] == paints[runStart] {
				continue
			}
			segment := string(row[runStart:x])
			if style, ok := paintStyles[paints[runStart]]; ok {
				sb.WriteString(style.Render(segment))
			} else {
				sb.WriteString(segment)
			}
			runStart = x
		}
		if y < g.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height < 2 {
		return "loading..."
	}

	frame := m.canvas.Frame()
	g := newGrid(m.width, m.height-1)

	for id, r := range frame.GroupBounds {
		x0, y0 := m.project(geom.Point{X: r.X, Y: r.Y}, frame)
		x1, y1 := m.project(geom.Point{X: r.MaxX(), Y: r.MaxY()}, frame)
		g.box(x0, y0, x1, y1, " "+id+" ", paintGroup)
	}

	for _, e := range frame.Edges {
		from := frame.Transform.Apply(e.From)
		to := frame.Transform.Apply(e.To)
		g.line(from, to, paintEdge)
	}
	if f := frame.Floating; f != nil {
		g.line(f.From, f.To, paintEdge)
	}

	hasQuery := m.search.Value() != ""
	for _, p := range frame.Nodes {
		if p.Hidden {
			continue
		}
		m.drawNode(g, p.Node, nodePaint(p, frame.Selection, hasQuery), frame)
	}

	if frame.SelectBox != nil {
		r := *frame.SelectBox
		x0, y0 := m.project(geom.Point{X: r.X, Y: r.Y}, frame)
		x1, y1 := m.project(geom.Point{X: r.MaxX(), Y: r.MaxY()}, frame)
		g.box(x0, y0, x1, y1, "", paintSelected)
	}

	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpView())
	}
	return g.render() + "\n" + m.statusBar(frame)
}

// nodePaint picks a node's paint class from its overlay state. With a
// search active, matches stand out and everything else recedes.
func nodePaint(p *pipeline.Presented, selection map[string]struct{}, hasQuery bool) int {
	if _, sel := selection[p.Node.NodeID()]; sel {
		return paintSelected
	}
	if p.Dimmed {
		return paintDimmed
	}
	if hasQuery {
		if p.Match {
			return paintMatch
		}
		return paintDimmed
	}
	return paintNormal
}

func (m Model) drawNode(g *grid, n document.Node, paint int, frame canvas.Frame) {
	r := n.Rect()
	x0, y0 := m.project(geom.Point{X: r.X, Y: r.Y}, frame)
	x1, y1 := m.project(geom.Point{X: r.MaxX(), Y: r.MaxY()}, frame)

	label := ""
	switch frame.Detail {
	case canvas.LODFull:
		if leaf, ok := n.(*document.LeafNode); ok && leaf.Type != "" {
			label = fmt.Sprintf(" %s:%s ", n.NodeID(), leaf.Type)
		} else {
			label = " " + n.NodeID() + " "
		}
	case canvas.LODCompact:
		label = " " + n.NodeID() + " "
	}
	g.box(x0, y0, x1, y1, label, paint)
}

// project maps a canvas point to grid cell coordinates.
func (m Model) project(p geom.Point, frame canvas.Frame) (int, int) {
	s := frame.Transform.Apply(p)
	return int(math.Round(s.X)), int(math.Round(s.Y))
}

func (m Model) statusBar(frame canvas.Frame) string {
	left := m.statusMessage
	if m.searching {
		left = m.search.View()
	}
	right := fmt.Sprintf("zoom %.0f%%  nodes %d  sel %d",
		frame.Transform.K*100, len(frame.Nodes), len(frame.Selection))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func helpView() string {
	rows := []string{
		"carta viewer",
		"",
		"mouse       drag nodes, draw connections, box-select",
		"right-drag  pan",
		"wheel       zoom at pointer",
		"↑↓←→ hjkl   pan",
		"+ / -       zoom",
		"f           fit view",
		"/           search (esc clears)",
		"c           collapse/expand selected groups",
		"esc         clear selection and search",
		"q           quit",
	}
	return helpStyle.Render(strings.Join(rows, "\n"))
}
