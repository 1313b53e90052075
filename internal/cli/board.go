package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/interact"
	"github.com/matzehuels/freeboard/pkg/layout"
	"github.com/matzehuels/freeboard/pkg/push"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Terminal cells are coarser than canvas units.
const (
	cellWidth  = 20 // canvas units per column
	cellHeight = 40 // canvas units per row
	nudgeStep  = 20 // canvas units per arrow key
)

var (
	boardHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	boardStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	boardFocusStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCyan).Padding(1, 2)
)

// boardCommand creates the board command, an interactive canvas editor.
func (c *CLI) boardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Edit the workspace interactively",
		Long: `Edit the workspace interactively.

  tab / shift+tab   select widget
  m                 start moving the selected widget
  r                 start resizing the selected widget
  arrows / hjkl     move the pointer while moving or resizing
  enter             drop the widget, or focus it when idle
  esc               cancel the gesture or leave focus
  space             run the widget's action
  x                 remove the widget
  q                 quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			m := newBoardModel(cmd.Context(), e.store, e.registry, e.cfg.Resolver(), c.Logger)
			defer m.close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// Presenter
// =============================================================================

// boardPresenter receives gesture feedback from the coordinator.
type boardPresenter struct {
	preview *interact.Preview
	status  string
	blocked bool
}

func (b *boardPresenter) ShowPreview(p interact.Preview) {
	b.preview = &p
	b.blocked = p.Blocked
	if p.Blocked {
		b.status = "no room here"
	} else {
		b.status = fmt.Sprintf("%s %s, pushing %d", p.Kind, p.Rect, len(p.Pushed))
	}
}

func (b *boardPresenter) Revert(map[string]geom.Rect) {
	b.preview = nil
	b.blocked = false
	b.status = "reverted"
}

func (b *boardPresenter) Commit(rects map[string]geom.Rect) {
	b.preview = nil
	b.blocked = false
	b.status = fmt.Sprintf("placed, %d widgets changed", len(rects))
}

// =============================================================================
// Model
// =============================================================================

type boardMode int

const (
	modeSelect boardMode = iota
	modeGesture
)

// boardModel is the bubbletea model of the interactive board.
type boardModel struct {
	ctx   context.Context
	store *layout.Store
	views *interact.Views
	focus *interact.Focus
	coord *interact.Coordinator
	pres  *boardPresenter

	cursor  int
	mode    boardMode
	pointer geom.Point
	width   int
	height  int
}

func newBoardModel(ctx context.Context, store *layout.Store, reg *widget.Registry, resolver *push.Resolver, logger *log.Logger) boardModel {
	pres := &boardPresenter{}
	views := interact.NewViews(reg, store, func(inst widget.Instance, focused bool) widget.Container {
		if focused {
			return widget.Container{Width: 56, Height: 16, Focused: true}
		}
		return widget.Container{Width: inst.Width/cellWidth - 2, Height: inst.Height/cellHeight - 2}
	}, logger)
	m := boardModel{
		ctx:   ctx,
		store: store,
		views: views,
		focus: interact.NewFocus(views),
		coord: interact.NewCoordinator(store, resolver, pres, logger),
		pres:  pres,
	}
	if skipped := views.Sync(ctx); len(skipped) > 0 {
		pres.status = fmt.Sprintf("skipped %d widgets of unknown type", len(skipped))
	}
	return m
}

// close leaves focus and unmounts every body.
func (m boardModel) close() {
	m.focus.Exit(m.ctx)
	m.views.Close()
}

func (m boardModel) selected() (widget.Instance, bool) {
	insts := m.store.Instances()
	if len(insts) == 0 {
		return widget.Instance{}, false
	}
	return insts[m.cursor%len(insts)], true
}

func (m boardModel) Init() tea.Cmd {
	return nil
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if m.mode == modeGesture {
			return m.updateGesture(msg)
		}
		if _, ok := m.focus.Focused(); ok {
			return m.updateFocus(msg)
		}
		return m.updateSelect(msg)
	}
	return m, nil
}

func (m boardModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.store.Instances())
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "n":
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case "shift+tab", "p":
		if n > 0 {
			m.cursor = (m.cursor + n - 1) % n
		}
	case "m", "r":
		inst, ok := m.selected()
		if !ok {
			return m, nil
		}
		// Press where a pointer would grab the widget: the header for a
		// move, the bottom-right handle for a resize.
		p := geom.Point{X: inst.X + 1, Y: inst.Y + 1}
		if msg.String() == "r" {
			p = geom.Point{X: inst.X + inst.Width - 1, Y: inst.Y + inst.Height - 1}
		}
		region, err := m.coord.Press(inst.InstanceID, p)
		if err != nil {
			m.pres.status = err.Error()
			return m, nil
		}
		if region == interact.RegionHeader || region == interact.RegionResize {
			m.mode, m.pointer = modeGesture, p
			m.pres.status = "use arrows, enter to drop, esc to cancel"
		}
	case "enter":
		if inst, ok := m.selected(); ok {
			if err := m.focus.Enter(m.ctx, inst.InstanceID); err != nil {
				m.pres.status = err.Error()
			}
		}
	case " ":
		if inst, ok := m.selected(); ok {
			m.activate(inst.InstanceID)
		}
	case "x":
		if inst, ok := m.selected(); ok {
			if err := m.store.RemoveInstance(m.ctx, inst.InstanceID); err != nil {
				m.pres.status = err.Error()
				return m, nil
			}
			m.views.Sync(m.ctx)
			m.pres.status = "removed " + inst.InstanceID
			if m.cursor > 0 && m.cursor >= n-1 {
				m.cursor--
			}
		}
	}
	return m, nil
}

func (m boardModel) updateGesture(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var delta geom.Vector
	switch msg.String() {
	case "left", "h":
		delta = geom.Vector{DX: -nudgeStep}
	case "right", "l":
		delta = geom.Vector{DX: nudgeStep}
	case "up", "k":
		delta = geom.Vector{DY: -nudgeStep}
	case "down", "j":
		delta = geom.Vector{DY: nudgeStep}
	case "enter":
		m.mode = modeSelect
		if _, err := m.coord.Release(m.ctx); err != nil {
			m.pres.status = err.Error()
		}
		m.views.Sync(m.ctx)
		return m, nil
	case "esc", "q", "ctrl+c":
		m.mode = modeSelect
		m.coord.Cancel()
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
	m.pointer = m.pointer.Add(delta)
	if _, err := m.coord.Move(m.pointer); err != nil {
		m.pres.status = err.Error()
	}
	return m, nil
}

func (m boardModel) updateFocus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.focus.Exit(m.ctx)
	case " ":
		id, _ := m.focus.Focused()
		body, _ := m.focus.Body()
		if a, ok := body.(widget.Activator); ok {
			a.Activate()
		} else {
			m.pres.status = id + " has no action"
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m boardModel) activate(id string) {
	if err := m.views.Activate(id); err != nil {
		m.pres.status = err.Error()
		return
	}
	m.pres.status = "activated " + id
}

// =============================================================================
// View
// =============================================================================

func (m boardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(StyleDim.Render(" · " + m.store.Layout().WorkspaceID))
	b.WriteString("\n\n")

	if id, ok := m.focus.Focused(); ok {
		out, _ := m.focus.Render()
		b.WriteString(StyleHighlight.Render(id))
		b.WriteString("\n")
		b.WriteString(boardFocusStyle.Render(strings.TrimRight(out, "\n")))
		b.WriteString("\n\n")
		b.WriteString(boardHelpStyle.Render("space action  esc back  q quit"))
		return b.String()
	}

	lines := drawCanvas(m.store.Canvas(), m.boxes())
	if m.height > 6 && len(lines) > m.height-6 {
		lines = lines[:m.height-6]
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	status := boardStatusStyle
	if m.pres.blocked {
		status = StyleWarning
	}
	b.WriteString(status.Render(m.pres.status))
	b.WriteString("\n")
	b.WriteString(boardHelpStyle.Render("tab select  m move  r resize  enter focus  space action  x remove  q quit"))
	return b.String()
}

// boxes returns what to draw: every instance at its current or previewed
// rectangle, with the selected one last so it is drawn on top.
func (m boardModel) boxes() []box {
	insts := m.store.Instances()
	var pv *interact.Preview
	if m.mode == modeGesture {
		pv = m.pres.preview
	}

	out := make([]box, 0, len(insts))
	var sel *box
	for i, inst := range insts {
		bx := box{rect: inst.Rect(), label: inst.WidgetID}
		if body, ok := m.views.Render(inst.InstanceID); ok {
			bx.body = body
		}
		if pv != nil {
			if inst.InstanceID == pv.InstanceID {
				bx.rect, bx.blocked = pv.Rect, pv.Blocked
			} else if r, ok := pv.Pushed[inst.InstanceID]; ok {
				bx.rect = r
			}
		}
		if i == m.cursor%len(insts) {
			bx.selected = true
			sel = &bx
			continue
		}
		out = append(out, bx)
	}
	if sel != nil {
		out = append(out, *sel)
	}
	return out
}

// =============================================================================
// Canvas Drawing
// =============================================================================

// box is one widget as drawn on the terminal grid.
type box struct {
	rect     geom.Rect
	label    string
	body     string
	selected bool
	blocked  bool
}

type borderRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	borderNormal   = borderRunes{'─', '│', '┌', '┐', '└', '┘'}
	borderSelected = borderRunes{'═', '║', '╔', '╗', '╚', '╝'}
	borderBlocked  = borderRunes{'-', '|', '+', '+', '+', '+'}
)

// drawCanvas renders boxes onto a grid of cellWidth x cellHeight cells. Later
// boxes are drawn over earlier ones. Trailing spaces are trimmed.
func drawCanvas(canvas geom.Canvas, boxes []box) []string {
	cols := canvas.Width / cellWidth
	rows := 0
	for _, bx := range boxes {
		rows = max(rows, (bx.rect.Bottom()-1)/cellHeight+1)
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}

	for _, bx := range boxes {
		x0, y0 := bx.rect.X/cellWidth, bx.rect.Y/cellHeight
		x1 := min((bx.rect.Right()-1)/cellWidth, cols-1)
		y1 := (bx.rect.Bottom() - 1) / cellHeight
		if x1-x0 < 2 || y1-y0 < 1 {
			continue
		}
		br := borderNormal
		switch {
		case bx.blocked:
			br = borderBlocked
		case bx.selected:
			br = borderSelected
		}

		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				grid[y][x] = ' '
			}
			grid[y][x0], grid[y][x1] = br.v, br.v
		}
		for x := x0; x <= x1; x++ {
			grid[y0][x], grid[y1][x] = br.h, br.h
		}
		grid[y0][x0], grid[y0][x1] = br.tl, br.tr
		grid[y1][x0], grid[y1][x1] = br.bl, br.br

		inner := x1 - x0 - 1
		writeClipped(grid[y0], x0+1, inner, bx.label)
		for i, line := range strings.Split(strings.TrimRight(bx.body, "\n"), "\n") {
			y := y0 + 1 + i
			if y >= y1 {
				break
			}
			writeClipped(grid[y], x0+1, inner, line)
		}
	}

	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return lines
}

func writeClipped(row []rune, at, width int, s string) {
	for i, r := range []rune(s) {
		if i >= width {
			return
		}
		row[at+i] = r
	}
}
