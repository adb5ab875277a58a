package main

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/thinkmap/pkg/geom"
	"github.com/ha1tch/thinkmap/pkg/shape"
	"github.com/ha1tch/thinkmap/pkg/think"
	"github.com/ha1tch/thinkmap/pkg/thought"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleMenu       = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleMenuHover  = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorNavy).Bold(true)
	styleMenuOff    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorGray)
	styleAction     = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorWhite).Bold(true)
	styleActionOver = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorTeal).Bold(true)
	styleSelection  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Flash timing for status messages: normal and inverted phases alternate
// every flashPhase milliseconds until flashPeriod.
const (
	flashPhase  = 125
	flashPeriod = 500
)

// flashInverted reports whether a message shown elapsed milliseconds ago
// is drawn inverted.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashPeriod {
		return false
	}
	phase := elapsed / flashPhase
	return phase == 1 || phase == 3
}

// flashes reports whether messages of this type flash when shown.
func (t MessageType) flashes() bool {
	switch t {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	}
	return false
}

var actionGlyphs = map[shape.ActionType]string{
	shape.ActionCreate:  "+",
	shape.ActionConnect: "~",
	shape.ActionDestroy: "x",
}

var menuGlyphs = map[shape.MenuItemType]string{
	shape.MenuClose:          "X",
	shape.MenuThoughtOptions: "=",
	shape.MenuSave:           "S",
	shape.MenuExport:         "E",
}

// rgb converts a theme colour to a terminal colour.
func rgb(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	if t := ed.ctx.Thought(); t != nil {
		theme := t.ThemeOrDefault()
		ed.drawBackground(w, h-2, theme)
		ed.drawSelection(w, h-2)

		nodes, conns, ok := ed.ctx.Culled()
		if !ok {
			nodes, conns = t.Nodes, t.Connections
		}
		for _, conn := range conns {
			ed.drawConnection(conn, w, h-2, theme)
		}
		for _, n := range nodes {
			ed.drawNode(n, w, h-2, theme)
		}
		ed.drawActions(w, h-2)
		ed.drawMenu(t)
	}

	if prompt, ok := ed.ctx.PendingConfirmation(); ok {
		ed.drawPromptBox(w, h, prompt, "y/n")
	} else if ed.mode == ModeInput {
		ed.drawPromptBox(w, h, ed.inputPrompt, string(ed.input)+"_")
	}
	ed.drawStatusBar(w, h)
}

// drawBackground fills the canvas with the theme gradient, one colour
// per row.
func (ed *Editor) drawBackground(w, rows int, theme thought.Theme) {
	top := theme.ColorOrBlack(theme.BackgroundTopColor)
	bottom := theme.ColorOrBlack(theme.BackgroundBottomColor)
	for y := 0; y < rows; y++ {
		f := 0.0
		if rows > 1 {
			f = float64(y) / float64(rows-1)
		}
		style := styleDefault.Background(rgb(thought.Gradient(top, bottom, f)))
		for x := 0; x < w; x++ {
			ed.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// cellRange returns the cells covering box, clipped to the canvas.
func (ed *Editor) cellRange(box geom.Rect, w, rows int) (x0, y0, x1, y1 int) {
	x0, y0 = ed.worldToCell(geom.Point{X: box.X, Y: box.Y})
	x1, y1 = ed.worldToCell(geom.Point{X: box.X + box.W, Y: box.Y + box.H})
	return max(x0, 0), max(y0, 0), min(x1, w-1), min(y1, rows-1)
}

// cellCenter returns the diagram point at the centre of a cell.
func (ed *Editor) cellCenter(x, y int) geom.Point {
	return ed.ctx.Viewport().ToAbsolute(ed.cellToCanvas(x, y))
}

// setBackground recolours a cell's background, keeping its content.
func (ed *Editor) setBackground(x, y int, c tcell.Color) {
	r, comb, style, _ := ed.screen.GetContent(x, y)
	ed.screen.SetContent(x, y, r, comb, style.Background(c))
}

func (ed *Editor) drawSelection(w, rows int) {
	n := ed.ctx.Selection().Node()
	if n == nil {
		return
	}
	r := ed.ctx.SelectionRadius()
	cw, _ := ed.cellSize()
	box := geom.Rect{X: n.X - r - cw, Y: n.Y - r - cw, W: 2 * (r + cw), H: 2 * (r + cw)}
	x0, y0, x1, y1 := ed.cellRange(box, w, rows)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := geom.Distance(ed.cellCenter(x, y), n.Center())
			if math.Abs(d-r) <= cw/2 {
				_, _, style, _ := ed.screen.GetContent(x, y)
				fg, _, _ := styleSelection.Decompose()
				ed.screen.SetContent(x, y, '·', nil, style.Foreground(fg))
			}
		}
	}
}

func (ed *Editor) drawConnection(conn *thought.Connection, w, rows int, theme thought.Theme) {
	ribbon := shape.ConnectionRibbon(conn, ed.ctx.Engine(), ed.opts.Shape())
	outline := ribbon.Outline()
	if len(outline) == 0 {
		return
	}
	x0, y0, x1, y1 := ed.cellRange(bounds(outline), w, rows)

	c := theme.ColorOrBlack(theme.ConnectionInnerColor)
	if ed.ctx.Hover.Connection == conn {
		c = thought.Lighten(c, 0.2)
	}
	bg := rgb(c)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if ribbon.Contains(ed.cellCenter(x, y)) {
				ed.setBackground(x, y, bg)
			}
		}
	}
}

// bounds returns the smallest rectangle holding pts.
func bounds(pts []geom.Point) geom.Rect {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return geom.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (ed *Editor) drawNode(n *thought.Node, w, rows int, theme thought.Theme) {
	e := ed.ctx.Engine()
	r := n.Radius(e)
	cw, ch := ed.cellSize()
	x0, y0, x1, y1 := ed.cellRange(geom.Rect{X: n.X - r, Y: n.Y - r, W: 2 * r, H: 2 * r}, w, rows)

	outer := theme.ColorOrBlack(theme.NodeOuterColor)
	inner := theme.ColorOrBlack(theme.NodeInnerColor)
	switch {
	case ed.ctx.ConnectStartingNode() == n:
		inner = thought.Lighten(inner, 0.35)
	case ed.ctx.Hover.Node == n, ed.ctx.DraggedNode() == n:
		inner = thought.Lighten(inner, 0.15)
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := geom.Distance(ed.cellCenter(x, y), n.Center())
			switch {
			case d <= r-cw:
				ed.setBackground(x, y, rgb(inner))
			case d <= r:
				ed.setBackground(x, y, rgb(outer))
			}
		}
	}

	text := rgb(theme.ColorOrBlack(theme.NodeTextColor))
	lines := n.Lines(e)
	for i, line := range lines {
		if line == "" {
			continue
		}
		dy := (float64(i) - float64(len(lines)-1)/2) * ch
		cx, cy := ed.worldToCell(geom.Point{X: n.X, Y: n.Y + dy})
		ed.drawText(cx-runewidth.StringWidth(line)/2, cy, line, w, rows, text)
	}
}

// drawText writes s over the existing backgrounds in colour fg.
func (ed *Editor) drawText(x, y int, s string, w, rows int, fg tcell.Color) {
	if y < 0 || y >= rows {
		return
	}
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if x >= 0 && x+rw <= w {
			_, _, style, _ := ed.screen.GetContent(x, y)
			ed.screen.SetContent(x, y, r, nil, style.Foreground(fg))
		}
		x += rw
	}
}

func (ed *Editor) drawActions(w, rows int) {
	for _, a := range ed.ctx.Actions() {
		x, y := ed.worldToCell(a.Center)
		style := styleAction
		if ed.ctx.Hover.Action == a.Type {
			style = styleActionOver
		}
		ed.drawClipped(x-1, y, "("+actionGlyphs[a.Type]+")", w, rows, style)
	}
}

func (ed *Editor) drawMenu(t *thought.Thought) {
	items := ed.ctx.MenuItems()
	right := 0
	if pill, ok := shape.MenuBackground(items, ed.opts.Shape()); ok {
		b := pill.Bounds()
		x0, y0 := ed.canvasToCell(geom.Point{X: b.X, Y: b.Y})
		x1, y1 := ed.canvasToCell(geom.Point{X: b.X + b.W, Y: b.Y + b.H})
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				ed.screen.SetContent(x, y, ' ', nil, styleMenu)
			}
		}
		right = x1 + 2
	}
	for _, item := range items {
		x, y := ed.canvasToCell(item.Center)
		style := styleMenu
		switch {
		case item.Disabled(t):
			style = styleMenuOff
		case ed.ctx.Hover.MenuItem == item.Type:
			style = styleMenuHover
		}
		ed.drawString(x-1, y, " "+menuGlyphs[item.Type]+" ", style)
	}

	if s := ed.ctx.SaveStatus(); s.State != think.SaveIdle {
		msg := s.State.String()
		if s.Message != "" {
			msg += ": " + s.Message
		}
		style := styleMsgSuccess
		if s.State == think.SaveFailed || s.State == think.SaveTimedOut {
			style = styleMsgError
		}
		_, y := ed.canvasToCell(items[0].Center)
		ed.drawString(right, y, " "+msg+" ", style)
	}
}

// drawClipped draws s when it lies entirely inside the canvas.
func (ed *Editor) drawClipped(x, y int, s string, w, rows int, style tcell.Style) {
	if y < 0 || y >= rows || x < 0 || x+runewidth.StringWidth(s) > w {
		return
	}
	ed.drawString(x, y, s, style)
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	info := "[no thought]"
	if t := ed.ctx.Thought(); t != nil {
		info = t.Name
		if !t.Modifiable {
			info += " [read-only]"
		}
		if t.Modified() {
			info += " *"
		}
	}
	ed.drawString(1, y, info, styleStatus)

	if hint := ed.hoverHint(); hint != "" {
		ed.drawString(w/2-runewidth.StringWidth(hint)/2, y, hint, styleStatus)
	}

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if ed.messageFlashStart > 0 && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		ed.drawString(w-runewidth.StringWidth(ed.message)-2, y, ed.message, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

// hoverHint describes what the pointer is over, or an armed connect.
func (ed *Editor) hoverHint() string {
	if n := ed.ctx.ConnectStartingNode(); n != nil {
		return fmt.Sprintf("Connecting from %q: click a node", truncate(n.Text(), 20))
	}
	switch h := ed.ctx.Hover; {
	case h.MenuItem != "":
		return h.MenuItem.ToolTip()
	case h.Action != "":
		return h.Action.ToolTip()
	case h.Connection != nil:
		return "Click to remove this connection"
	}
	return ""
}

func (ed *Editor) drawPromptBox(w, h int, prompt, value string) {
	boxW := max(runewidth.StringWidth(prompt)+runewidth.StringWidth(value)+6, 50)
	boxW = min(boxW, w)
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, prompt, styleInput)
	ed.drawString(boxX+3+runewidth.StringWidth(prompt), boxY+1, value, styleInput)
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	// Horizontal borders
	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}

	// Vertical borders
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ed.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (ed *Editor) helpString() string {
	if _, ok := ed.ctx.PendingConfirmation(); ok {
		return "y:Yes  n:No"
	}
	switch ed.mode {
	case ModeInput:
		return "Type text  Enter:Confirm  Ctrl+U:Clear  Esc:Cancel"
	}
	if ed.ctx.Selection().Node() != nil {
		return "Enter:Edit  n:New  c:Connect  Del:Delete  Tab:Next  Esc:Deselect  Ctrl+S:Save  Ctrl+Q:Close"
	}
	return "Click:Select  Drag:Move/Pan  Arrows:Pan  Tab:Select  Ctrl+O:Rename  Ctrl+E:Export  Ctrl+S:Save  Ctrl+Q:Close"
}

func truncate(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	return runewidth.Truncate(s, maxLen, "...")
}
