package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/hylla/tierlist/internal/app"
	"github.com/hylla/tierlist/internal/domain"
)

// Service is the board state surface the model drives. *app.Service satisfies it.
type Service interface {
	Snapshot() app.State
	SetTopic(string)
	AddItems(columnID, rawText string) bool
	BeginDrag(itemID string) bool
	HoverMove(activeID, overID string) bool
	EndDrag(activeID, overID string) bool
	ResolveTarget(id string) domain.Target
	Export(context.Context) (app.ExportResult, error)
	PlainText() string
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeTopic
	modeAddItems
	modeColumnInfo
)

// columnChrome is the rounded border plus horizontal padding inside a column box.
const columnChrome = 4

// columnHeaderLines is the number of content rows above the first item in a column.
const columnHeaderLines = 2

// Model is the bubbletea model for the tier-list board.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int

	status string

	help help.Model
	keys keyMap

	state          app.State
	selectedColumn int
	selectedItem   int
	// scroll is the first visible item row per column id.
	scroll map[string]int

	mode  inputMode
	input textinput.Model

	mouseDragging bool
	exporting     bool
	exportCtx     context.Context

	markdown *markdownRenderer
	copyText ClipboardFunc
	log      app.Logger
}

// stateMsg carries a fresh board snapshot.
type stateMsg struct {
	state app.State
}

// exportDoneMsg carries the outcome of one asynchronous export.
type exportDoneMsg struct {
	result app.ExportResult
	err    error
}

// hit is the board cell under a pointer position.
type hit struct {
	column int
	item   int
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:       svc,
		status:    "loading...",
		help:      h,
		keys:      newKeyMap(),
		exportCtx: context.Background(),
		markdown:  &markdownRenderer{},
		copyText:  clipboard.WriteAll,
		scroll:    map[string]int{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadState
}

// loadState reads the current board snapshot.
func (m Model) loadState() tea.Msg {
	return stateMsg{state: m.svc.Snapshot()}
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.followSelection()
		return m, nil

	case stateMsg:
		m.state = msg.state
		m.clampSelection()
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		m.refresh()
		if msg.err != nil {
			// The service already logged the failure; the board just becomes usable again.
			m.status = "ready"
			return m, nil
		}
		m.status = "saved " + msg.result.Path
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		if m.state.ActiveItemID != "" {
			return m.handleDragKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	default:
		if m.mode == modeTopic || m.mode == modeAddItems {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// refresh re-reads the service snapshot after a mutation.
func (m *Model) refresh() {
	m.state = m.svc.Snapshot()
	m.clampSelection()
}

// disabled reports whether gestures and the add-items form are gated off.
func (m Model) disabled() bool {
	return m.state.Disabled || m.exporting
}

// gateHint returns the status shown when a gated action is attempted.
func (m Model) gateHint() string {
	if m.exporting || m.state.Exporting {
		return "export in progress"
	}
	return fmt.Sprintf("enter a topic first (%s)", m.keys.topic.Help().Key)
}

// handleNormalModeKey handles keys while no form is open and nothing is dragged.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case msg.String() == "esc" || key.Matches(msg, m.keys.toggleHelp):
			m.help.ShowAll = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = true
		return m, nil
	case key.Matches(msg, m.keys.moveLeft):
		m.selectedColumn--
		m.clampSelection()
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		m.selectedColumn++
		m.clampSelection()
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		m.selectedItem--
		m.clampSelection()
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.selectedItem++
		m.clampSelection()
		return m, nil
	case key.Matches(msg, m.keys.topic):
		return m, m.startTopicForm()
	case key.Matches(msg, m.keys.addItems):
		if m.disabled() {
			m.status = m.gateHint()
			return m, nil
		}
		return m, m.startAddItemsForm()
	case key.Matches(msg, m.keys.drag):
		item, ok := m.selectedItemValue()
		if !ok {
			m.status = "no item selected"
			return m, nil
		}
		m.beginDrag(item)
		return m, nil
	case key.Matches(msg, m.keys.export):
		return m.startExport()
	case key.Matches(msg, m.keys.info):
		if _, ok := m.currentColumn(); !ok {
			return m, nil
		}
		m.mode = modeColumnInfo
		m.status = "column info"
		return m, nil
	case key.Matches(msg, m.keys.copyBoard):
		m.copyBoard()
		return m, nil
	default:
		return m, nil
	}
}

// handleDragKey handles keys while an item is being dragged.
func (m Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	activeID := m.state.ActiveItemID
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel):
		m.svc.EndDrag(activeID, "")
		m.mouseDragging = false
		m.refresh()
		m.focusItem(activeID)
		m.status = "drag cancelled"
		return m, nil
	case key.Matches(msg, m.keys.drag), key.Matches(msg, m.keys.drop):
		overID := ""
		if item, ok := m.selectedItemValue(); ok {
			overID = item.ID
		}
		m.svc.EndDrag(activeID, overID)
		m.mouseDragging = false
		m.refresh()
		m.focusItem(activeID)
		m.status = "dropped"
		return m, nil
	case key.Matches(msg, m.keys.moveLeft):
		m.hoverColumn(activeID, -1)
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		m.hoverColumn(activeID, 1)
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		m.hoverRow(activeID, -1)
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.hoverRow(activeID, 1)
		return m, nil
	default:
		return m, nil
	}
}

// beginDrag starts a drag gesture on item.
func (m *Model) beginDrag(item domain.Item) bool {
	if m.disabled() {
		m.status = m.gateHint()
		return false
	}
	if !m.svc.BeginDrag(item.ID) {
		m.refresh()
		m.status = "drag unavailable"
		return false
	}
	m.refresh()
	m.focusItem(item.ID)
	m.status = "dragging " + truncate(item.Content, 32)
	return true
}

// hoverColumn moves the dragged item into the neighbouring column at the cursor row.
func (m *Model) hoverColumn(activeID string, delta int) {
	columns := m.state.Board.Columns()
	target := m.selectedColumn + delta
	if target < 0 || target >= len(columns) {
		return
	}
	overID := columns[target].ID
	if row := m.selectedItem; row >= 0 && row < len(columns[target].Items) {
		overID = columns[target].Items[row].ID
	}
	if m.svc.HoverMove(activeID, overID) {
		m.refresh()
		m.focusItem(activeID)
		return
	}
	m.refresh()
}

// hoverRow moves the drop cursor within the dragged item's current column.
func (m *Model) hoverRow(activeID string, delta int) {
	column, ok := m.currentColumn()
	if !ok || len(column.Items) == 0 {
		return
	}
	m.selectedItem = clamp(m.selectedItem+delta, 0, len(column.Items)-1)
	m.followSelection()
	// Same-column hovers never move anything; placement settles on drop.
	m.svc.HoverMove(activeID, column.Items[m.selectedItem].ID)
}

// startTopicForm opens the topic input.
func (m *Model) startTopicForm() tea.Cmd {
	m.mode = modeTopic
	m.input = newModalInput("topic: ", "campaign topic", m.state.Topic, 160)
	m.input.CursorEnd()
	m.status = "edit topic"
	return m.input.Focus()
}

// startAddItemsForm opens the add-items input for the selected column.
func (m *Model) startAddItemsForm() tea.Cmd {
	column, ok := m.currentColumn()
	if !ok {
		return nil
	}
	m.mode = modeAddItems
	m.input = newModalInput("items: ", "comma separated, e.g. Mayor, Tenants union", "", 512)
	m.status = "add to " + column.Title
	return m.input.Focus()
}

// newModalInput constructs a modal text input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// handleInputModeKey handles keys while a form or overlay is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeColumnInfo {
		if msg.String() == "esc" || key.Matches(msg, m.keys.info) {
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.input.Blur()
		m.status = "cancelled"
		return m, nil
	case "enter":
		return m.submitInputMode()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInputMode applies the open form.
func (m Model) submitInputMode() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	mode := m.mode
	m.mode = modeNone
	m.input.Blur()

	switch mode {
	case modeTopic:
		m.svc.SetTopic(value)
		m.refresh()
		if strings.TrimSpace(value) == "" {
			m.status = "topic cleared"
		} else {
			m.status = "topic set"
		}
		return m, nil

	case modeAddItems:
		column, ok := m.currentColumn()
		if !ok {
			return m, nil
		}
		before := len(column.Items)
		if !m.svc.AddItems(column.ID, value) {
			m.refresh()
			if m.disabled() {
				m.status = m.gateHint()
			} else {
				m.status = "nothing to add"
			}
			return m, nil
		}
		m.refresh()
		after := before
		if updated, ok := m.currentColumn(); ok {
			after = len(updated.Items)
			m.selectedItem = max(0, after-1)
		}
		m.status = fmt.Sprintf("added %d to %s", after-before, column.Title)
		return m, nil
	}
	return m, nil
}

// startExport runs one export in the background.
func (m Model) startExport() (tea.Model, tea.Cmd) {
	if m.exporting {
		m.status = "export in progress"
		return m, nil
	}
	m.exporting = true
	m.status = "exporting PDF..."
	svc := m.svc
	ctx := m.exportCtx
	return m, func() tea.Msg {
		result, err := svc.Export(ctx)
		return exportDoneMsg{result: result, err: err}
	}
}

// copyBoard writes the board text to the clipboard.
func (m *Model) copyBoard() {
	if err := m.copyText(m.svc.PlainText()); err != nil {
		if m.log != nil {
			m.log.Error("copy board failed", "err", err)
		}
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = "board copied"
}

// handleMouseClick starts a drag when the press lands on an item.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || msg.Button != tea.MouseLeft {
		return m, nil
	}
	if m.state.ActiveItemID != "" {
		return m, nil
	}
	h, ok := m.hitTest(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.selectedColumn = h.column
	if h.item < 0 {
		m.clampSelection()
		return m, nil
	}
	m.selectedItem = h.item
	m.clampSelection()
	item, ok := m.selectedItemValue()
	if !ok {
		return m, nil
	}
	if m.beginDrag(item) {
		m.mouseDragging = true
	}
	return m, nil
}

// handleMouseMotion hover-moves the dragged item to the target under the pointer.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	activeID := m.state.ActiveItemID
	if !m.mouseDragging || activeID == "" {
		return m, nil
	}
	overID := m.targetAt(msg.X, msg.Y)
	if overID == "" {
		return m, nil
	}
	if m.svc.HoverMove(activeID, overID) {
		m.refresh()
		m.focusItem(activeID)
	}
	return m, nil
}

// handleMouseRelease drops the dragged item on the target under the pointer.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	activeID := m.state.ActiveItemID
	if !m.mouseDragging {
		return m, nil
	}
	m.mouseDragging = false
	if activeID == "" {
		return m, nil
	}
	m.svc.EndDrag(activeID, m.targetAt(msg.X, msg.Y))
	m.refresh()
	m.focusItem(activeID)
	m.status = "dropped"
	return m, nil
}

// targetAt returns the item or column id under a pointer position, or "".
func (m Model) targetAt(x, y int) string {
	h, ok := m.hitTest(x, y)
	if !ok {
		return ""
	}
	column := m.state.Board.Columns()[h.column]
	id := column.ID
	if h.item >= 0 && h.item < len(column.Items) {
		id = column.Items[h.item].ID
	}
	if !m.svc.ResolveTarget(id).Found() {
		return ""
	}
	return id
}

// hitTest maps a pointer position to a column and item index. item is -1 on
// the column header or the free space below the last item. Borders and the
// overflow marker rows report no hit.
func (m Model) hitTest(x, y int) (hit, bool) {
	columns := m.state.Board.Columns()
	if len(columns) == 0 {
		return hit{}, false
	}
	top := m.boardTop()
	views := m.renderColumns()
	height := lipgloss.Height(views[0])
	// top and bottom border rows
	if y <= top || y >= top+height-1 {
		return hit{}, false
	}
	start := 0
	for idx, view := range views {
		width := lipgloss.Width(view)
		if x >= start && x < start+width {
			h := hit{column: idx, item: -1}
			row := y - top - 1 - columnHeaderLines
			if row < 0 {
				return h, true
			}
			win := m.itemWindow(columns[idx])
			if win.above {
				if row == 0 {
					return hit{}, false
				}
				row--
			}
			visible := win.end - win.start
			switch {
			case row < visible:
				h.item = win.start + row
			case win.below && row == visible:
				return hit{}, false
			}
			return h, true
		}
		start += width
	}
	return hit{}, false
}

// window is the slice of a column's items that fits its box.
type window struct {
	start, end   int
	above, below bool
}

// itemRows returns the rows a column box has for items and overflow markers.
func (m Model) itemRows() int {
	return max(3, m.columnInnerHeight()-columnHeaderLines)
}

// itemWindow returns the visible items of column for its scroll offset.
func (m Model) itemWindow(column domain.Column) window {
	return windowFor(len(column.Items), m.itemRows(), m.scroll[column.ID])
}

// windowFor fits count items into rows, starting near offset. A marker row
// replaces the first or last slot when items are hidden on that side.
func windowFor(count, rows, offset int) window {
	if count <= rows {
		return window{end: count}
	}
	// with only the top marker shown the tail fills rows-1 slots
	start := clamp(offset, 0, count-(rows-1))
	w := window{start: start, above: start > 0}
	slots := rows
	if w.above {
		slots--
	}
	if count-start > slots {
		w.below = true
		slots--
	}
	w.end = start + slots
	return w
}

// scrollToShow returns the smallest change to offset that keeps row visible.
func scrollToShow(count, rows, offset, row int) int {
	if count <= rows {
		return 0
	}
	offset = clamp(offset, 0, count-(rows-1))
	if row < offset {
		offset = row
	}
	for {
		w := windowFor(count, rows, offset)
		if row < w.end || w.end >= count {
			return w.start
		}
		offset = w.start + 1
	}
}

// followSelection scrolls the selected column so the cursor row stays visible.
func (m *Model) followSelection() {
	column, ok := m.currentColumn()
	if !ok {
		return
	}
	if m.scroll == nil {
		m.scroll = map[string]int{}
	}
	m.scroll[column.ID] = scrollToShow(len(column.Items), m.itemRows(), m.scroll[column.ID], m.selectedItem)
}

// clampSelection keeps the cursor inside the board.
func (m *Model) clampSelection() {
	columns := m.state.Board.Columns()
	if len(columns) == 0 {
		m.selectedColumn = 0
		m.selectedItem = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(columns)-1)
	m.selectedItem = clamp(m.selectedItem, 0, len(columns[m.selectedColumn].Items)-1)
	m.followSelection()
}

// focusItem moves the cursor onto itemID.
func (m *Model) focusItem(itemID string) {
	target := m.svc.ResolveTarget(itemID)
	if target.Kind != domain.TargetItem {
		return
	}
	m.selectedColumn = target.ColumnIndex
	m.selectedItem = target.ItemIndex
	m.followSelection()
}

// currentColumn returns the selected column.
func (m Model) currentColumn() (domain.Column, bool) {
	columns := m.state.Board.Columns()
	if len(columns) == 0 {
		return domain.Column{}, false
	}
	return columns[clamp(m.selectedColumn, 0, len(columns)-1)], true
}

// selectedItemValue returns the item under the cursor.
func (m Model) selectedItemValue() (domain.Item, bool) {
	column, ok := m.currentColumn()
	if !ok || m.selectedItem < 0 || m.selectedItem >= len(column.Items) {
		return domain.Item{}, false
	}
	return column.Items[m.selectedItem], true
}

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	accent := lipgloss.Color("62")
	if column, ok := m.currentColumn(); ok {
		accent = columnAccentColor(column)
	}
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	sections := []string{m.renderHeader(), ""}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, m.renderColumns()...))
	if item, ok := m.activeItem(); ok {
		dragStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
		sections = append(sections, dragStyle.Render("dragging: "+truncate(item.Content, 48))+
			statusStyle.Render("  h/l column • j/k position • space drop • esc cancel"))
	}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine

	overlay := m.renderModeOverlay(accent, muted, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, dim, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	view := tea.NewView(fullContent)
	view.MouseMode = tea.MouseModeCellMotion
	view.AltScreen = true
	return view
}

// renderHeader renders the title, topic and gate lines.
func (m Model) renderHeader() string {
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	header := titleStyle.Render(m.state.Title) + statusStyle.Render("  ["+m.modeLabel()+"]")
	if m.exporting || m.state.Exporting {
		header += warnStyle.Render("  exporting PDF...")
	}
	topic := strings.TrimSpace(m.state.Topic)
	topicLine := "topic: " + topic
	if topic == "" {
		topicLine = warnStyle.Render(m.gateHint())
	}
	return header + "\n" + topicLine
}

// renderColumns renders one bordered box per column, in board order.
func (m Model) renderColumns() []string {
	columns := m.state.Board.Columns()
	colWidth := m.columnWidthFor(m.width, len(columns))
	textWidth := max(1, colWidth-columnChrome)
	innerHeight := m.columnInnerHeight()
	dim := lipgloss.Color("239")
	muted := lipgloss.Color("241")
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	meaningStyle := lipgloss.NewStyle().Foreground(muted)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237")).Bold(true)

	views := make([]string, 0, len(columns))
	for colIdx, column := range columns {
		accent := columnAccentColor(column)
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(0, 1).
			MarginRight(1).
			Width(colWidth)
		if colIdx == m.selectedColumn {
			style = style.BorderForeground(accent)
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)

		lines := []string{
			titleStyle.Render(truncate(fmt.Sprintf("%s (%d)", column.Title, len(column.Items)), textWidth)),
			meaningStyle.Render(truncate(column.Meaning, textWidth)),
		}
		if len(column.Items) == 0 {
			lines = append(lines, emptyStyle.Render("(empty)"))
		}
		win := m.itemWindow(column)
		if win.above {
			lines = append(lines, emptyStyle.Render(fmt.Sprintf("… %d above", win.start)))
		}
		for itemIdx := win.start; itemIdx < win.end; itemIdx++ {
			item := column.Items[itemIdx]
			selected := colIdx == m.selectedColumn && itemIdx == m.selectedItem
			prefix := "  "
			if selected {
				prefix = "│ "
			}
			line := prefix + truncate(item.Content, max(1, textWidth-2))
			switch {
			case item.ID == m.state.ActiveItemID:
				line = activeStyle.Render(line)
			case selected:
				line = selectedStyle.Render(line)
			}
			lines = append(lines, line)
		}
		if win.below {
			lines = append(lines, emptyStyle.Render(fmt.Sprintf("… %d below", len(column.Items)-win.end)))
		}
		views = append(views, style.Render(fitLines(strings.Join(lines, "\n"), innerHeight)))
	}
	return views
}

// activeItem returns the dragged item, if any.
func (m Model) activeItem() (domain.Item, bool) {
	if m.state.ActiveItemID == "" {
		return domain.Item{}, false
	}
	return m.state.Board.Item(m.state.ActiveItemID)
}

// columnAccentColor returns the column's configured color or the default accent.
func columnAccentColor(column domain.Column) color.Color {
	if strings.TrimSpace(column.Color) == "" {
		return lipgloss.Color("62")
	}
	return lipgloss.Color(column.Color)
}

// renderHelpOverlay renders the expanded key reference.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 56, 100)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Tier List Help")
	workflow := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Workflows"),
		"1. t set the campaign topic (required before sorting)",
		"2. a add comma-separated items to the focused column",
		"3. space pick up an item • h/l carry it across columns • j/k choose a slot • space drop",
		"4. mouse: press on an item, drag, release to drop",
		"5. e export Rainbow-Alliance-Tier-List.pdf • y copy the board as text",
	}
	lines := []string{
		title,
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(muted).Render(strings.Join(workflow, "\n")),
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1)
	if maxWidth > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderModeOverlay renders the open form or info box.
func (m Model) renderModeOverlay(accent, muted color.Color, maxWidth int) string {
	hintStyle := lipgloss.NewStyle().Foreground(muted)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	boxWidth := clamp(maxWidth, 32, 76)
	if maxWidth > 0 {
		boxStyle = boxStyle.Width(boxWidth)
	}

	switch m.mode {
	case modeTopic, modeAddItems:
		heading := "Campaign Topic"
		hint := "enter save • empty clears • esc cancel"
		if m.mode == modeAddItems {
			column, _ := m.currentColumn()
			heading = "Add to " + column.Title
			hint = "enter add • commas separate items • esc cancel"
		}
		in := m.input
		in.SetWidth(max(16, boxWidth-12))
		lines := []string{titleStyle.Render(heading), in.View(), hintStyle.Render(hint)}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeColumnInfo:
		column, ok := m.currentColumn()
		if !ok {
			return ""
		}
		body := m.markdown.render(columnInfoMarkdown(column), boxWidth-4)
		lines := []string{titleStyle.Render("Column Info"), body, hintStyle.Render("esc close")}
		return boxStyle.BorderForeground(columnAccentColor(column)).Render(strings.Join(lines, "\n"))
	}
	return ""
}

// modeLabel returns the header label for the current interaction state.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeTopic:
		return "topic"
	case modeAddItems:
		return "add items"
	case modeColumnInfo:
		return "info"
	}
	if m.state.ActiveItemID != "" {
		return "dragging"
	}
	return "board"
}

// columnWidthFor returns the box width, border included, that fits count columns into boardWidth.
func (m Model) columnWidthFor(boardWidth, count int) int {
	if count == 0 {
		return 28
	}
	w := 28
	if boardWidth > 0 {
		// one cell of margin-right per column
		candidate := boardWidth/count - 1
		if candidate > 0 {
			w = candidate
		}
	}
	return clamp(w, 16, 40)
}

// columnInnerHeight returns the content rows available inside a column box.
func (m Model) columnInnerHeight() int {
	// header + spacer, column borders, drag line, status, help bar.
	h := m.height - m.boardTop() - 2 - 4
	if h < 8 {
		return 8
	}
	return h
}

// boardTop returns the row of the column boxes' top border.
func (m Model) boardTop() int {
	return lipgloss.Height(m.renderHeader()) + 1
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
