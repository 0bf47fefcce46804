package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/lanes/internal/board"
	"github.com/dori/lanes/internal/cover"
	"github.com/dori/lanes/internal/model"
	"github.com/dori/lanes/internal/notify"
	"github.com/dori/lanes/internal/ui/theme"
)

// BoardMode represents the current input mode
type BoardMode int

const (
	BoardModeNormal BoardMode = iota
	BoardModeAddCard
	BoardModeSearch
	BoardModeNewList
	BoardModeRenameList
	BoardModeConfirmDeleteCard
	BoardModeConfirmDeleteList
	BoardModeDetail
	BoardModeEdit
)

const minColumnWidth = 28

// BoardView shows one column per category. It reads the board through its
// projections and changes it only by dispatching intents.
type BoardView struct {
	board  *board.Board
	width  int
	height int

	// Navigation state
	currentColumn int
	cursorRow     int

	// Per-column scroll offset, keyed by category id
	columnScroll map[string]int

	// Input mode
	mode      BoardMode
	textInput textinput.Model

	// Search query, applied to every column
	searchFilter string

	// Card and list the open dialog refers to
	targetTaskID string
	targetListID string

	form TaskForm
}

// NewBoardView creates a board view
func NewBoardView(b *board.Board) BoardView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	return BoardView{
		board:        b,
		columnScroll: make(map[string]int),
		textInput:    ti,
	}
}

// Init initializes the board view
func (v BoardView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v BoardView) SetSize(width, height int) BoardView {
	v.width = width
	v.height = height
	return v
}

// SearchFilter returns the active search query
func (v BoardView) SearchFilter() string {
	return v.searchFilter
}

// Mode returns the current input mode
func (v BoardView) Mode() BoardMode {
	return v.mode
}

// IsInputMode returns whether the view is capturing keys
func (v BoardView) IsInputMode() bool {
	return v.mode != BoardModeNormal
}

// Close releases resources held by an open edit form
func (v BoardView) Close() {
	if v.mode == BoardModeEdit {
		v.form.Close()
	}
}

// Update handles messages
func (v BoardView) Update(msg tea.Msg) (BoardView, tea.Cmd) {
	switch msg := msg.(type) {
	case TaskFormSubmitMsg:
		return v.handleFormSubmit(msg)

	case TaskFormCancelMsg:
		v.mode = BoardModeNormal
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case BoardModeAddCard, BoardModeNewList, BoardModeRenameList:
			return v.handleInputMode(msg)
		case BoardModeSearch:
			return v.handleSearchMode(msg)
		case BoardModeConfirmDeleteCard, BoardModeConfirmDeleteList:
			return v.handleConfirmMode(msg)
		case BoardModeDetail:
			return v.handleDetailMode(msg)
		case BoardModeEdit:
			var cmd tea.Cmd
			v.form, cmd = v.form.Update(msg)
			return v, cmd
		default:
			return v.handleNormalMode(msg)
		}
	}

	// Late cover results are dropped once the form is gone
	if v.mode == BoardModeEdit {
		var cmd tea.Cmd
		v.form, cmd = v.form.Update(msg)
		return v, cmd
	}

	if v.mode == BoardModeAddCard || v.mode == BoardModeNewList ||
		v.mode == BoardModeRenameList || v.mode == BoardModeSearch {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleNormalMode handles keys in normal mode
func (v BoardView) handleNormalMode(msg tea.KeyMsg) (BoardView, tea.Cmd) {
	cats := v.board.Categories()

	switch msg.String() {
	// Column navigation
	case "h", "left":
		if v.currentColumn > 0 {
			v.currentColumn--
			v.clampCursor()
		}
		return v, nil

	case "l", "right":
		if v.currentColumn < len(cats)-1 {
			v.currentColumn++
			v.clampCursor()
		}
		return v, nil

	// Row navigation
	case "j", "down":
		if v.cursorRow < len(v.column(v.currentColumn))-1 {
			v.cursorRow++
			v.ensureCursorVisible()
		}
		return v, nil

	case "k", "up":
		if v.cursorRow > 0 {
			v.cursorRow--
			v.ensureCursorVisible()
		}
		return v, nil

	case "g":
		v.cursorRow = 0
		v.ensureCursorVisible()
		return v, nil

	case "G":
		if n := len(v.column(v.currentColumn)); n > 0 {
			v.cursorRow = n - 1
			v.ensureCursorVisible()
		}
		return v, nil

	// Drag the card onto the neighbouring list
	case "H":
		return v.moveToList(-1)
	case "L":
		return v.moveToList(1)

	// Drag the card onto the neighbouring card
	case "J":
		return v.moveWithinList(1)
	case "K":
		return v.moveWithinList(-1)

	case "a":
		if len(cats) > 0 {
			v.openInput(BoardModeAddCard, "", "Enter a title for this card...")
		}
		return v, nil

	case "enter":
		if task, ok := v.currentTask(); ok {
			v.targetTaskID = task.ID
			v.mode = BoardModeDetail
		}
		return v, nil

	case "e":
		if task, ok := v.currentTask(); ok {
			return v.openForm(task)
		}
		return v, nil

	case "d":
		if task, ok := v.currentTask(); ok {
			v.targetTaskID = task.ID
			v.mode = BoardModeConfirmDeleteCard
		}
		return v, nil

	case "n":
		v.openInput(BoardModeNewList, "", "Enter list title...")
		return v, nil

	case "r":
		if cat, ok := v.currentCategory(); ok {
			v.targetListID = cat.ID
			v.openInput(BoardModeRenameList, cat.Name, "")
		}
		return v, nil

	case "D":
		if cat, ok := v.currentCategory(); ok {
			v.targetListID = cat.ID
			v.mode = BoardModeConfirmDeleteList
		}
		return v, nil

	case "/":
		v.openInput(BoardModeSearch, v.searchFilter, "Search tasks...")
		return v, nil

	case "esc":
		if v.searchFilter != "" {
			v.setFilter("")
			return v, toast(notify.LevelInfo, "Search cleared")
		}
		return v, nil

	case "o":
		return v, func() tea.Msg { return LogoutRequest{} }
	}

	return v, nil
}

func (v *BoardView) openInput(mode BoardMode, value, placeholder string) {
	v.mode = mode
	v.textInput.SetValue(value)
	v.textInput.Placeholder = placeholder
	v.textInput.Focus()
	v.textInput.CursorEnd()
}

func (v *BoardView) closeInput() {
	v.mode = BoardModeNormal
	v.textInput.Blur()
	v.textInput.SetValue("")
}

// handleInputMode handles the add-card, new-list and rename-list prompts
func (v BoardView) handleInputMode(msg tea.KeyMsg) (BoardView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.closeInput()
		return v, nil

	case "enter":
		text := strings.TrimSpace(v.textInput.Value())
		mode := v.mode
		v.closeInput()
		if text == "" {
			return v, nil
		}

		switch mode {
		case BoardModeAddCard:
			cat, ok := v.currentCategory()
			if !ok {
				return v, nil
			}
			res, cmd := v.dispatch(board.CreateTask{Title: text, Category: cat.Name, Color: model.DefaultColor}, "")
			if res.Changed {
				v.focusTask(res.Task.ID)
			}
			return v, cmd

		case BoardModeNewList:
			res, cmd := v.dispatch(board.CreateCategory{ID: v.board.NewID(), Name: text},
				fmt.Sprintf("Category %q created!", text))
			if res.Changed {
				v.currentColumn = len(v.board.Categories()) - 1
				v.cursorRow = 0
			}
			return v, cmd

		case BoardModeRenameList:
			_, cmd := v.dispatch(board.UpdateCategory{ID: v.targetListID, Name: text}, "List renamed!")
			v.targetListID = ""
			return v, cmd
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

// handleSearchMode filters as the query is typed
func (v BoardView) handleSearchMode(msg tea.KeyMsg) (BoardView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.mode = BoardModeNormal
		v.textInput.Blur()
		return v, nil
	case "esc":
		v.closeInput()
		v.setFilter("")
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	v.setFilter(strings.TrimSpace(v.textInput.Value()))
	return v, cmd
}

func (v *BoardView) setFilter(query string) {
	if query == v.searchFilter {
		return
	}
	v.searchFilter = query
	v.cursorRow = 0
	clear(v.columnScroll)
}

// handleConfirmMode handles delete confirmations
func (v BoardView) handleConfirmMode(msg tea.KeyMsg) (BoardView, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		mode := v.mode
		v.mode = BoardModeNormal
		if mode == BoardModeConfirmDeleteList {
			_, cmd := v.dispatch(board.DeleteCategory{ID: v.targetListID}, "List deleted!")
			v.targetListID = ""
			if v.currentColumn >= len(v.board.Categories()) && v.currentColumn > 0 {
				v.currentColumn--
			}
			v.clampCursor()
			return v, cmd
		}
		_, cmd := v.dispatch(board.DeleteTask{ID: v.targetTaskID}, "Task deleted!")
		v.targetTaskID = ""
		v.clampCursor()
		return v, cmd

	case "n", "N", "esc":
		v.mode = BoardModeNormal
		v.targetTaskID = ""
		v.targetListID = ""
		return v, nil
	}
	return v, nil
}

// handleDetailMode handles keys while the card detail panel is open
func (v BoardView) handleDetailMode(msg tea.KeyMsg) (BoardView, tea.Cmd) {
	task, ok := v.board.Task(v.targetTaskID)
	if !ok {
		v.mode = BoardModeNormal
		return v, nil
	}

	switch msg.String() {
	case "esc", "enter", "q":
		v.mode = BoardModeNormal
		v.targetTaskID = ""
	case "e":
		return v.openForm(task)
	case "d":
		v.mode = BoardModeConfirmDeleteCard
	}
	return v, nil
}

func (v BoardView) openForm(task model.Task) (BoardView, tea.Cmd) {
	var lists []string
	for _, c := range v.board.Categories() {
		lists = append(lists, c.Name)
	}
	v.targetTaskID = task.ID
	v.form = NewTaskForm(task, lists, v.width, v.height)
	v.mode = BoardModeEdit
	return v, v.form.Init()
}

func (v BoardView) handleFormSubmit(msg TaskFormSubmitMsg) (BoardView, tea.Cmd) {
	if v.mode != BoardModeEdit {
		return v, nil
	}
	v.mode = BoardModeNormal
	v.targetTaskID = ""

	res, cmd := v.dispatch(board.UpdateTask{Task: msg.Task}, "Task updated!")
	if res.Changed {
		for i, c := range v.board.Categories() {
			if c.Name == res.Task.Category {
				v.currentColumn = i
				break
			}
		}
		v.focusTask(res.Task.ID)
	}
	return v, cmd
}

// moveToList drops the current card on the list dir columns away
func (v BoardView) moveToList(dir int) (BoardView, tea.Cmd) {
	task, ok := v.currentTask()
	cats := v.board.Categories()
	dest := v.currentColumn + dir
	if !ok || dest < 0 || dest >= len(cats) {
		return v, nil
	}

	_, cmd := v.dispatch(board.MoveTask{DraggedID: task.ID, TargetID: cats[dest].ID}, "")
	v.currentColumn = dest
	v.focusTask(task.ID)
	return v, cmd
}

// moveWithinList drops the current card on its neighbour dir rows away
func (v BoardView) moveWithinList(dir int) (BoardView, tea.Cmd) {
	col := v.column(v.currentColumn)
	target := v.cursorRow + dir
	if v.cursorRow >= len(col) || target < 0 || target >= len(col) {
		return v, nil
	}

	dragged := col[v.cursorRow].ID
	_, cmd := v.dispatch(board.MoveTask{DraggedID: dragged, TargetID: col[target].ID}, "")
	v.focusTask(dragged)
	return v, cmd
}

// dispatch applies an intent and turns the outcome into a toast
func (v BoardView) dispatch(in board.Intent, success string) (board.Result, tea.Cmd) {
	res, err := v.board.Dispatch(in)
	if err != nil {
		return res, toast(notify.LevelError, errorText(err))
	}
	if success != "" && res.Changed {
		return res, toast(notify.LevelSuccess, success)
	}
	return res, nil
}

func errorText(err error) string {
	switch {
	case errors.Is(err, board.ErrDuplicateCategoryName):
		return "A list with that name already exists."
	case errors.Is(err, board.ErrDuplicateCategoryID):
		return "That list already exists."
	case errors.Is(err, board.ErrUnknownCategory):
		return "That list no longer exists."
	default:
		return err.Error()
	}
}

// column returns the filtered tasks of the column at index i
func (v BoardView) column(i int) []model.Task {
	cats := v.board.Categories()
	if i < 0 || i >= len(cats) {
		return nil
	}
	return board.Filter(v.board.TasksIn(cats[i].Name), v.searchFilter)
}

func (v BoardView) currentCategory() (model.Category, bool) {
	cats := v.board.Categories()
	if v.currentColumn < 0 || v.currentColumn >= len(cats) {
		return model.Category{}, false
	}
	return cats[v.currentColumn], true
}

func (v BoardView) currentTask() (model.Task, bool) {
	col := v.column(v.currentColumn)
	if v.cursorRow < 0 || v.cursorRow >= len(col) {
		return model.Task{}, false
	}
	return col[v.cursorRow], true
}

// focusTask moves the cursor onto id within the current column
func (v *BoardView) focusTask(id string) {
	for i, t := range v.column(v.currentColumn) {
		if t.ID == id {
			v.cursorRow = i
			v.ensureCursorVisible()
			return
		}
	}
	v.clampCursor()
}

// clampCursor ensures cursor is valid for current column
func (v *BoardView) clampCursor() {
	if n := len(v.board.Categories()); v.currentColumn >= n {
		v.currentColumn = max(n-1, 0)
	}
	col := v.column(v.currentColumn)
	if v.cursorRow >= len(col) {
		v.cursorRow = max(len(col)-1, 0)
	}
	v.ensureCursorVisible()
}

// ensureCursorVisible adjusts scroll to keep cursor in view
func (v *BoardView) ensureCursorVisible() {
	cat, ok := v.currentCategory()
	if !ok {
		return
	}
	visible := v.visibleItemCount()
	scroll := v.columnScroll[cat.ID]

	if v.cursorRow >= scroll+visible {
		scroll = v.cursorRow - visible + 1
	}
	if v.cursorRow < scroll {
		scroll = v.cursorRow
	}
	v.columnScroll[cat.ID] = scroll
}

// visibleItemCount returns how many cards fit in the column height
func (v BoardView) visibleItemCount() int {
	// header row, column border, scroll indicators and footer take 7
	// lines; every card is two lines tall
	available := (v.height - 7) / 2
	if available < 1 {
		return 1
	}
	return available
}

// View renders the board
func (v BoardView) View() string {
	if v.width == 0 {
		return "Loading..."
	}

	switch v.mode {
	case BoardModeEdit:
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, v.form.View())
	case BoardModeDetail:
		if task, ok := v.board.Task(v.targetTaskID); ok {
			return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, v.renderDetail(task))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, v.renderColumns(), v.renderFooter())
}

func (v BoardView) renderColumns() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	cats := v.board.Categories()

	if len(cats) == 0 {
		return styles.Panel.Render(styles.Label.Render("No lists yet. Press n to add one."))
	}

	// Show as many columns as fit, keeping the current one in view
	numVisible := max(1, min(len(cats), (v.width-2)/minColumnWidth))
	startCol := 0
	if v.currentColumn >= numVisible {
		startCol = v.currentColumn - numVisible + 1
	}
	endCol := startCol + numVisible
	colWidth := max((v.width-2)/numVisible-2, minColumnWidth-2)

	visible := v.visibleItemCount()
	var cols []string
	for i := startCol; i < endCol; i++ {
		cat := cats[i]
		all := v.board.TasksIn(cat.Name)
		tasks := board.Filter(all, v.searchFilter)
		active := i == v.currentColumn

		header := fmt.Sprintf("%s (%d)", cat.Name, len(tasks))
		if v.searchFilter != "" && len(tasks) != len(all) {
			header = fmt.Sprintf("%s (%d/%d)", cat.Name, len(tasks), len(all))
		}
		items := []string{styles.ColumnTitle.Width(colWidth - 2).Render(truncate(header, colWidth-2))}

		scroll := min(v.columnScroll[cat.ID], len(tasks))
		end := min(scroll+visible, len(tasks))

		if scroll > 0 {
			items = append(items, styles.Label.Width(colWidth-2).Align(lipgloss.Center).
				Render(fmt.Sprintf("↑ %d more", scroll)))
		}
		for j := scroll; j < end; j++ {
			items = append(items, v.renderCard(tasks[j], colWidth-2, active && j == v.cursorRow))
		}
		if end < len(tasks) {
			items = append(items, styles.Label.Width(colWidth-2).Align(lipgloss.Center).
				Render(fmt.Sprintf("↓ %d more", len(tasks)-end)))
		}
		if len(tasks) == 0 {
			items = append(items, lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Render("(empty)"))
		}
		if active && v.mode == BoardModeAddCard {
			items = append(items, styles.InputFocused.Width(colWidth-4).Render(v.textInput.View()))
		}

		cs := styles.Column
		if active {
			cs = styles.ColumnFocused
		}
		cols = append(cols, cs.Width(colWidth).Height(v.height-3).Render(strings.Join(items, "\n")))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if startCol > 0 || endCol < len(cats) {
		indicator := styles.Label.Render(fmt.Sprintf("lists %d-%d of %d", startCol+1, endCol, len(cats)))
		row = lipgloss.JoinVertical(lipgloss.Left, row, indicator)
	}
	return row
}

func (v BoardView) renderCard(task model.Task, width int, selected bool) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	color := task.Color
	if color == "" {
		color = model.DefaultColor
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
	title := dot + " " + truncate(task.Title, width-4)

	var meta []string
	if task.DueDate != nil {
		due := task.DueDate.Format("Jan 2")
		switch {
		case task.IsOverdue():
			meta = append(meta, styles.Overdue.Render("overdue "+due))
		case task.IsDueToday():
			meta = append(meta, styles.DueDate.Render("due today"))
		default:
			meta = append(meta, styles.DueDate.Render("due "+due))
		}
	}
	if task.HasCover() {
		meta = append(meta, lipgloss.NewStyle().Foreground(t.Info).Render("▣ cover"))
	}
	if task.Details != "" {
		meta = append(meta, styles.CardMeta.Render("≡"))
	}

	card := styles.Card
	if selected {
		card = styles.CardSelected
	}
	return card.Width(width).MarginBottom(0).Render(title + "\n" + strings.Join(meta, " "))
}

func (v BoardView) renderDetail(task model.Task) string {
	styles := theme.Current.Styles

	color := task.Color
	if color == "" {
		color = model.DefaultColor
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●● " + color)

	lines := []string{
		styles.Title.Render(task.Title),
		styles.Label.Render("List: ") + task.Category,
		styles.Label.Render("Color: ") + swatch,
	}
	if task.DueDate != nil {
		due := task.DueDate.Format("Mon, Jan 2 2006")
		if task.IsOverdue() {
			due = styles.Overdue.Render(due + " (overdue)")
		}
		lines = append(lines, styles.Label.Render("Due: ")+due)
	}
	if task.HasCover() {
		lines = append(lines, styles.Label.Render("Cover: ")+
			fmt.Sprintf("%s, %d bytes", cover.MIME(task.CoverImage), cover.Size(task.CoverImage)))
	}

	details := task.Details
	if details == "" {
		details = styles.Label.Render("No details")
	}
	lines = append(lines, "", details, "",
		styles.Footer.Render("e: edit • d: delete • esc: close"))

	width := min(max(v.width/2, 40), 80)
	return styles.Panel.Width(width).Render(strings.Join(lines, "\n"))
}

func (v BoardView) renderFooter() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	switch v.mode {
	case BoardModeAddCard:
		return styles.Footer.Render("enter: add card • esc: cancel")
	case BoardModeSearch:
		return styles.InputFocused.Width(v.width - 4).Render("Search: " + v.textInput.View())
	case BoardModeNewList:
		return styles.InputFocused.Width(v.width - 4).Render("New list: " + v.textInput.View())
	case BoardModeRenameList:
		return styles.InputFocused.Width(v.width - 4).Render("Edit list name: " + v.textInput.View())
	case BoardModeConfirmDeleteCard:
		title := ""
		if task, ok := v.board.Task(v.targetTaskID); ok {
			title = task.Title
		}
		return styles.Dialog.Render(lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete this task? '%s' (y/n)", title)))
	case BoardModeConfirmDeleteList:
		name := ""
		count := 0
		if cat, ok := v.board.Category(v.targetListID); ok {
			name = cat.Name
			count = len(v.board.TasksIn(cat.Name))
		}
		return styles.Dialog.Render(lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete this list? '%s' and its %d cards (y/n)", name, count)))
	}

	if v.searchFilter != "" {
		return lipgloss.NewStyle().Foreground(t.Info).Render(fmt.Sprintf("[Search: %s] ", v.searchFilter)) +
			styles.Footer.Render("esc: clear • /: edit search")
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
