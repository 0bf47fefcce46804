package views

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/lanes/internal/cover"
	"github.com/dori/lanes/internal/model"
	"github.com/dori/lanes/internal/ui/theme"
)

// TaskFormSubmitMsg carries the edited task
type TaskFormSubmitMsg struct {
	Task model.Task
}

// TaskFormCancelMsg is sent when the form is closed without saving
type TaskFormCancelMsg struct{}

// coverLoadedMsg is the result of an async cover read. token ties it to
// the read that produced it.
type coverLoadedMsg struct {
	token int
	uri   string
	err   error
}

// taskBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type taskBindings struct {
	title       string
	details     string
	category    string
	color       string
	dueDate     string
	coverPath   string
	removeCover bool
}

// TaskForm edits one task. Saving with a cover path first reads the image
// in the background; closing the form cancels that read.
type TaskForm struct {
	form   *huh.Form
	fb     *taskBindings
	task   model.Task
	lists  []string
	width  int
	height int

	loading bool
	token   int
	cancel  context.CancelFunc
	loadErr string
}

// NewTaskForm creates a form for task. lists are the category names the
// task may be moved to.
func NewTaskForm(task model.Task, lists []string, width, height int) TaskForm {
	f := TaskForm{
		task:   task,
		lists:  lists,
		width:  width,
		height: height,
		fb: &taskBindings{
			title:    task.Title,
			details:  task.Details,
			category: task.Category,
			color:    task.Color,
		},
	}
	if task.DueDate != nil {
		f.fb.dueDate = task.DueDate.Format(model.DateLayout)
	}
	if f.fb.color == "" {
		f.fb.color = model.DefaultColor
	}
	f.form = f.buildForm()
	return f
}

// Init initializes the form
func (f TaskForm) Init() tea.Cmd {
	return f.form.Init()
}

// Loading reports whether a cover read is in flight
func (f TaskForm) Loading() bool {
	return f.loading
}

// Close cancels any in-flight cover read. The form must not be used after.
func (f TaskForm) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Update handles messages
func (f TaskForm) Update(msg tea.Msg) (TaskForm, tea.Cmd) {
	switch msg := msg.(type) {
	case coverLoadedMsg:
		if msg.token != f.token || !f.loading {
			return f, nil
		}
		f.loading = false
		f.cancel = nil
		if msg.err != nil {
			f.loadErr = msg.err.Error()
			f.form = f.buildForm()
			return f, f.form.Init()
		}
		return f, f.submit(msg.uri)

	case tea.KeyMsg:
		if msg.String() == "esc" {
			f.Close()
			f.loading = false
			return f, func() tea.Msg { return TaskFormCancelMsg{} }
		}
	}

	if f.loading {
		return f, nil
	}

	mdl, cmd := f.form.Update(msg)
	if hf, ok := mdl.(*huh.Form); ok {
		f.form = hf
	}

	switch f.form.State {
	case huh.StateCompleted:
		path := strings.TrimSpace(f.fb.coverPath)
		if path == "" {
			uri := f.task.CoverImage
			if f.fb.removeCover {
				uri = ""
			}
			return f, f.submit(uri)
		}
		return f.startCoverLoad(path)
	case huh.StateAborted:
		return f, func() tea.Msg { return TaskFormCancelMsg{} }
	}
	return f, cmd
}

func (f TaskForm) startCoverLoad(path string) (TaskForm, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	f.token++
	f.loading = true
	f.loadErr = ""
	f.cancel = cancel

	token := f.token
	return f, func() tea.Msg {
		uri, err := cover.Load(ctx, path, cover.MaxBytes)
		return coverLoadedMsg{token: token, uri: uri, err: err}
	}
}

func (f TaskForm) submit(coverURI string) tea.Cmd {
	due, _ := model.ParseDueDate(f.fb.dueDate)
	task := f.task
	task.Title = strings.TrimSpace(f.fb.title)
	task.Details = f.fb.details
	task.Category = f.fb.category
	task.Color = f.fb.color
	task.DueDate = due
	task.CoverImage = coverURI
	return func() tea.Msg { return TaskFormSubmitMsg{Task: task} }
}

func (f TaskForm) buildForm() *huh.Form {
	listOpts := make([]huh.Option[string], len(f.lists))
	for i, name := range f.lists {
		listOpts[i] = huh.NewOption(name, name)
	}

	swatches := slices.Clone(model.Palette)
	if !slices.Contains(swatches, f.fb.color) {
		swatches = append(swatches, f.fb.color)
	}
	colorOpts := make([]huh.Option[string], len(swatches))
	for i, c := range swatches {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		colorOpts[i] = huh.NewOption(dot+" "+c, c)
	}

	coverDesc := "Path to an image file (optional)"
	if f.loadErr != "" {
		coverDesc = "Could not load cover: " + f.loadErr
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Value(&f.fb.title).
			Validate(model.ValidateTitle),
		huh.NewText().
			Title("Details").
			Placeholder("Optional details...").
			Value(&f.fb.details),
		huh.NewSelect[string]().
			Title("List").
			Options(listOpts...).
			Value(&f.fb.category),
		huh.NewSelect[string]().
			Title("Color").
			Options(colorOpts...).
			Value(&f.fb.color),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&f.fb.dueDate).
			Validate(func(s string) error {
				_, err := model.ParseDueDate(s)
				return err
			}),
		huh.NewInput().
			Title("Cover Image").
			Description(coverDesc).
			Placeholder("~/Pictures/cover.png").
			Value(&f.fb.coverPath),
	}
	if f.task.HasCover() {
		fields = append(fields, huh.NewConfirm().
			Title("Remove current cover?").
			Value(&f.fb.removeCover))
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(f.formWidth()).
		WithShowHelp(true)
}

func (f TaskForm) formWidth() int {
	return min(max(f.width-8, 40), 90)
}

// View renders the form
func (f TaskForm) View() string {
	styles := theme.Current.Styles

	title := styles.Title.Render(fmt.Sprintf("Edit \"%s\"", f.task.Title))
	body := f.form.View()
	if f.loading {
		body = styles.Label.Render(fmt.Sprintf("Loading cover %s... (esc to cancel)", strings.TrimSpace(f.fb.coverPath)))
	}
	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
