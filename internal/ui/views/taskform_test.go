package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/lanes/internal/model"
)

func testTask() model.Task {
	return model.Task{ID: "1", Title: "Setup project", Category: "Work", Color: "#607d8b"}
}

func TestTaskFormEscCancels(t *testing.T) {
	f := NewTaskForm(testTask(), []string{"Work", "Personal"}, 100, 40)

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	if _, ok := cmd().(TaskFormCancelMsg); !ok {
		t.Fatal("esc did not cancel the form")
	}
	if f.Loading() {
		t.Fatal("form still loading after esc")
	}
}

func TestTaskFormCancelsCoverLoad(t *testing.T) {
	f := NewTaskForm(testTask(), []string{"Work"}, 100, 40)

	f, _ = f.startCoverLoad("/nonexistent/cover.png")
	if !f.Loading() {
		t.Fatal("cover load did not start")
	}
	token := f.token

	// A result from an earlier read is ignored
	f, cmd := f.Update(coverLoadedMsg{token: token - 1, uri: "data:image/png;base64,AA=="})
	if cmd != nil || !f.Loading() {
		t.Fatal("stale cover result was applied")
	}

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if f.Loading() {
		t.Fatal("esc left the cover load running")
	}

	// The result of the cancelled read arrives after close
	if _, cmd := f.Update(coverLoadedMsg{token: token, uri: "data:image/png;base64,AA=="}); cmd != nil {
		t.Fatal("result of a cancelled read was submitted")
	}
}

func TestTaskFormCoverSuccessSubmits(t *testing.T) {
	task := testTask()
	f := NewTaskForm(task, []string{"Work"}, 100, 40)

	f, _ = f.startCoverLoad("cover.png")
	_, cmd := f.Update(coverLoadedMsg{token: f.token, uri: "data:image/png;base64,AA=="})
	if cmd == nil {
		t.Fatal("successful cover load returned no command")
	}
	msg, ok := cmd().(TaskFormSubmitMsg)
	if !ok {
		t.Fatalf("got %T, want TaskFormSubmitMsg", cmd())
	}
	if msg.Task.CoverImage != "data:image/png;base64,AA==" || msg.Task.Title != task.Title {
		t.Fatalf("submitted %+v", msg.Task)
	}
}
