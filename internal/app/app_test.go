package app

import (
	"context"
	"testing"

	"github.com/dori/lanes/internal/board"
	"github.com/dori/lanes/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T, persist bool) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Board.Persist = persist
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return cfg
}

func TestNewStartsFromSeed(t *testing.T) {
	a, err := New(testConfig(t, false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if got := len(a.Board.Tasks()); got != 3 {
		t.Fatalf("seed board has %d tasks, want 3", got)
	}
	if a.Session.IsAuthenticated() {
		t.Fatal("fresh session is signed in")
	}
}

func TestSingleInstance(t *testing.T) {
	cfg := testConfig(t, false)
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, err := New(cfg); err == nil {
		t.Fatal("second instance acquired the lock")
	}
}

func TestPersistedBoardRoundTrip(t *testing.T) {
	cfg := testConfig(t, true)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := a.Board.Dispatch(board.CreateTask{Title: "Water plants", Category: "Personal"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := a.Board.Dispatch(board.UpdateCategory{ID: "personal", Name: "Home"}); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()

	task, ok := b.Board.Task(res.Task.ID)
	if !ok {
		t.Fatal("created task was not persisted")
	}
	if task.Category != "Home" {
		t.Fatalf("category = %q, want Home", task.Category)
	}
	if _, ok := b.Board.CategoryByName("Personal"); ok {
		t.Fatal("old list name survived reopen")
	}
}

func TestUnpersistedBoardResets(t *testing.T) {
	cfg := testConfig(t, false)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Board.Dispatch(board.DeleteCategory{ID: "work"}); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	a.Close()

	b, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if len(b.Board.TasksIn("Work")) != 2 {
		t.Fatal("board did not reset to the seed")
	}
}

func TestAccountsWired(t *testing.T) {
	a, err := New(testConfig(t, false))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.Accounts.Register(ctx, "user@example.com", "Secret#123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := a.Accounts.Authenticate(ctx, "USER@example.com", "Secret#123"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
}
