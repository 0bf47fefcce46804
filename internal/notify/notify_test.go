package notify

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func newTestNotifier(desktop bool) (*Notifier, *time.Time, *[][]string) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	var calls [][]string
	n := NewNotifier(desktop)
	n.now = func() time.Time { return now }
	n.run = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	return n, &now, &calls
}

func TestToastsExpire(t *testing.T) {
	n, now, _ := newTestNotifier(false)

	n.Success("Task added")
	*now = now.Add(2 * time.Second)
	n.Error("List name already exists")

	if got := n.Active(); len(got) != 2 || got[0].Level != LevelSuccess || got[1].Level != LevelError {
		t.Fatalf("unexpected toasts %+v", got)
	}

	*now = now.Add(2 * time.Second)
	got := n.Active()
	if len(got) != 1 || got[0].Message != "List name already exists" {
		t.Fatalf("expected only the newer toast, got %+v", got)
	}

	*now = now.Add(time.Minute)
	if got := n.Active(); len(got) != 0 {
		t.Fatalf("expected no toasts, got %+v", got)
	}
}

func TestDesktopDelivery(t *testing.T) {
	n, _, calls := newTestNotifier(false)
	n.Info("quiet")
	if len(*calls) != 0 {
		t.Fatalf("desktop disabled but notify-send ran: %v", *calls)
	}

	n.SetEnabled(true)
	n.Error("Invalid email or password")
	if len(*calls) != 1 {
		t.Fatalf("expected one notify-send call, got %d", len(*calls))
	}
	want := []string{"notify-send", "-u", "critical", "-t", "3000", "-a", "lanes", "lanes", "Invalid email or password"}
	if !slices.Equal((*calls)[0], want) {
		t.Fatalf("args = %v, want %v", (*calls)[0], want)
	}
}

func TestDesktopFailureStillQueues(t *testing.T) {
	n, _, _ := newTestNotifier(true)
	n.run = func(string, ...string) error { return errors.New("no notify-send") }

	if err := n.Success("saved"); err == nil {
		t.Fatal("expected delivery error")
	}
	if len(n.Active()) != 1 {
		t.Fatal("toast dropped after delivery error")
	}
}
