package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates a Store backed by a throwaway database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "jj-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestCommandRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Commands()

	cmd := &Command{
		ID:       "cmd-1",
		Text:     "open chrome",
		Action:   "open",
		Argument: "chrome",
		Status:   CommandStatusOK,
	}

	// Create the command
	if err := repo.Create(cmd); err != nil {
		t.Fatalf("failed to create command: %v", err)
	}

	// Verify CreatedAt is set
	if cmd.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}

	// Retrieve and verify all fields
	retrieved, err := repo.GetByID("cmd-1")
	if err != nil {
		t.Fatalf("failed to get command by ID: %v", err)
	}

	if retrieved.Text != cmd.Text {
		t.Errorf("Text mismatch: got %q, want %q", retrieved.Text, cmd.Text)
	}
	if retrieved.Action != cmd.Action {
		t.Errorf("Action mismatch: got %q, want %q", retrieved.Action, cmd.Action)
	}
	if retrieved.Argument != cmd.Argument {
		t.Errorf("Argument mismatch: got %q, want %q", retrieved.Argument, cmd.Argument)
	}
	if retrieved.Status != CommandStatusOK {
		t.Errorf("Status mismatch: got %q, want %q", retrieved.Status, CommandStatusOK)
	}
	if retrieved.Error != "" {
		t.Errorf("Error should be empty, got %q", retrieved.Error)
	}
}

func TestCommandRepository_Create_FailedCommand(t *testing.T) {
	s := newTestStore(t)
	repo := s.Commands()

	cmd := &Command{
		ID:     "cmd-err",
		Text:   "start volume control",
		Action: "volume_start",
		Status: CommandStatusError,
		Error:  "camera not available",
	}

	if err := repo.Create(cmd); err != nil {
		t.Fatalf("failed to create command: %v", err)
	}

	retrieved, err := repo.GetByID("cmd-err")
	if err != nil {
		t.Fatalf("failed to get command: %v", err)
	}
	if retrieved.Status != CommandStatusError {
		t.Errorf("Status mismatch: got %q, want %q", retrieved.Status, CommandStatusError)
	}
	if retrieved.Error != "camera not available" {
		t.Errorf("Error mismatch: got %q", retrieved.Error)
	}
}

func TestCommandRepository_Create_RejectsBadStatus(t *testing.T) {
	s := newTestStore(t)
	repo := s.Commands()

	cmd := &Command{
		ID:     "cmd-bad",
		Text:   "whatever",
		Action: "open",
		Status: CommandStatus("maybe"),
	}

	if err := repo.Create(cmd); err == nil {
		t.Error("creating a command with an invalid status should fail")
	}
}

func TestCommandRepository_Recent(t *testing.T) {
	s := newTestStore(t)
	repo := s.Commands()

	// Create several commands
	for i := 0; i < 5; i++ {
		cmd := &Command{
			ID:       fmt.Sprintf("cmd-%d", i),
			Text:     fmt.Sprintf("open app %d", i),
			Action:   "open",
			Argument: fmt.Sprintf("app %d", i),
			Status:   CommandStatusOK,
		}
		if err := repo.Create(cmd); err != nil {
			t.Fatalf("failed to create command %d: %v", i, err)
		}
	}

	// Recent should respect the limit
	recent, err := repo.Recent(3)
	if err != nil {
		t.Fatalf("failed to list recent commands: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("expected 3 commands, got %d", len(recent))
	}

	// A non-positive limit falls back to the default
	all, err := repo.Recent(0)
	if err != nil {
		t.Fatalf("failed to list with default limit: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 commands, got %d", len(all))
	}
}

func TestCommandRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Commands()

	_, err := repo.GetByID("non-existent-id")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestCommandStatus_Constants(t *testing.T) {
	// Verify the status constants match the schema CHECK constraint
	if CommandStatusOK != "ok" {
		t.Errorf("CommandStatusOK should be 'ok', got %q", CommandStatusOK)
	}
	if CommandStatusError != "error" {
		t.Errorf("CommandStatusError should be 'error', got %q", CommandStatusError)
	}
}
