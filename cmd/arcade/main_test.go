package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunUnknownModeFails(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	if code := run([]string{"-env", "", "-mode", "arcade", "-db", db}); code != 2 {
		t.Errorf("expected exit status 2, got %d", code)
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("database should have been opened before the mode check: %v", err)
	}
}

func TestRunBadFlagFails(t *testing.T) {
	if code := run([]string{"-nope"}); code != 2 {
		t.Errorf("expected exit status 2, got %d", code)
	}
}

func TestRunBadConfigFails(t *testing.T) {
	t.Setenv("ARCADE_WORLD_WIDTH", "wide")
	if code := run([]string{"-env", "", "-mode", "term"}); code != 1 {
		t.Errorf("expected exit status 1, got %d", code)
	}
}
