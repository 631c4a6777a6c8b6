package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFilesRebuildsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("tasks: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rebuilt := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{path}, func() error {
			select {
			case rebuilt <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("tasks: []\nmilestones: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-rebuilt:
	case <-ctx.Done():
		t.Fatal("Expected a rebuild after the file changed")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchFiles returned %v", err)
	}
}

func TestWatchFilesNeedsFiles(t *testing.T) {
	if err := watchFiles(context.Background(), nil, func() error { return nil }); err == nil {
		t.Error("Expected error without files")
	}
}
