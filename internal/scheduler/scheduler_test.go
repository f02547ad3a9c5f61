package scheduler

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/normanking/nextup/internal/storage"
)

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(storage.NewMemoryStore(), "not a cron expr", slog.Default())
	require.Error(t, err)
}

func TestDigestRunsAgainstStore(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	_, err := store.CreateTask(ctx, storage.TaskFields{Text: "one", Category: "quick_work"})
	require.NoError(t, err)
	_, err = store.CreateProject(ctx, storage.ProjectFields{Title: "p", Status: "active"})
	require.NoError(t, err)

	s, err := New(store, "0 3 * * *", slog.Default())
	require.NoError(t, err)

	// Drive the job directly; cron scheduling itself is the library's concern.
	s.runDigest()

	s.Start()
	s.Stop()
}
