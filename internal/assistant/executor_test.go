package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/nextup/internal/gtd"
	"github.com/normanking/nextup/internal/metrics"
	"github.com/normanking/nextup/internal/storage"
)

// failingStore wraps a memory store and fails creates for a marked payload.
type failingStore struct {
	*storage.MemoryStore
	failTaskText string
}

func (f *failingStore) CreateTask(ctx context.Context, fields storage.TaskFields) (*gtd.Task, error) {
	if fields.Text == f.failTaskText {
		return nil, errors.New("disk full")
	}
	return f.MemoryStore.CreateTask(ctx, fields)
}

func TestExecutorAppliesBatchInOrder(t *testing.T) {
	store := storage.NewMemoryStore()
	exec := NewExecutor(store, nil)

	results := exec.Execute(context.Background(), []Action{
		{Type: ActionProject, Data: ActionData{Title: "Launch newsletter", Status: gtd.StatusActive}},
		{Type: ActionTask, Data: ActionData{Text: "Pick a platform", Category: gtd.CategoryQuickWork}},
		{Type: ActionGoal, Data: ActionData{Text: "1000 subscribers", Timeframe: gtd.TimeframeQuarterly}},
	})

	require.Len(t, results, 3)
	assert.Equal(t, ResultProjectCreated, results[0].Type)
	assert.Equal(t, ResultTaskCreated, results[1].Type)
	assert.Equal(t, ResultGoalCreated, results[2].Type)
}

func TestExecutorThreadsProjectID(t *testing.T) {
	store := storage.NewMemoryStore()
	exec := NewExecutor(store, nil)

	results := exec.Execute(context.Background(), []Action{
		{Type: ActionProject, Data: ActionData{Title: "Kitchen remodel"}},
		{Type: ActionTask, Data: ActionData{Text: "Get contractor quotes", Category: gtd.CategoryHome}},
		{Type: ActionTask, Data: ActionData{Text: "Pick countertops", Category: gtd.CategoryHome}},
	})

	require.Len(t, results, 3)
	project, ok := results[0].Data.(*gtd.Project)
	require.True(t, ok)

	for _, r := range results[1:] {
		task, ok := r.Data.(*gtd.Task)
		require.True(t, ok)
		assert.Equal(t, project.ID, task.ProjectID)
	}
}

func TestExecutorExplicitProjectIDWins(t *testing.T) {
	store := storage.NewMemoryStore()
	exec := NewExecutor(store, nil)

	results := exec.Execute(context.Background(), []Action{
		{Type: ActionProject, Data: ActionData{Title: "Side project"}},
		{Type: ActionTask, Data: ActionData{Text: "Unrelated errand", ProjectID: "other-project"}},
	})

	require.Len(t, results, 2)
	task := results[1].Data.(*gtd.Task)
	assert.Equal(t, "other-project", task.ProjectID)
}

func TestExecutorSkipsEmptyPayloads(t *testing.T) {
	store := storage.NewMemoryStore()
	exec := NewExecutor(store, nil)

	results := exec.Execute(context.Background(), []Action{
		{Type: ActionTask, Data: ActionData{Text: "   "}},
		{Type: ActionProject, Data: ActionData{Title: ""}},
		{Type: ActionGoal, Data: ActionData{Text: "still applied"}},
	})

	require.Len(t, results, 1)
	assert.Equal(t, ResultGoalCreated, results[0].Type)
}

func TestExecutorSkipsUnknownActionType(t *testing.T) {
	store := storage.NewMemoryStore()
	exec := NewExecutor(store, nil)

	skipped := metrics.ActionsSkipped.WithLabelValues(metrics.SkipUnknownType)
	before := testutil.ToFloat64(skipped)

	results := exec.Execute(context.Background(), []Action{
		{Type: ActionType("reminder"), Data: ActionData{Text: "ping me later"}},
		{Type: ActionTask, Data: ActionData{Text: "still applied"}},
	})

	require.Len(t, results, 1)
	assert.Equal(t, ResultTaskCreated, results[0].Type)
	assert.Equal(t, before+1, testutil.ToFloat64(skipped))
}

func TestExecutorContinuesAfterStoreError(t *testing.T) {
	store := &failingStore{MemoryStore: storage.NewMemoryStore(), failTaskText: "doomed"}
	exec := NewExecutor(store, nil)

	results := exec.Execute(context.Background(), []Action{
		{Type: ActionTask, Data: ActionData{Text: "doomed"}},
		{Type: ActionTask, Data: ActionData{Text: "survivor"}},
	})

	require.Len(t, results, 1)
	task := results[0].Data.(*gtd.Task)
	assert.Equal(t, "survivor", task.Text)
}

func TestExecutorDefaultsInvalidProjectStatus(t *testing.T) {
	store := storage.NewMemoryStore()
	exec := NewExecutor(store, nil)

	results := exec.Execute(context.Background(), []Action{
		{Type: ActionProject, Data: ActionData{Title: "Book club", Status: "paused"}},
	})

	require.Len(t, results, 1)
	project := results[0].Data.(*gtd.Project)
	assert.Equal(t, gtd.StatusActive, project.Status)
}
