package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/normanking/nextup/internal/gtd"
	"github.com/normanking/nextup/internal/metrics"
	"github.com/normanking/nextup/internal/storage"
)

// RecordCreator is the slice of the store the executor needs.
type RecordCreator interface {
	CreateTask(ctx context.Context, fields storage.TaskFields) (*gtd.Task, error)
	CreateProject(ctx context.Context, fields storage.ProjectFields) (*gtd.Project, error)
	CreateGoal(ctx context.Context, fields storage.GoalFields) (*gtd.Goal, error)
}

// Executor applies interpreted actions against the store, in order. A batch
// is applied best-effort: an action that fails validation or persistence is
// logged and skipped, and the remaining actions still run.
type Executor struct {
	store  RecordCreator
	logger *slog.Logger
}

// NewExecutor builds an executor over the given store slice.
func NewExecutor(store RecordCreator, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{store: store, logger: logger}
}

// Execute runs the actions sequentially and returns one Result per action
// that persisted. When a project action succeeds, its id is threaded into
// subsequent task actions that name no project, so "create a project and add
// tasks for it" batches attach the tasks to the new project.
func (e *Executor) Execute(ctx context.Context, actions []Action) []Result {
	results := make([]Result, 0, len(actions))
	lastProjectID := ""

	for _, action := range actions {
		switch action.Type {
		case ActionTask:
			text := strings.TrimSpace(action.Data.Text)
			if text == "" {
				e.skip(string(action.Type), metrics.SkipEmptyPayload)
				continue
			}
			projectID := action.Data.ProjectID
			if projectID == "" {
				projectID = lastProjectID
			}
			task, err := e.store.CreateTask(ctx, storage.TaskFields{
				Text:      text,
				Category:  NormalizeCategory(string(action.Data.Category)),
				ProjectID: projectID,
			})
			if err != nil {
				e.fail(string(action.Type), err)
				continue
			}
			results = append(results, Result{Type: ResultTaskCreated, Data: task})
			metrics.ActionsApplied.WithLabelValues(string(action.Type)).Inc()

		case ActionProject:
			title := strings.TrimSpace(action.Data.Title)
			if title == "" {
				e.skip(string(action.Type), metrics.SkipEmptyPayload)
				continue
			}
			status := action.Data.Status
			if !gtd.ValidStatus(status) {
				status = gtd.StatusActive
			}
			project, err := e.store.CreateProject(ctx, storage.ProjectFields{
				Title:  title,
				Status: status,
				Notes:  action.Data.Notes,
				AreaID: action.Data.AreaID,
			})
			if err != nil {
				e.fail(string(action.Type), err)
				continue
			}
			lastProjectID = project.ID
			results = append(results, Result{Type: ResultProjectCreated, Data: project})
			metrics.ActionsApplied.WithLabelValues(string(action.Type)).Inc()

		case ActionGoal:
			text := strings.TrimSpace(action.Data.Text)
			if text == "" {
				e.skip(string(action.Type), metrics.SkipEmptyPayload)
				continue
			}
			goal, err := e.store.CreateGoal(ctx, storage.GoalFields{
				Text:      text,
				Timeframe: NormalizeTimeframe(string(action.Data.Timeframe)),
			})
			if err != nil {
				e.fail(string(action.Type), err)
				continue
			}
			results = append(results, Result{Type: ResultGoalCreated, Data: goal})
			metrics.ActionsApplied.WithLabelValues(string(action.Type)).Inc()

		default:
			e.skip(string(action.Type), metrics.SkipUnknownType)
		}
	}

	return results
}

func (e *Executor) skip(actionType, reason string) {
	e.logger.Warn("skipping action", "type", actionType, "reason", reason)
	metrics.ActionsSkipped.WithLabelValues(reason).Inc()
}

func (e *Executor) fail(actionType string, err error) {
	e.logger.Error("failed to apply action", "type", actionType, "error", err)
	metrics.ActionsSkipped.WithLabelValues(metrics.SkipStoreError).Inc()
}
