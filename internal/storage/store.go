// Package storage implements keyed persistence for the organizer's records.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/normanking/nextup/internal/gtd"
)

// ErrNotFound is returned when a record id does not resolve.
var ErrNotFound = errors.New("record not found")

// TaskFields are the caller-supplied fields for creating a task.
type TaskFields struct {
	Text      string       `json:"text"`
	Category  gtd.Category `json:"category"`
	Completed bool         `json:"completed"`
	ProjectID string       `json:"projectId"`
}

// ProjectFields are the caller-supplied fields for creating a project.
type ProjectFields struct {
	Title  string     `json:"title"`
	Status gtd.Status `json:"status"`
	Notes  string     `json:"notes"`
	AreaID string     `json:"areaId"`
}

// AreaFields are the caller-supplied fields for creating an area.
// Order is optional; when nil the area is appended after the highest
// existing order.
type AreaFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
}

// GoalFields are the caller-supplied fields for creating a goal.
type GoalFields struct {
	Text      string        `json:"text"`
	Timeframe gtd.Timeframe `json:"timeframe"`
}

// TaskPatch is a partial update. Nil fields are left untouched.
// Setting Completed also sets or clears the completion timestamp.
type TaskPatch struct {
	Text      *string       `json:"text"`
	Category  *gtd.Category `json:"category"`
	Completed *bool         `json:"completed"`
	ProjectID *string       `json:"projectId"`
}

// ProjectPatch is a partial update. Nil fields are left untouched.
type ProjectPatch struct {
	Title  *string     `json:"title"`
	Status *gtd.Status `json:"status"`
	Notes  *string     `json:"notes"`
	AreaID *string     `json:"areaId"`
}

// AreaPatch is a partial update. Nil fields are left untouched.
type AreaPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

// GoalPatch is a partial update. Nil fields are left untouched.
type GoalPatch struct {
	Text      *string        `json:"text"`
	Timeframe *gtd.Timeframe `json:"timeframe"`
}

// AreaOrder pairs an area id with its new display position for bulk reorder.
type AreaOrder struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Store is the interface for organizer record persistence. Every create
// assigns identity and a creation timestamp and is independently atomic.
// Deletes do not cascade: a deleted project leaves its tasks' projectId
// dangling, to be treated as unresolvable by readers.
type Store interface {
	ListTasks(ctx context.Context) ([]gtd.Task, error)
	CreateTask(ctx context.Context, fields TaskFields) (*gtd.Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*gtd.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListProjects(ctx context.Context) ([]gtd.Project, error)
	CreateProject(ctx context.Context, fields ProjectFields) (*gtd.Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*gtd.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListAreas(ctx context.Context) ([]gtd.Area, error)
	CreateArea(ctx context.Context, fields AreaFields) (*gtd.Area, error)
	UpdateArea(ctx context.Context, id string, patch AreaPatch) (*gtd.Area, error)
	DeleteArea(ctx context.Context, id string) error
	ReorderAreas(ctx context.Context, orders []AreaOrder) error

	ListGoals(ctx context.Context) ([]gtd.Goal, error)
	CreateGoal(ctx context.Context, fields GoalFields) (*gtd.Goal, error)
	UpdateGoal(ctx context.Context, id string, patch GoalPatch) (*gtd.Goal, error)
	DeleteGoal(ctx context.Context, id string) error

	Close() error
}

// applyTaskCompletion keeps the completion timestamp in lockstep with the
// completed flag. Both backings route task patches through it.
func applyTaskCompletion(task *gtd.Task, completed bool, now time.Time) {
	if completed && !task.Completed {
		task.Completed = true
		t := now
		task.CompletedAt = &t
		return
	}
	if !completed && task.Completed {
		task.Completed = false
		task.CompletedAt = nil
	}
}
