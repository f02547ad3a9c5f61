package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/normanking/nextup/internal/gtd"
)

// MemoryStore implements Store with in-process maps. It backs tests and
// ephemeral runs; the sqlite store carries the same semantics for durable
// deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	tasks    map[string]gtd.Task
	projects map[string]gtd.Project
	areas    map[string]gtd.Area
	goals    map[string]gtd.Goal
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:    make(map[string]gtd.Task),
		projects: make(map[string]gtd.Project),
		areas:    make(map[string]gtd.Area),
		goals:    make(map[string]gtd.Goal),
	}
}

// ListTasks returns all tasks, newest first.
func (s *MemoryStore) ListTasks(ctx context.Context) ([]gtd.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]gtd.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// CreateTask persists a new task with assigned identity and timestamps.
func (s *MemoryStore) CreateTask(ctx context.Context, fields TaskFields) (*gtd.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	task := gtd.Task{
		ID:        uuid.NewString(),
		Text:      fields.Text,
		Category:  fields.Category,
		Completed: fields.Completed,
		ProjectID: fields.ProjectID,
		CreatedAt: now,
	}
	if task.Completed {
		t := now
		task.CompletedAt = &t
	}
	s.tasks[task.ID] = task
	return &task, nil
}

// UpdateTask applies a partial patch. The completion timestamp follows the
// completed flag.
func (s *MemoryStore) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*gtd.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Text != nil {
		task.Text = *patch.Text
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.ProjectID != nil {
		task.ProjectID = *patch.ProjectID
	}
	if patch.Completed != nil {
		applyTaskCompletion(&task, *patch.Completed, time.Now().UTC())
	}
	s.tasks[id] = task
	return &task, nil
}

// DeleteTask removes a task outright.
func (s *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// ListProjects returns all projects, newest first.
func (s *MemoryStore) ListProjects(ctx context.Context) ([]gtd.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]gtd.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

// CreateProject persists a new project.
func (s *MemoryStore) CreateProject(ctx context.Context, fields ProjectFields) (*gtd.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project := gtd.Project{
		ID:        uuid.NewString(),
		Title:     fields.Title,
		Status:    fields.Status,
		Notes:     fields.Notes,
		AreaID:    fields.AreaID,
		CreatedAt: time.Now().UTC(),
	}
	s.projects[project.ID] = project
	return &project, nil
}

// UpdateProject applies a partial patch.
func (s *MemoryStore) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*gtd.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Title != nil {
		project.Title = *patch.Title
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}
	if patch.Notes != nil {
		project.Notes = *patch.Notes
	}
	if patch.AreaID != nil {
		project.AreaID = *patch.AreaID
	}
	s.projects[id] = project
	return &project, nil
}

// DeleteProject removes a project. Tasks referencing it keep their
// projectId; readers treat the dangling id as unresolvable.
func (s *MemoryStore) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// ListAreas returns all areas in display order.
func (s *MemoryStore) ListAreas(ctx context.Context) ([]gtd.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	areas := make([]gtd.Area, 0, len(s.areas))
	for _, a := range s.areas {
		areas = append(areas, a)
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Order != areas[j].Order {
			return areas[i].Order < areas[j].Order
		}
		return areas[i].CreatedAt.Before(areas[j].CreatedAt)
	})
	return areas, nil
}

// CreateArea persists a new area, appending it after the highest existing
// order unless an explicit order is supplied.
func (s *MemoryStore) CreateArea(ctx context.Context, fields AreaFields) (*gtd.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := 0
	if fields.Order != nil {
		order = *fields.Order
	} else {
		for _, a := range s.areas {
			if a.Order >= order {
				order = a.Order + 1
			}
		}
	}

	area := gtd.Area{
		ID:          uuid.NewString(),
		Title:       fields.Title,
		Description: fields.Description,
		Order:       order,
		CreatedAt:   time.Now().UTC(),
	}
	s.areas[area.ID] = area
	return &area, nil
}

// UpdateArea applies a partial patch.
func (s *MemoryStore) UpdateArea(ctx context.Context, id string, patch AreaPatch) (*gtd.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	area, ok := s.areas[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Title != nil {
		area.Title = *patch.Title
	}
	if patch.Description != nil {
		area.Description = *patch.Description
	}
	if patch.Order != nil {
		area.Order = *patch.Order
	}
	s.areas[id] = area
	return &area, nil
}

// DeleteArea removes an area. Projects referencing it keep their areaId.
func (s *MemoryStore) DeleteArea(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.areas[id]; !ok {
		return ErrNotFound
	}
	delete(s.areas, id)
	return nil
}

// ReorderAreas applies the caller-supplied sequence in one pass. Unknown
// ids are skipped rather than failing the whole reorder.
func (s *MemoryStore) ReorderAreas(ctx context.Context, orders []AreaOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range orders {
		area, ok := s.areas[o.ID]
		if !ok {
			continue
		}
		area.Order = o.Order
		s.areas[o.ID] = area
	}
	return nil
}

// ListGoals returns all goals, newest first.
func (s *MemoryStore) ListGoals(ctx context.Context) ([]gtd.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]gtd.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].CreatedAt.After(goals[j].CreatedAt)
	})
	return goals, nil
}

// CreateGoal persists a new goal.
func (s *MemoryStore) CreateGoal(ctx context.Context, fields GoalFields) (*gtd.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal := gtd.Goal{
		ID:        uuid.NewString(),
		Text:      fields.Text,
		Timeframe: fields.Timeframe,
		CreatedAt: time.Now().UTC(),
	}
	s.goals[goal.ID] = goal
	return &goal, nil
}

// UpdateGoal applies a partial patch.
func (s *MemoryStore) UpdateGoal(ctx context.Context, id string, patch GoalPatch) (*gtd.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Text != nil {
		goal.Text = *patch.Text
	}
	if patch.Timeframe != nil {
		goal.Timeframe = *patch.Timeframe
	}
	s.goals[id] = goal
	return &goal, nil
}

// DeleteGoal removes a goal outright.
func (s *MemoryStore) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[id]; !ok {
		return ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
