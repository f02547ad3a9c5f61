package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/normanking/nextup/internal/gtd"
)

// SQLiteStore implements Store using SQLite for persistence.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates the necessary tables if they don't exist.
func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		category TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		completed_at TIMESTAMP,
		project_id TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT,
		area_id TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS areas (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
	CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at);
	CREATE INDEX IF NOT EXISTS idx_areas_order ON areas(display_order);
	`

	_, err := s.db.Exec(schema)
	return err
}

// ListTasks returns all tasks, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]gtd.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, category, completed, completed_at, project_id, created_at
		FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	tasks := make([]gtd.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// CreateTask persists a new task with assigned identity and timestamps.
func (s *SQLiteStore) CreateTask(ctx context.Context, fields TaskFields) (*gtd.Task, error) {
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
	var completedAt any
	if task.Completed {
		t := now
		task.CompletedAt = &t
		completedAt = t
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, text, category, completed, completed_at, project_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Text, string(task.Category), task.Completed, completedAt,
		nullableString(task.ProjectID), task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &task, nil
}

// UpdateTask applies a partial patch, keeping the completion timestamp in
// lockstep with the completed flag.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*gtd.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
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
		applyTaskCompletion(task, *patch.Completed, time.Now().UTC())
	}

	var completedAt any
	if task.CompletedAt != nil {
		completedAt = *task.CompletedAt
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET text = ?, category = ?, completed = ?, completed_at = ?, project_id = ?
		WHERE id = ?`,
		task.Text, string(task.Category), task.Completed, completedAt,
		nullableString(task.ProjectID), id)
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task outright.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteRow(ctx, "tasks", id)
}

// ListProjects returns all projects, newest first.
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]gtd.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, status, notes, area_id, created_at
		FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	projects := make([]gtd.Project, 0)
	for rows.Next() {
		var p gtd.Project
		var status string
		var notes, areaID sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &status, &notes, &areaID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Status = gtd.Status(status)
		p.Notes = notes.String
		p.AreaID = areaID.String
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject persists a new project.
func (s *SQLiteStore) CreateProject(ctx context.Context, fields ProjectFields) (*gtd.Project, error) {
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
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, status, notes, area_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		project.ID, project.Title, string(project.Status),
		nullableString(project.Notes), nullableString(project.AreaID), project.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &project, nil
}

// UpdateProject applies a partial patch.
func (s *SQLiteStore) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*gtd.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, status, notes, area_id, created_at FROM projects WHERE id = ?`, id)
	var p gtd.Project
	var status string
	var notes, areaID sql.NullString
	if err := row.Scan(&p.ID, &p.Title, &status, &notes, &areaID, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	p.Status = gtd.Status(status)
	p.Notes = notes.String
	p.AreaID = areaID.String

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	if patch.AreaID != nil {
		p.AreaID = *patch.AreaID
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE projects SET title = ?, status = ?, notes = ?, area_id = ? WHERE id = ?`,
		p.Title, string(p.Status), nullableString(p.Notes), nullableString(p.AreaID), id)
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return &p, nil
}

// DeleteProject removes a project. Tasks keep their (now dangling) projectId.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteRow(ctx, "projects", id)
}

// ListAreas returns all areas in display order.
func (s *SQLiteStore) ListAreas(ctx context.Context) ([]gtd.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, display_order, created_at
		FROM areas ORDER BY display_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	areas := make([]gtd.Area, 0)
	for rows.Next() {
		var a gtd.Area
		var description sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &description, &a.Order, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		a.Description = description.String
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// CreateArea persists a new area, appending it after the highest existing
// order unless an explicit order is supplied.
func (s *SQLiteStore) CreateArea(ctx context.Context, fields AreaFields) (*gtd.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := 0
	if fields.Order != nil {
		order = *fields.Order
	} else {
		var max sql.NullInt64
		if err := s.db.QueryRowContext(ctx, `SELECT MAX(display_order) FROM areas`).Scan(&max); err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}
		if max.Valid {
			order = int(max.Int64) + 1
		}
	}

	area := gtd.Area{
		ID:          uuid.NewString(),
		Title:       fields.Title,
		Description: fields.Description,
		Order:       order,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO areas (id, title, description, display_order, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		area.ID, area.Title, nullableString(area.Description), area.Order, area.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &area, nil
}

// UpdateArea applies a partial patch.
func (s *SQLiteStore) UpdateArea(ctx context.Context, id string, patch AreaPatch) (*gtd.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, display_order, created_at FROM areas WHERE id = ?`, id)
	var a gtd.Area
	var description sql.NullString
	if err := row.Scan(&a.ID, &a.Title, &description, &a.Order, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan area: %w", err)
	}
	a.Description = description.String

	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Order != nil {
		a.Order = *patch.Order
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE areas SET title = ?, description = ?, display_order = ? WHERE id = ?`,
		a.Title, nullableString(a.Description), a.Order, id)
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return &a, nil
}

// DeleteArea removes an area. Projects keep their (now dangling) areaId.
func (s *SQLiteStore) DeleteArea(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteRow(ctx, "areas", id)
}

// ReorderAreas applies the caller-supplied sequence. Unknown ids are
// skipped rather than failing the whole reorder.
func (s *SQLiteStore) ReorderAreas(ctx context.Context, orders []AreaOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, o := range orders {
		if _, err := tx.ExecContext(ctx, `UPDATE areas SET display_order = ? WHERE id = ?`, o.Order, o.ID); err != nil {
			tx.Rollback()
			return fmt.Errorf("reorder failed: %w", err)
		}
	}
	return tx.Commit()
}

// ListGoals returns all goals, newest first.
func (s *SQLiteStore) ListGoals(ctx context.Context) ([]gtd.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, timeframe, created_at FROM goals ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	goals := make([]gtd.Goal, 0)
	for rows.Next() {
		var g gtd.Goal
		var timeframe string
		if err := rows.Scan(&g.ID, &g.Text, &timeframe, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g.Timeframe = gtd.Timeframe(timeframe)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// CreateGoal persists a new goal.
func (s *SQLiteStore) CreateGoal(ctx context.Context, fields GoalFields) (*gtd.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal := gtd.Goal{
		ID:        uuid.NewString(),
		Text:      fields.Text,
		Timeframe: fields.Timeframe,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, text, timeframe, created_at) VALUES (?, ?, ?, ?)`,
		goal.ID, goal.Text, string(goal.Timeframe), goal.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &goal, nil
}

// UpdateGoal applies a partial patch.
func (s *SQLiteStore) UpdateGoal(ctx context.Context, id string, patch GoalPatch) (*gtd.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, timeframe, created_at FROM goals WHERE id = ?`, id)
	var g gtd.Goal
	var timeframe string
	if err := row.Scan(&g.ID, &g.Text, &timeframe, &g.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}
	g.Timeframe = gtd.Timeframe(timeframe)

	if patch.Text != nil {
		g.Text = *patch.Text
	}
	if patch.Timeframe != nil {
		g.Timeframe = *patch.Timeframe
	}

	_, err := s.db.ExecContext(ctx, `UPDATE goals SET text = ?, timeframe = ? WHERE id = ?`,
		g.Text, string(g.Timeframe), id)
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return &g, nil
}

// DeleteGoal removes a goal outright.
func (s *SQLiteStore) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteRow(ctx, "goals", id)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) getTask(ctx context.Context, id string) (*gtd.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, category, completed, completed_at, project_id, created_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return task, err
}

func (s *SQLiteStore) deleteRow(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*gtd.Task, error) {
	var task gtd.Task
	var category string
	var completedAt sql.NullTime
	var projectID sql.NullString

	err := row.Scan(&task.ID, &task.Text, &category, &task.Completed,
		&completedAt, &projectID, &task.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	task.Category = gtd.Category(category)
	task.ProjectID = projectID.String
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}
	return &task, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
