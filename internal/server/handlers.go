package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/normanking/nextup/internal/assistant"
	"github.com/normanking/nextup/internal/gtd"
	"github.com/normanking/nextup/internal/storage"
)

// ChatRequest is the body of POST /api/ai/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse pairs the assistant's narrative with the records it created.
type ChatResponse struct {
	Message string             `json:"message"`
	Actions []assistant.Result `json:"actions"`
}

// ReorderRequest is the body of POST /api/areas/reorder.
type ReorderRequest struct {
	Orders []storage.AreaOrder `json:"orders"`
}

// pathID extracts the trailing id from routes like /api/tasks/{id}.
func pathID(r *http.Request, prefix string) string {
	return strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
}

// chatHandler runs one assistant turn. Model failures never surface as 5xx;
// the assistant degrades to its rule-based path and the turn still succeeds.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	outcome := s.assist.Respond(r.Context(), req.Message)
	results := outcome.Results
	if results == nil {
		results = []assistant.Result{}
	}
	s.writeJSON(w, http.StatusOK, ChatResponse{Message: outcome.Narrative, Actions: results})
}

// tasksHandler handles GET (list) and POST (create) on /api/tasks.
func (s *Server) tasksHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tasks, err := s.store.ListTasks(r.Context())
		if err != nil {
			s.fail(w, "Failed to fetch tasks", err)
			return
		}
		s.writeJSON(w, http.StatusOK, tasks)

	case http.MethodPost:
		var fields storage.TaskFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid task data")
			return
		}
		fields.Text = strings.TrimSpace(fields.Text)
		if fields.Text == "" || !gtd.ValidCategory(fields.Category) {
			s.writeError(w, http.StatusBadRequest, "Invalid task data")
			return
		}
		task, err := s.store.CreateTask(r.Context(), fields)
		if err != nil {
			s.fail(w, "Failed to create task", err)
			return
		}
		s.writeJSON(w, http.StatusCreated, task)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// taskByIDHandler handles PATCH and DELETE on /api/tasks/{id}.
func (s *Server) taskByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/tasks/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var patch storage.TaskPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid task data")
			return
		}
		if patch.Category != nil && !gtd.ValidCategory(*patch.Category) {
			s.writeError(w, http.StatusBadRequest, "Invalid task data")
			return
		}
		task, err := s.store.UpdateTask(r.Context(), id, patch)
		if err != nil {
			s.storeError(w, "Task not found", "Failed to update task", err)
			return
		}
		s.writeJSON(w, http.StatusOK, task)

	case http.MethodDelete:
		if err := s.store.DeleteTask(r.Context(), id); err != nil {
			s.storeError(w, "Task not found", "Failed to delete task", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// projectsHandler handles GET (list) and POST (create) on /api/projects.
func (s *Server) projectsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projects, err := s.store.ListProjects(r.Context())
		if err != nil {
			s.fail(w, "Failed to fetch projects", err)
			return
		}
		s.writeJSON(w, http.StatusOK, projects)

	case http.MethodPost:
		var fields storage.ProjectFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid project data")
			return
		}
		fields.Title = strings.TrimSpace(fields.Title)
		if fields.Status == "" {
			fields.Status = gtd.StatusActive
		}
		if fields.Title == "" || !gtd.ValidStatus(fields.Status) {
			s.writeError(w, http.StatusBadRequest, "Invalid project data")
			return
		}
		project, err := s.store.CreateProject(r.Context(), fields)
		if err != nil {
			s.fail(w, "Failed to create project", err)
			return
		}
		s.writeJSON(w, http.StatusCreated, project)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// projectByIDHandler handles PATCH and DELETE on /api/projects/{id}.
func (s *Server) projectByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/projects/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var patch storage.ProjectPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid project data")
			return
		}
		if patch.Status != nil && !gtd.ValidStatus(*patch.Status) {
			s.writeError(w, http.StatusBadRequest, "Invalid project data")
			return
		}
		project, err := s.store.UpdateProject(r.Context(), id, patch)
		if err != nil {
			s.storeError(w, "Project not found", "Failed to update project", err)
			return
		}
		s.writeJSON(w, http.StatusOK, project)

	case http.MethodDelete:
		// Deletes do not cascade; tasks keep their dangling projectId.
		if err := s.store.DeleteProject(r.Context(), id); err != nil {
			s.storeError(w, "Project not found", "Failed to delete project", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// areasHandler handles GET (list) and POST (create) on /api/areas.
func (s *Server) areasHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		areas, err := s.store.ListAreas(r.Context())
		if err != nil {
			s.fail(w, "Failed to fetch areas", err)
			return
		}
		s.writeJSON(w, http.StatusOK, areas)

	case http.MethodPost:
		var fields storage.AreaFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid area data")
			return
		}
		fields.Title = strings.TrimSpace(fields.Title)
		if fields.Title == "" {
			s.writeError(w, http.StatusBadRequest, "Invalid area data")
			return
		}
		area, err := s.store.CreateArea(r.Context(), fields)
		if err != nil {
			s.fail(w, "Failed to create area", err)
			return
		}
		s.writeJSON(w, http.StatusCreated, area)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// areaByIDHandler handles PATCH and DELETE on /api/areas/{id}.
func (s *Server) areaByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/areas/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "Area not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var patch storage.AreaPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid area data")
			return
		}
		area, err := s.store.UpdateArea(r.Context(), id, patch)
		if err != nil {
			s.storeError(w, "Area not found", "Failed to update area", err)
			return
		}
		s.writeJSON(w, http.StatusOK, area)

	case http.MethodDelete:
		if err := s.store.DeleteArea(r.Context(), id); err != nil {
			s.storeError(w, "Area not found", "Failed to delete area", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// reorderAreasHandler applies a bulk display-order update.
func (s *Server) reorderAreasHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid reorder data")
		return
	}
	if err := s.store.ReorderAreas(r.Context(), req.Orders); err != nil {
		s.fail(w, "Failed to reorder areas", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// goalsHandler handles GET (list) and POST (create) on /api/goals.
func (s *Server) goalsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goals, err := s.store.ListGoals(r.Context())
		if err != nil {
			s.fail(w, "Failed to fetch goals", err)
			return
		}
		s.writeJSON(w, http.StatusOK, goals)

	case http.MethodPost:
		var fields storage.GoalFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid goal data")
			return
		}
		fields.Text = strings.TrimSpace(fields.Text)
		if fields.Text == "" || !gtd.ValidTimeframe(fields.Timeframe) {
			s.writeError(w, http.StatusBadRequest, "Invalid goal data")
			return
		}
		goal, err := s.store.CreateGoal(r.Context(), fields)
		if err != nil {
			s.fail(w, "Failed to create goal", err)
			return
		}
		s.writeJSON(w, http.StatusCreated, goal)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// goalByIDHandler handles PATCH and DELETE on /api/goals/{id}.
func (s *Server) goalByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/goals/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, "Goal not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var patch storage.GoalPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid goal data")
			return
		}
		if patch.Timeframe != nil && !gtd.ValidTimeframe(*patch.Timeframe) {
			s.writeError(w, http.StatusBadRequest, "Invalid goal data")
			return
		}
		goal, err := s.store.UpdateGoal(r.Context(), id, patch)
		if err != nil {
			s.storeError(w, "Goal not found", "Failed to update goal", err)
			return
		}
		s.writeJSON(w, http.StatusOK, goal)

	case http.MethodDelete:
		if err := s.store.DeleteGoal(r.Context(), id); err != nil {
			s.storeError(w, "Goal not found", "Failed to delete goal", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// fail reports a storage or internal failure as a 500 with a stable message.
func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "error", err)
	s.writeError(w, http.StatusInternalServerError, msg)
}

// storeError maps ErrNotFound to 404 and anything else to 500.
func (s *Server) storeError(w http.ResponseWriter, notFoundMsg, failMsg string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	s.fail(w, failMsg, err)
}
