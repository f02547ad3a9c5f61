// Package gtd defines the domain records for the organizer:
// tasks, projects, areas of focus, and goals.
package gtd

import "time"

// Category classifies a task by the context it belongs to.
type Category string

const (
	CategoryHighFocus     Category = "high_focus"
	CategoryQuickWork     Category = "quick_work"
	CategoryQuickPersonal Category = "quick_personal"
	CategoryHome          Category = "home"
	CategoryWaitingFor    Category = "waiting_for"
	CategorySomeday       Category = "someday"
)

// Categories lists every accepted task category.
var Categories = []Category{
	CategoryHighFocus,
	CategoryQuickWork,
	CategoryQuickPersonal,
	CategoryHome,
	CategoryWaitingFor,
	CategorySomeday,
}

// Timeframe classifies a goal by its horizon.
type Timeframe string

const (
	TimeframeVision    Timeframe = "vision"
	Timeframe3To5Year  Timeframe = "3_5_year"
	Timeframe1To2Year  Timeframe = "1_2_year"
	TimeframeQuarterly Timeframe = "quarterly"
	TimeframeWeekly    Timeframe = "weekly"
)

// Timeframes lists every accepted goal timeframe.
var Timeframes = []Timeframe{
	TimeframeVision,
	Timeframe3To5Year,
	Timeframe1To2Year,
	TimeframeQuarterly,
	TimeframeWeekly,
}

// Status classifies a project's standing. It is user or assistant set,
// never derived from child task completion.
type Status string

const (
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
)

// Statuses lists every accepted project status.
var Statuses = []Status{StatusActive, StatusOnHold, StatusCompleted}

// Task is a single next action.
// Invariant: CompletedAt is non-nil exactly when Completed is true.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Category    Category   `json:"category"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	ProjectID   string     `json:"projectId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Project is an outcome requiring more than one action. ProjectID references
// on tasks are soft: a task may outlive or detach from its project.
type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	AreaID    string    `json:"areaId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Area is an area of focus used to group projects. Order is display
// sequencing only; no uniqueness is enforced.
type Area struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Goal is an aspirational outcome with a timeframe.
type Goal struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timeframe Timeframe `json:"timeframe"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidCategory reports whether c is one of the accepted task categories.
func ValidCategory(c Category) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ValidTimeframe reports whether t is one of the accepted goal timeframes.
func ValidTimeframe(t Timeframe) bool {
	for _, v := range Timeframes {
		if t == v {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the accepted project statuses.
func ValidStatus(s Status) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}
