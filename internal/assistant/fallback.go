package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/normanking/nextup/internal/gtd"
)

// FallbackInterpreter is a deterministic, rule-based interpreter used when
// no model is configured or the model is unreachable. It classifies the
// message as a task, project, or goal request, extracts the payload text
// with literal-prefix patterns, and sniffs categories and timeframes from
// keywords. Its narratives disclose that it is running in backup mode so the
// user knows the degraded path handled the request.
type FallbackInterpreter struct{}

// NewFallbackInterpreter returns the rule-based interpreter.
func NewFallbackInterpreter() *FallbackInterpreter {
	return &FallbackInterpreter{}
}

var (
	taskPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:add|create|new) task:?\s*(.*?)\.?$`),
		regexp.MustCompile(`(?i)(?:i need to|should|remember to)\s+(.*?)\.?$`),
		regexp.MustCompile(`(?i)task:?\s*(.*?)\.?$`),
	}
	projectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:add|create|new|start) project:?\s*(.*?)\.?$`),
		regexp.MustCompile(`(?i)project:?\s*(.*?)\.?$`),
	}
	goalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:add|create|new|set) goal:?\s*(.*?)\.?$`),
		regexp.MustCompile(`(?i)goal:?\s*(.*?)\.?$`),
	}
	quarterPattern = regexp.MustCompile(`\bq[1-4]\b`)
)

// Interpret never fails; every message maps to a task, project, goal, or a
// usage hint with zero actions. Classification is checked in task, project,
// goal order, so a message mentioning both "task" and "project" is treated
// as a task request.
func (f *FallbackInterpreter) Interpret(_ context.Context, message string) (*Interpretation, error) {
	lower := strings.ToLower(message)

	if containsAny(lower, "task", "remember", "need to", "should") {
		text := extract(message, taskPatterns)
		category := sniffCategory(lower)
		return &Interpretation{
			Narrative: fmt.Sprintf(
				"I've created a task %q in your %s category. Even though I'm running in backup mode, I can still help you stay organized!",
				text, strings.ReplaceAll(string(category), "_", " ")),
			Actions: []Action{{Type: ActionTask, Data: ActionData{Text: text, Category: category}}},
		}, nil
	}

	if containsAny(lower, "project", "initiative", "campaign") {
		title := extract(message, projectPatterns)
		return &Interpretation{
			Narrative: fmt.Sprintf(
				"I've created a new project %q for you. I'm currently running in backup mode, but your GTD system is fully functional!",
				title),
			Actions: []Action{{Type: ActionProject, Data: ActionData{
				Title:  title,
				Status: gtd.StatusActive,
				Notes:  "Created via AI assistant (backup mode)",
			}}},
		}, nil
	}

	if containsAny(lower, "goal", "vision", "aspir", "dream") {
		text := extract(message, goalPatterns)
		timeframe := sniffTimeframe(lower)
		return &Interpretation{
			Narrative: fmt.Sprintf(
				"I've added %q as a %s goal. I'm operating in backup mode right now, but your goals are safely stored!",
				text, strings.ReplaceAll(string(timeframe), "_", "-")),
			Actions: []Action{{Type: ActionGoal, Data: ActionData{Text: text, Timeframe: timeframe}}},
		}, nil
	}

	return &Interpretation{
		Narrative: "I'm currently operating in backup mode due to temporary API limitations, but I can still help you create tasks, projects, and goals! Try saying things like 'I need to call the dentist' or 'create project: website redesign'.",
	}, nil
}

// extract returns the first pattern's capture, trimmed, or the whole message
// when nothing matches.
func extract(message string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(message); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return message
}

// sniffCategory picks a task category from keywords, defaulting to
// quick_work. Earlier branches win when keywords from several appear.
func sniffCategory(lower string) gtd.Category {
	switch {
	case containsAny(lower, "personal", "doctor", "family", "friend"):
		return gtd.CategoryQuickPersonal
	case containsAny(lower, "home", "house", "clean", "fix"):
		return gtd.CategoryHome
	case containsAny(lower, "important", "urgent", "focus", "priority"):
		return gtd.CategoryHighFocus
	case containsAny(lower, "wait", "waiting", "follow up"):
		return gtd.CategoryWaitingFor
	case containsAny(lower, "maybe", "someday", "consider"):
		return gtd.CategorySomeday
	default:
		return gtd.CategoryQuickWork
	}
}

// sniffTimeframe picks a goal timeframe from keywords, defaulting to
// 1_2_year. Bare digits only count toward 3_5_year alongside a year or
// medium-term cue, so "increase revenue by 20%" stays near-term.
func sniffTimeframe(lower string) gtd.Timeframe {
	switch {
	case containsAny(lower, "vision", "long", "life", "20", "retire"):
		return gtd.TimeframeVision
	case containsAny(lower, "quarter", "qtr", "3 month", "90 day") || quarterPattern.MatchString(lower):
		return gtd.TimeframeQuarterly
	case containsAny(lower, "week", "7 day", "eow", "by friday"):
		return gtd.TimeframeWeekly
	case strings.Contains(lower, "3") && containsAny(lower, "year", "medium"),
		strings.Contains(lower, "5") && strings.Contains(lower, "year"):
		return gtd.Timeframe3To5Year
	default:
		return gtd.Timeframe1To2Year
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
