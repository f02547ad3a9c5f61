package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/nextup/internal/gtd"
	"github.com/normanking/nextup/internal/inference"
	"github.com/normanking/nextup/internal/storage"
)

// fakeClient scripts the inference client's behavior.
type fakeClient struct {
	content    string
	err        error
	calls      int
	configured bool
}

func (f *fakeClient) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func (f *fakeClient) Configured() bool { return f.configured }

func TestAssistantUsesModelWhenHealthy(t *testing.T) {
	client := &fakeClient{
		configured: true,
		content:    `{"response": "I've added that task.", "actions": [{"type": "task", "data": {"text": "buy stamps", "category": "quick_personal"}}]}`,
	}
	a := New(client, storage.NewMemoryStore(), nil, nil)

	outcome := a.Respond(context.Background(), "buy stamps")
	assert.Equal(t, "I've added that task.", outcome.Narrative)
	require.Len(t, outcome.Results, 1)
	task := outcome.Results[0].Data.(*gtd.Task)
	assert.Equal(t, "buy stamps", task.Text)
	assert.Equal(t, gtd.CategoryQuickPersonal, task.Category)
}

func TestAssistantFallsBackOnModelError(t *testing.T) {
	client := &fakeClient{configured: true, err: errors.New("connection refused")}
	a := New(client, storage.NewMemoryStore(), nil, nil)

	outcome := a.Respond(context.Background(), "create project: website redesign")
	assert.Contains(t, outcome.Narrative, "backup mode")
	require.Len(t, outcome.Results, 1)
	project := outcome.Results[0].Data.(*gtd.Project)
	assert.Equal(t, "website redesign", project.Title)
	assert.Equal(t, gtd.StatusActive, project.Status)
}

func TestAssistantFallsBackOnQuotaError(t *testing.T) {
	client := &fakeClient{
		configured: true,
		err:        fmt.Errorf("%w: insufficient_quota", inference.ErrQuotaExceeded),
	}
	a := New(client, storage.NewMemoryStore(), nil, nil)

	outcome := a.Respond(context.Background(), "I need to call the dentist")
	assert.Contains(t, outcome.Narrative, "backup mode")
	require.Len(t, outcome.Results, 1)
	task := outcome.Results[0].Data.(*gtd.Task)
	assert.Equal(t, "call the dentist", task.Text)
}

func TestAssistantUnconfiguredClientSkipsModel(t *testing.T) {
	client := &fakeClient{configured: false}
	a := New(client, storage.NewMemoryStore(), nil, nil)

	outcome := a.Respond(context.Background(), "add goal: ship the beta by q1")
	assert.Zero(t, client.calls)
	require.Len(t, outcome.Results, 1)
	goal := outcome.Results[0].Data.(*gtd.Goal)
	assert.Equal(t, gtd.TimeframeQuarterly, goal.Timeframe)
}

func TestAssistantNilClientUsesFallback(t *testing.T) {
	a := New(nil, storage.NewMemoryStore(), nil, nil)

	outcome := a.Respond(context.Background(), "hello")
	assert.Contains(t, outcome.Narrative, "backup mode")
	assert.Empty(t, outcome.Results)
}

func TestAssistantBreakerShortCircuitsAfterRepeatedFailures(t *testing.T) {
	client := &fakeClient{configured: true, err: errors.New("connection refused")}
	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Hour,
	})
	a := New(client, storage.NewMemoryStore(), breaker, nil)

	for i := 0; i < 4; i++ {
		a.Respond(context.Background(), "add task: anything")
	}

	// Two failures trip the circuit; later turns skip the model entirely.
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, CircuitOpen, breaker.State())
}

func TestAssistantMalformedModelOutputStillResponds(t *testing.T) {
	client := &fakeClient{configured: true, content: "sure thing, boss"}
	a := New(client, storage.NewMemoryStore(), nil, nil)

	outcome := a.Respond(context.Background(), "add task: whatever")
	assert.Empty(t, outcome.Results)
	assert.NotEmpty(t, outcome.Narrative)
}
