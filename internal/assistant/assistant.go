package assistant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/normanking/nextup/internal/inference"
	"github.com/normanking/nextup/internal/metrics"
)

// Outcome is what a chat turn produced: a narrative for the user and the
// records created on their behalf.
type Outcome struct {
	Narrative string   `json:"response"`
	Results   []Result `json:"results"`
}

// Assistant is the front door for natural-language commands. It routes each
// message to the model interpreter when one is configured and healthy, falls
// back to deterministic rules otherwise, and applies whatever actions come
// out. A chat turn never fails: model trouble degrades the interpretation,
// it does not surface to the caller.
type Assistant struct {
	model    Interpreter
	fallback Interpreter
	executor *Executor
	breaker  *CircuitBreaker
	logger   *slog.Logger
}

// New assembles an assistant over the given store slice. client may be nil
// or unconfigured, in which case every message takes the deterministic path.
func New(client inference.Client, store RecordCreator, breaker *CircuitBreaker, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	if breaker == nil {
		breaker = NewCircuitBreaker(DefaultCircuitBreakerConfig())
	}

	var model Interpreter
	if client != nil {
		if c, ok := client.(interface{ Configured() bool }); !ok || c.Configured() {
			model = NewModelInterpreter(client)
		}
	}

	return &Assistant{
		model:    model,
		fallback: NewFallbackInterpreter(),
		executor: NewExecutor(store, logger),
		breaker:  breaker,
		logger:   logger,
	}
}

// Respond interprets the message, applies the resulting actions, and reports
// what happened. Results are in action order; a partially applied batch
// still returns the results that did persist.
func (a *Assistant) Respond(ctx context.Context, message string) *Outcome {
	interp := a.interpret(ctx, message)
	results := a.executor.Execute(ctx, interp.Actions)
	return &Outcome{Narrative: interp.Narrative, Results: results}
}

func (a *Assistant) interpret(ctx context.Context, message string) *Interpretation {
	if a.model == nil {
		return a.degrade(ctx, message, metrics.ReasonUnconfigured)
	}
	if !a.breaker.Allow() {
		return a.degrade(ctx, message, metrics.ReasonBreakerOpen)
	}

	start := time.Now()
	interp, err := a.model.Interpret(ctx, message)
	if err != nil {
		a.breaker.RecordFailure()
		reason := metrics.ReasonModelError
		if errors.Is(err, inference.ErrQuotaExceeded) {
			reason = metrics.ReasonQuota
		}
		a.logger.Warn("model interpretation failed, using fallback",
			"reason", reason, "error", err)
		return a.degrade(ctx, message, reason)
	}

	a.breaker.RecordSuccess()
	metrics.InterpretLatency.WithLabelValues("model").Observe(time.Since(start).Seconds())
	return interp
}

// degrade runs the rule-based interpreter and records why the model path was
// skipped. The fallback interpreter cannot fail.
func (a *Assistant) degrade(ctx context.Context, message, reason string) *Interpretation {
	metrics.FallbackTotal.WithLabelValues(reason).Inc()

	start := time.Now()
	interp, _ := a.fallback.Interpret(ctx, message)
	metrics.InterpretLatency.WithLabelValues("fallback").Observe(time.Since(start).Seconds())
	return interp
}
