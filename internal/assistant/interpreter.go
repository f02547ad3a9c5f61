package assistant

import (
	"context"

	"github.com/normanking/nextup/internal/inference"
)

// Interpreter derives structured actions from a free-text user message.
type Interpreter interface {
	Interpret(ctx context.Context, message string) (*Interpretation, error)
}

// ModelInterpreter asks a chat-completions model to extract actions. The
// model is directed to answer with a JSON object, but its output is never
// trusted: decoding failures degrade to a narrative with no actions instead
// of surfacing as errors.
type ModelInterpreter struct {
	client inference.Client
}

// NewModelInterpreter wraps an inference client.
func NewModelInterpreter(client inference.Client) *ModelInterpreter {
	return &ModelInterpreter{client: client}
}

// Interpret sends the message to the model and decodes the reply. The only
// errors returned are transport or API failures from the client; a reachable
// model always yields a usable interpretation.
func (m *ModelInterpreter) Interpret(ctx context.Context, message string) (*Interpretation, error) {
	content, err := m.client.Complete(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}
	return decodeModelResponse(content), nil
}
