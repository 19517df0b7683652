package llm

import (
	"context"

	"meetprep/internal/logging"
)

// ModelCallRecorder counts completed model calls by purpose. Satisfied by
// *instrumentation.Metrics; the zero value there is a no-op.
type ModelCallRecorder interface {
	RecordModelCall(ctx context.Context, purpose, result string)
}

// WithMetrics wraps client so every completion is recorded under purpose,
// tagged with its success or error result. Each consumer of the model gets
// its own wrapped client with a fixed purpose.
func WithMetrics(client Client, purpose string, recorder ModelCallRecorder) Client {
	return &instrumentedClient{client: client, purpose: purpose, recorder: recorder}
}

type instrumentedClient struct {
	client   Client
	purpose  string
	recorder ModelCallRecorder
}

func (c *instrumentedClient) Complete(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.client.Complete(ctx, req)
	result := logging.StatusSuccess
	if err != nil {
		result = logging.StatusError
	}
	c.recorder.RecordModelCall(ctx, c.purpose, result)
	return resp, err
}
