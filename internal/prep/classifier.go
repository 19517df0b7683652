package prep

import (
	"context"
	"fmt"
	"log/slog"

	"meetprep/internal/llm"
	"meetprep/internal/logging"
)

// Classifier decides whether an email is a meeting invitation.
type Classifier struct {
	client llm.Client
	logger *slog.Logger
}

// NewClassifier creates a Classifier using the given model client.
func NewClassifier(client llm.Client, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		client: client,
		logger: logging.WithService(logger, "classifier"),
	}
}

type inviteVerdict struct {
	// Pointer so a missing field is distinguishable from false: a response
	// without the field is a classification failure, not a "no".
	IsMeetingInvite *bool `json:"is_meeting_invite"`
}

// IsMeetingInvite classifies a (subject, body) pair with a single
// structured-output model call at temperature 0. A response that does not
// carry the boolean verdict is an error; the caller decides whether to
// retry the email on a later cycle.
func (c *Classifier) IsMeetingInvite(ctx context.Context, subject, body string) (bool, error) {
	resp, err := c.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: classifySystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(classifyUserPromptFmt, subject, body)},
		},
		Temperature: 0,
	})
	if err != nil {
		return false, fmt.Errorf("classify invite: %w", err)
	}

	var verdict inviteVerdict
	if err := llm.Decode(resp.Content, &verdict); err != nil {
		return false, fmt.Errorf("classify invite: %w", err)
	}
	if verdict.IsMeetingInvite == nil {
		return false, fmt.Errorf("classify invite: %w: missing is_meeting_invite field", llm.ErrMalformedResponse)
	}

	c.logger.Debug("classified email", "subject", subject, "is_invite", *verdict.IsMeetingInvite)
	return *verdict.IsMeetingInvite, nil
}
