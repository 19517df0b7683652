package prep

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"meetprep/internal/llm"
	"meetprep/internal/logging"
)

// Summarizer condenses text with the language model: accumulated feedback
// entries into one instruction block, and attachment contents into short
// summaries. Both run at temperature 0 with a capped response length.
type Summarizer struct {
	client    llm.Client
	maxTokens int
	logger    *slog.Logger
}

// NewSummarizer creates a Summarizer. maxTokens caps every summary; zero
// means the provider default.
func NewSummarizer(client llm.Client, maxTokens int, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		client:    client,
		maxTokens: maxTokens,
		logger:    logging.WithService(logger, "summarizer"),
	}
}

// SummarizeFeedback collapses the full modification log into one concise
// instruction string. The log itself is never mutated. Failure is fatal to
// the current run.
func (s *Summarizer) SummarizeFeedback(ctx context.Context, entries []string) (string, error) {
	var list strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&list, "- %s\n", entry)
	}

	resp, err := s.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: summarizeFeedbackSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(summarizeFeedbackUserPromptFmt, list.String())},
		},
		Temperature: 0,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summarize feedback: %w", err)
	}

	s.logger.Debug("summarized feedback", "entries", len(entries))
	return strings.TrimSpace(resp.Content), nil
}

// SummarizeText condenses arbitrary document content, used for attachment
// summaries in the event descriptor.
func (s *Summarizer) SummarizeText(ctx context.Context, content string) (string, error) {
	resp, err := s.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: summarizeTextSystemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(summarizeTextUserPromptFmt, content)},
		},
		Temperature: 0,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summarize text: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}
