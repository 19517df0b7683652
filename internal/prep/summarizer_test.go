package prep

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetprep/internal/llm"
)

func TestSummarizeFeedback(t *testing.T) {
	mock := llm.NewMock().Respond("  Keep tasks short and add buffers.  ")
	s := NewSummarizer(mock, 150, nil)

	summary, err := s.SummarizeFeedback(context.Background(), []string{"be concise", "add buffer time"})
	require.NoError(t, err)
	assert.Equal(t, "Keep tasks short and add buffers.", summary)

	require.Len(t, mock.Requests, 1)
	req := mock.Requests[0]
	assert.Zero(t, req.Temperature)
	assert.Equal(t, 150, req.MaxTokens)
	assert.Contains(t, req.Messages[1].Content, "- be concise")
	assert.Contains(t, req.Messages[1].Content, "- add buffer time")
}

func TestSummarizeFeedbackError(t *testing.T) {
	mock := llm.NewMock().Fail(errors.New("rate limited"))
	s := NewSummarizer(mock, 0, nil)

	_, err := s.SummarizeFeedback(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestSummarizeText(t *testing.T) {
	mock := llm.NewMock().Respond("A short summary.")
	s := NewSummarizer(mock, 150, nil)

	summary, err := s.SummarizeText(context.Background(), "A very long document body...")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)

	require.Len(t, mock.Requests, 1)
	assert.Contains(t, mock.Requests[0].Messages[1].Content, "A very long document body...")
}
