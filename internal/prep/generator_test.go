package prep

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"meetprep/internal/event"
	"meetprep/internal/llm"
)

// scriptedApproval replays a fixed sequence of decisions and records what
// the generator presented.
type scriptedApproval struct {
	decisions []Decision
	calls     int
	drafts    []*TaskPlan
	err       error
}

func (s *scriptedApproval) RequestApproval(_ context.Context, draft *TaskPlan, iteration, maxIterations int) (Decision, error) {
	s.calls++
	s.drafts = append(s.drafts, draft)
	if s.err != nil {
		return Decision{}, s.err
	}
	if len(s.decisions) == 0 {
		// Default to revising forever.
		return Revise(fmt.Sprintf("feedback %d", iteration)), nil
	}
	d := s.decisions[0]
	s.decisions = s.decisions[1:]
	return d, nil
}

type fakeSummarizer struct {
	calls   int
	entries [][]string
	summary string
	err     error
}

func (f *fakeSummarizer) SummarizeFeedback(_ context.Context, entries []string) (string, error) {
	f.calls++
	f.entries = append(f.entries, entries)
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func planJSON(title string, tasks ...string) string {
	var items []string
	for _, task := range tasks {
		items = append(items, fmt.Sprintf(`{"task": %q, "task_duration": 30, "note": "check beforehand"}`, task))
	}
	return fmt.Sprintf(`{"title": %q, "tasks": [%s]}`, title, strings.Join(items, ", "))
}

func testDescriptor() *event.Descriptor {
	return &event.Descriptor{
		Title:        "Quarterly Review",
		Description:  "Review Q3 results",
		Start:        time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		End:          time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
		Duration:     time.Hour,
		Participants: 4,
		Attachments: []event.AttachmentSummary{
			{Title: "Q3 numbers", Summary: "Revenue up 12 percent"},
		},
	}
}

func newTestGenerator(t *testing.T, mock *llm.Mock, summarizer FeedbackSummarizer, approval ApprovalPort, opts GeneratorOptions) *Generator {
	t.Helper()
	g, err := NewGenerator(mock, summarizer, approval, opts, nil)
	require.NoError(t, err)
	return g
}

func TestNewGeneratorValidation(t *testing.T) {
	mock := llm.NewMock()
	sum := &fakeSummarizer{}
	port := &scriptedApproval{}

	tests := []struct {
		name string
		opts GeneratorOptions
	}{
		{name: "zero max iterations", opts: GeneratorOptions{MaxIterations: 0, SummaryThreshold: 1}},
		{name: "zero summary threshold", opts: GeneratorOptions{MaxIterations: 1, SummaryThreshold: 0}},
		{name: "temperature out of range", opts: GeneratorOptions{MaxIterations: 1, SummaryThreshold: 1, Temperature: 1.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(mock, sum, port, tt.opts, nil)
			assert.Error(t, err)
		})
	}
}

func TestGenerateFirstDraftAccepted(t *testing.T) {
	mock := llm.NewMock().Respond(planJSON("Quarterly Review", "Read the Q3 report"))
	sum := &fakeSummarizer{}
	port := &scriptedApproval{decisions: []Decision{Accept()}}

	g := newTestGenerator(t, mock, sum, port, GeneratorOptions{MaxIterations: 3, SummaryThreshold: 2})

	res, err := g.Generate(context.Background(), testDescriptor(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, mock.Calls(), "exactly one generation call")
	assert.Equal(t, 1, port.calls)
	assert.Equal(t, 0, sum.calls, "empty log must not be summarized")
	assert.Equal(t, OutcomeAccepted, res.Outcome)
	assert.Equal(t, 1, res.Iterations)
	assert.Empty(t, res.Feedback, "first-try accept returns no feedback")
	assert.Equal(t, "Quarterly Review", res.Plan.Title)
	require.Len(t, res.Plan.Tasks, 1)
	assert.Equal(t, "Read the Q3 report", res.Plan.Tasks[0].Task)
	assert.Equal(t, 30, res.Plan.Tasks[0].DurationMinutes)
}

func TestGenerateAlwaysRevisingExhausts(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		t.Run(fmt.Sprintf("max_iterations=%d", n), func(t *testing.T) {
			mock := llm.NewMock()
			for i := 0; i < n; i++ {
				mock.Respond(planJSON("T", fmt.Sprintf("draft %d", i+1)))
			}
			port := &scriptedApproval{} // revises forever
			sum := &fakeSummarizer{}

			g := newTestGenerator(t, mock, sum, port, GeneratorOptions{MaxIterations: n, SummaryThreshold: 2})

			res, err := g.Generate(context.Background(), testDescriptor(), nil)
			require.NoError(t, err)

			assert.Equal(t, n, mock.Calls(), "exactly N generation calls")
			assert.Equal(t, OutcomeExhausted, res.Outcome)
			assert.Equal(t, n, res.Iterations)
			assert.Equal(t, fmt.Sprintf("draft %d", n), res.Plan.Tasks[0].Task, "Nth draft is returned")

			if n == 1 {
				assert.Empty(t, res.Feedback, "no second iteration exists to apply feedback to")
			} else {
				assert.Equal(t, fmt.Sprintf("feedback %d", n-1), res.Feedback,
					"feedback from the last redraft is returned")
			}
		})
	}
}

func TestGenerateFinalIterationFeedbackDropped(t *testing.T) {
	mock := llm.NewMock().
		Respond(planJSON("T", "draft 1")).
		Respond(planJSON("T", "draft 2"))
	port := &scriptedApproval{decisions: []Decision{
		Revise("apply this"),
		Revise("too late"), // given on the final iteration
	}}
	sum := &fakeSummarizer{}

	g := newTestGenerator(t, mock, sum, port, GeneratorOptions{MaxIterations: 2, SummaryThreshold: 2})

	res, err := g.Generate(context.Background(), testDescriptor(), nil)
	require.NoError(t, err)

	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Equal(t, "apply this", res.Feedback, "final-iteration feedback is never captured")
}

func TestGenerateSummarizationThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		log       []string
		wantCalls int
	}{
		{name: "log below threshold", threshold: 5, log: []string{"one entry"}, wantCalls: 0},
		{name: "empty log", threshold: 1, log: nil, wantCalls: 0},
		{name: "log exactly at threshold", threshold: 2, log: []string{"a", "b"}, wantCalls: 1},
		{name: "log above threshold", threshold: 2, log: []string{"a", "b", "c"}, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMock()
			for i := 0; i < 3; i++ {
				mock.Respond(planJSON("T", "t"))
			}
			sum := &fakeSummarizer{summary: "condensed feedback"}
			port := &scriptedApproval{} // revise forever so all 3 iterations run

			g := newTestGenerator(t, mock, sum, port, GeneratorOptions{MaxIterations: 3, SummaryThreshold: tt.threshold})

			_, err := g.Generate(context.Background(), testDescriptor(), tt.log)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, sum.calls,
				"summarization happens at most once per run, decided at run start")
			if tt.wantCalls > 0 {
				assert.Equal(t, tt.log, sum.entries[0], "full log is passed to the summarizer")
				// The summary is injected into every iteration's prompt.
				for _, req := range mock.Requests {
					assert.Contains(t, req.Messages[1].Content, "condensed feedback")
				}
			}
		})
	}
}

func TestGenerateScenarioThreeIterations(t *testing.T) {
	// Pre-existing log meets the threshold; the user rejects two drafts
	// with feedback and accepts the third.
	mock := llm.NewMock().
		Respond(planJSON("Quarterly Review", "draft 1")).
		Respond(planJSON("Quarterly Review", "draft 2")).
		Respond(planJSON("Quarterly Review", "draft 3"))
	sum := &fakeSummarizer{summary: "be concise and include buffers"}
	port := &scriptedApproval{decisions: []Decision{
		Revise("include travel time"),
		Revise("shorter tasks"),
		Accept(),
	}}

	g := newTestGenerator(t, mock, sum, port, GeneratorOptions{MaxIterations: 3, SummaryThreshold: 2})

	res, err := g.Generate(context.Background(), testDescriptor(), []string{"be concise", "add buffer time"})
	require.NoError(t, err)

	assert.Equal(t, 3, mock.Calls())
	assert.Equal(t, 1, sum.calls)
	assert.Equal(t, OutcomeAccepted, res.Outcome)
	assert.Equal(t, "shorter tasks", res.Feedback, "last feedback given during the run")
	assert.Equal(t, "draft 3", res.Plan.Tasks[0].Task)

	// The prompt grows monotonically: the third request carries the summary
	// and both feedback strings as literal text.
	final := mock.Requests[2].Messages[1].Content
	assert.Contains(t, final, "be concise and include buffers")
	assert.Contains(t, final, "include travel time")
	assert.Contains(t, final, "shorter tasks")

	// The second request must not yet contain the second feedback.
	assert.NotContains(t, mock.Requests[1].Messages[1].Content, "shorter tasks")
}

func TestGeneratePromptContainsEventDetails(t *testing.T) {
	mock := llm.NewMock().Respond(planJSON("T", "t"))
	port := &scriptedApproval{decisions: []Decision{Accept()}}

	g := newTestGenerator(t, mock, &fakeSummarizer{}, port, GeneratorOptions{MaxIterations: 1, SummaryThreshold: 1})

	_, err := g.Generate(context.Background(), testDescriptor(), nil)
	require.NoError(t, err)

	prompt := mock.Requests[0].Messages[1].Content
	assert.Contains(t, prompt, "Quarterly Review")
	assert.Contains(t, prompt, "Review Q3 results")
	assert.Contains(t, prompt, "1h0m0s")
	assert.Contains(t, prompt, "Number of Participants: 4")
	assert.Contains(t, prompt, "Q3 numbers")
	assert.Contains(t, prompt, "Revenue up 12 percent")
	assert.Equal(t, generateSystemPrompt, mock.Requests[0].Messages[0].Content)
}

func TestGenerateTemperaturePassthrough(t *testing.T) {
	mock := llm.NewMock().Respond(planJSON("T", "t"))
	port := &scriptedApproval{decisions: []Decision{Accept()}}

	g := newTestGenerator(t, mock, &fakeSummarizer{}, port,
		GeneratorOptions{MaxIterations: 1, SummaryThreshold: 1, Temperature: 0.7})

	_, err := g.Generate(context.Background(), testDescriptor(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, mock.Requests[0].Temperature, 1e-9)
}

func TestGenerateFailures(t *testing.T) {
	t.Run("malformed generation response is fatal", func(t *testing.T) {
		mock := llm.NewMock().Respond("not json at all")
		port := &scriptedApproval{}
		g := newTestGenerator(t, mock, &fakeSummarizer{}, port, GeneratorOptions{MaxIterations: 3, SummaryThreshold: 2})

		res, err := g.Generate(context.Background(), testDescriptor(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, llm.ErrMalformedResponse)
		assert.Nil(t, res, "no partial plan is returned")
		assert.Equal(t, 1, mock.Calls(), "no internal retry")
		assert.Equal(t, 0, port.calls)
	})

	t.Run("parse failure on a later iteration", func(t *testing.T) {
		mock := llm.NewMock().
			Respond(planJSON("T", "draft 1")).
			Respond(`{"title": "T"}`) // missing tasks
		port := &scriptedApproval{decisions: []Decision{Revise("more detail")}}
		g := newTestGenerator(t, mock, &fakeSummarizer{}, port, GeneratorOptions{MaxIterations: 3, SummaryThreshold: 2})

		res, err := g.Generate(context.Background(), testDescriptor(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, llm.ErrMalformedResponse)
		assert.Nil(t, res)
	})

	t.Run("llm transport error is fatal", func(t *testing.T) {
		mock := llm.NewMock().Fail(errors.New("connection refused"))
		g := newTestGenerator(t, mock, &fakeSummarizer{}, &scriptedApproval{}, GeneratorOptions{MaxIterations: 3, SummaryThreshold: 2})

		_, err := g.Generate(context.Background(), testDescriptor(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("summarization failure is fatal before any draft", func(t *testing.T) {
		mock := llm.NewMock().Respond(planJSON("T", "t"))
		sum := &fakeSummarizer{err: errors.New("summarizer down")}
		g := newTestGenerator(t, mock, sum, &scriptedApproval{}, GeneratorOptions{MaxIterations: 3, SummaryThreshold: 1})

		_, err := g.Generate(context.Background(), testDescriptor(), []string{"entry"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "summarizer down")
		assert.Equal(t, 0, mock.Calls(), "no draft is attempted after a failed summary")
	})

	t.Run("approval error aborts the run", func(t *testing.T) {
		mock := llm.NewMock().Respond(planJSON("T", "t"))
		port := &scriptedApproval{err: errors.New("stdin closed")}
		g := newTestGenerator(t, mock, &fakeSummarizer{}, port, GeneratorOptions{MaxIterations: 3, SummaryThreshold: 2})

		_, err := g.Generate(context.Background(), testDescriptor(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stdin closed")
	})
}

func TestGenerateStrictPlanValidation(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "missing title", response: `{"tasks": [{"task": "t", "task_duration": 5, "note": ""}]}`},
		{name: "empty title", response: `{"title": "", "tasks": [{"task": "t", "task_duration": 5, "note": ""}]}`},
		{name: "no tasks", response: `{"title": "T", "tasks": []}`},
		{name: "task missing description", response: `{"title": "T", "tasks": [{"task_duration": 5, "note": ""}]}`},
		{name: "task missing duration", response: `{"title": "T", "tasks": [{"task": "t", "note": ""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMock().Respond(tt.response)
			g := newTestGenerator(t, mock, &fakeSummarizer{}, &scriptedApproval{}, GeneratorOptions{MaxIterations: 1, SummaryThreshold: 1})

			_, err := g.Generate(context.Background(), testDescriptor(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, llm.ErrMalformedResponse)
		})
	}

	t.Run("note is optional", func(t *testing.T) {
		mock := llm.NewMock().Respond(`{"title": "T", "tasks": [{"task": "t", "task_duration": 5}]}`)
		port := &scriptedApproval{decisions: []Decision{Accept()}}
		g := newTestGenerator(t, mock, &fakeSummarizer{}, port, GeneratorOptions{MaxIterations: 1, SummaryThreshold: 1})

		res, err := g.Generate(context.Background(), testDescriptor(), nil)
		require.NoError(t, err)
		assert.Empty(t, res.Plan.Tasks[0].Note)
	})
}

// TestGenerateIterationCountProperty checks the loop invariant for random
// iteration budgets: an always-revising reviewer sees exactly N drafts and
// the run ends exhausted.
func TestGenerateIterationCountProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "maxIterations")

		mock := llm.NewMock()
		for i := 0; i < n; i++ {
			mock.Respond(planJSON("T", fmt.Sprintf("draft %d", i+1)))
		}
		port := &scriptedApproval{}
		g, err := NewGenerator(mock, &fakeSummarizer{}, port, GeneratorOptions{MaxIterations: n, SummaryThreshold: 2}, nil)
		if err != nil {
			t.Fatalf("NewGenerator: %v", err)
		}

		res, err := g.Generate(context.Background(), testDescriptor(), nil)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		if mock.Calls() != n {
			t.Fatalf("expected %d generation calls, got %d", n, mock.Calls())
		}
		if res.Outcome != OutcomeExhausted {
			t.Fatalf("expected exhausted outcome, got %v", res.Outcome)
		}
		if res.Iterations != n {
			t.Fatalf("expected %d iterations, got %d", n, res.Iterations)
		}
	})
}
