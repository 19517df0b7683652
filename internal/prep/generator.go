package prep

import (
	"context"
	"fmt"
	"log/slog"

	"meetprep/internal/event"
	"meetprep/internal/llm"
	"meetprep/internal/logging"
)

// FeedbackSummarizer condenses the modification log before a run's first
// draft. Satisfied by *Summarizer; tests substitute fakes.
type FeedbackSummarizer interface {
	SummarizeFeedback(ctx context.Context, entries []string) (string, error)
}

// GeneratorOptions configure the refinement loop.
type GeneratorOptions struct {
	// MaxIterations bounds the number of drafts per run (>= 1).
	MaxIterations int
	// SummaryThreshold is the modification-log length at which accumulated
	// feedback is summarized into the prompt (>= 1).
	SummaryThreshold int
	// Temperature is passed through unmodified to every generation call.
	Temperature float64
}

// Generator runs the bounded human-in-the-loop task generation state
// machine for one event at a time.
type Generator struct {
	client     llm.Client
	summarizer FeedbackSummarizer
	approval   ApprovalPort
	opts       GeneratorOptions
	logger     *slog.Logger
}

// NewGenerator creates a Generator. The options are validated once here so
// the loop can rely on them.
func NewGenerator(client llm.Client, summarizer FeedbackSummarizer, approval ApprovalPort, opts GeneratorOptions, logger *slog.Logger) (*Generator, error) {
	if opts.MaxIterations < 1 {
		return nil, fmt.Errorf("max iterations must be >= 1, got %d", opts.MaxIterations)
	}
	if opts.SummaryThreshold < 1 {
		return nil, fmt.Errorf("summary threshold must be >= 1, got %d", opts.SummaryThreshold)
	}
	if opts.Temperature < 0 || opts.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be in [0,1], got %g", opts.Temperature)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		client:     client,
		summarizer: summarizer,
		approval:   approval,
		opts:       opts,
		logger:     logging.WithService(logger, "generator"),
	}, nil
}

// Generate produces exactly one task plan for the event, refining it with
// reviewer feedback for up to MaxIterations drafts.
//
// modLog is a snapshot of the persisted modification log; it is read once
// at run start to decide whether a feedback summary is injected into the
// prompt, and never mutated. The returned Result carries at most one new
// feedback entry: the last one given during this run.
func (g *Generator) Generate(ctx context.Context, desc *event.Descriptor, modLog []string) (*Result, error) {
	logger := g.logger.With(logging.Event(desc.Title))

	prompt := basePrompt(desc)

	// Summarization is a single per-run action, decided by the log's state
	// when the run starts. Its failure is fatal: injected feedback is part
	// of the generation contract, not a best-effort enhancement.
	if len(modLog) >= g.opts.SummaryThreshold {
		summary, err := g.summarizer.SummarizeFeedback(ctx, modLog)
		if err != nil {
			return nil, err
		}
		prompt += additionalInstructionsHeader + summary
		logger.Info("injected summarized feedback", "log_entries", len(modLog))
	}

	var lastFeedback string

	for iteration := 1; ; iteration++ {
		logger.Debug("drafting task plan", logging.Iteration(iteration))

		plan, err := g.draft(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iteration, err)
		}

		decision, err := g.approval.RequestApproval(ctx, plan, iteration, g.opts.MaxIterations)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: approval: %w", iteration, err)
		}

		if decision.Kind == DecisionAccept {
			logger.Info("task plan accepted", logging.Iteration(iteration))
			return &Result{
				Plan:       plan,
				Feedback:   lastFeedback,
				Iterations: iteration,
				Outcome:    OutcomeAccepted,
			}, nil
		}

		if iteration == g.opts.MaxIterations {
			// Iteration budget exhausted: the latest draft stands. Feedback
			// given on the final iteration is dropped since no further
			// draft exists to apply it to.
			logger.Info("iteration budget exhausted, keeping latest draft",
				logging.Iteration(iteration))
			return &Result{
				Plan:       plan,
				Feedback:   lastFeedback,
				Iterations: iteration,
				Outcome:    OutcomeExhausted,
			}, nil
		}

		// The prompt grows monotonically within a run: each revision is
		// appended as literal text, not merged with earlier feedback.
		lastFeedback = decision.Feedback
		prompt += additionalInstructionsHeader + decision.Feedback
		logger.Debug("revising task plan", logging.Iteration(iteration))
	}
}

// Decode-side payloads use pointers so missing required fields are
// detectable: any schema mismatch fails the run instead of being patched.
type taskPayload struct {
	Task         *string `json:"task"`
	TaskDuration *int    `json:"task_duration"`
	Note         *string `json:"note"`
}

type planPayload struct {
	Title *string       `json:"title"`
	Tasks []taskPayload `json:"tasks"`
}

// draft issues one generation call and strictly decodes the response.
func (g *Generator) draft(ctx context.Context, prompt string) (*TaskPlan, error) {
	resp, err := g.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: generateSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate tasks: %w", err)
	}

	var payload planPayload
	if err := llm.Decode(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("generate tasks: %w", err)
	}
	return payload.toPlan()
}

func (p *planPayload) toPlan() (*TaskPlan, error) {
	if p.Title == nil || *p.Title == "" {
		return nil, fmt.Errorf("generate tasks: %w: missing title", llm.ErrMalformedResponse)
	}
	if len(p.Tasks) == 0 {
		return nil, fmt.Errorf("generate tasks: %w: no tasks", llm.ErrMalformedResponse)
	}

	plan := &TaskPlan{Title: *p.Title}
	for i, t := range p.Tasks {
		if t.Task == nil || *t.Task == "" {
			return nil, fmt.Errorf("generate tasks: %w: task %d missing description", llm.ErrMalformedResponse, i)
		}
		if t.TaskDuration == nil {
			return nil, fmt.Errorf("generate tasks: %w: task %d missing duration", llm.ErrMalformedResponse, i)
		}
		item := TaskItem{Task: *t.Task, DurationMinutes: *t.TaskDuration}
		if t.Note != nil {
			item.Note = *t.Note
		}
		plan.Tasks = append(plan.Tasks, item)
	}
	return plan, nil
}
