package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"meetprep/internal/drive"
	"meetprep/internal/event"
	"meetprep/internal/gmail"
	"meetprep/internal/ics"
	"meetprep/internal/instrumentation"
	"meetprep/internal/logging"
	"meetprep/internal/prep"
)

// Skip reasons reported to metrics.
const (
	skipAlreadyProcessed = "already_processed"
	skipNoCalendarPart   = "no_calendar_part"
	skipNotAnInvite      = "not_an_invite"
)

// Mailbox is the slice of the Gmail client the pipeline needs.
type Mailbox interface {
	ListMessageIDs(query string, maxResults int64) ([]string, error)
	FetchInvite(messageID string) (*gmail.Invite, error)
	AddLabel(messageID, labelID string) error
	SendEmail(to, subject, body string) (string, error)
}

// Classifier decides whether an email is a meeting invitation.
type Classifier interface {
	IsMeetingInvite(ctx context.Context, subject, body string) (bool, error)
}

// Generator runs the bounded task refinement loop.
type Generator interface {
	Generate(ctx context.Context, desc *event.Descriptor, modLog []string) (*prep.Result, error)
}

// AttachmentFetcher turns calendar attachment URLs into summaries.
type AttachmentFetcher interface {
	FetchAttachmentSummaries(ctx context.Context, urls []string, summarizer drive.TextSummarizer) []event.AttachmentSummary
}

// Store persists the feedback log across runs.
type Store interface {
	Load() ([]string, error)
	Save(entry string) error
}

// Options configure the pipeline; cmd resolves the label ID and the
// account owner's address once at startup.
type Options struct {
	Query            string
	MaxResults       int64
	ProcessedLabelID string
	SelfEmail        string
}

// Assistant wires the invitation pipeline together.
type Assistant struct {
	mailbox     Mailbox
	classifier  Classifier
	generator   Generator
	attachments AttachmentFetcher
	summarizer  drive.TextSummarizer
	store       Store
	metrics     *instrumentation.Metrics
	opts        Options
	logger      *slog.Logger
}

// New creates an Assistant. All collaborators are required.
func New(mailbox Mailbox, classifier Classifier, generator Generator, attachments AttachmentFetcher, summarizer drive.TextSummarizer, store Store, metrics *instrumentation.Metrics, opts Options, logger *slog.Logger) (*Assistant, error) {
	if mailbox == nil || classifier == nil || generator == nil || attachments == nil || summarizer == nil || store == nil {
		return nil, fmt.Errorf("all assistant collaborators are required")
	}
	if opts.ProcessedLabelID == "" {
		return nil, fmt.Errorf("processed label ID is required")
	}
	if opts.SelfEmail == "" {
		return nil, fmt.Errorf("self email is required")
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		mailbox:     mailbox,
		classifier:  classifier,
		generator:   generator,
		attachments: attachments,
		summarizer:  summarizer,
		store:       store,
		metrics:     metrics,
		opts:        opts,
		logger:      logger,
	}, nil
}

// Run polls the mailbox until the context is cancelled. When once is true
// a single tick is processed and Run returns its error.
func (a *Assistant) Run(ctx context.Context, interval time.Duration, once bool) error {
	if once {
		return a.ProcessTick(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := a.ProcessTick(ctx); err != nil {
			a.logger.Error("polling tick failed", logging.Err(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ProcessTick lists candidate messages and runs each through the pipeline.
// A listing failure aborts the tick; per-message failures are logged and
// leave the message unlabeled for the next tick.
func (a *Assistant) ProcessTick(ctx context.Context) error {
	ids, err := a.mailbox.ListMessageIDs(a.opts.Query, a.opts.MaxResults)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}
	a.logger.Debug("polling tick", "candidates", len(ids))

	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := a.ProcessMessage(ctx, id); err != nil {
			a.metrics.RecordInvitationProcessed(ctx, logging.StatusError)
			a.logger.Error("failed to process message", logging.MessageID(id), logging.Err(err))
		}
	}
	return nil
}

// ProcessMessage runs one message through the full pipeline. Messages that
// turn out not to be invitations are labeled so they are not reexamined;
// failures return an error and leave the message unlabeled.
func (a *Assistant) ProcessMessage(ctx context.Context, messageID string) error {
	logger := a.logger.With(logging.MessageID(messageID))

	invite, err := a.mailbox.FetchInvite(messageID)
	if err != nil {
		return err
	}

	if invite.HasLabel(a.opts.ProcessedLabelID) {
		a.metrics.RecordInvitationSkipped(ctx, skipAlreadyProcessed)
		logger.Debug("skipping already processed message")
		return nil
	}

	if invite.ICS == nil {
		a.metrics.RecordInvitationSkipped(ctx, skipNoCalendarPart)
		logger.Debug("no calendar attachment, marking processed")
		return a.mailbox.AddLabel(messageID, a.opts.ProcessedLabelID)
	}

	isInvite, err := a.classifier.IsMeetingInvite(ctx, invite.Subject, invite.Body)
	if err != nil {
		return fmt.Errorf("classify message: %w", err)
	}
	if !isInvite {
		a.metrics.RecordInvitationSkipped(ctx, skipNotAnInvite)
		logger.Info("not a meeting invitation, marking processed")
		return a.mailbox.AddLabel(messageID, a.opts.ProcessedLabelID)
	}

	desc, attachURLs, err := ics.Parse(invite.ICS)
	if err != nil {
		return fmt.Errorf("parse calendar event: %w", err)
	}
	desc.MessageID = messageID
	desc.Attachments = a.attachments.FetchAttachmentSummaries(ctx, attachURLs, a.summarizer)

	modLog, err := a.store.Load()
	if err != nil {
		return fmt.Errorf("load modification log: %w", err)
	}

	logger.Info("generating task list", logging.Event(desc.Title))
	start := time.Now()
	result, err := a.generator.Generate(ctx, desc, modLog)
	if err != nil {
		return fmt.Errorf("generate task list: %w", err)
	}
	a.metrics.RecordGeneration(ctx, result.Iterations, result.Outcome.String(), time.Since(start))

	subject := "Meeting Prep: " + desc.Title
	if _, err := a.mailbox.SendEmail(a.opts.SelfEmail, subject, prep.FormatPlan(result.Plan)); err != nil {
		return fmt.Errorf("send task list: %w", err)
	}

	if result.Feedback != "" {
		if err := a.store.Save(result.Feedback); err != nil {
			return fmt.Errorf("save feedback: %w", err)
		}
	}

	if err := a.mailbox.AddLabel(messageID, a.opts.ProcessedLabelID); err != nil {
		return err
	}

	a.metrics.RecordInvitationProcessed(ctx, result.Outcome.String())
	logger.Info("invitation processed",
		logging.Event(desc.Title),
		logging.Iteration(result.Iterations),
		logging.Status(result.Outcome.String()))
	return nil
}
