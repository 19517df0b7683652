package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"meetprep/internal/assistant"
	"meetprep/internal/config"
	"meetprep/internal/drive"
	"meetprep/internal/gmail"
	"meetprep/internal/instrumentation"
	"meetprep/internal/llm"
	"meetprep/internal/logging"
	"meetprep/internal/prep"
	"meetprep/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newRunCmd() *cobra.Command {
	var configPath string
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the mailbox and process meeting invitations",
		Long: `Poll the Gmail inbox for meeting invitations and generate a preparation
task list for each one. Drafts are shown on the terminal for approval;
revision feedback is carried into future runs. Accepted task lists are
mailed to the account owner and the message is labeled as processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.WithAccount(logging.Setup(cfg.LogLevel), cfg.Gmail.Account)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
				Enabled:        cfg.Metrics.Enabled,
				ServiceName:    "meetprep",
				ServiceVersion: version,
				Exporter:       instrumentation.ExporterPrometheus,
			})
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					logger.Warn("instrumentation shutdown failed", logging.Err(err))
				}
			}()

			if provider.Enabled() {
				metricsServer := instrumentation.NewMetricsServer(cfg.Metrics.Addr, logger)
				go func() {
					if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server failed", logging.Err(err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					if err := metricsServer.Shutdown(shutdownCtx); err != nil {
						logger.Warn("metrics server shutdown failed", logging.Err(err))
					}
				}()
			}

			llmClient, err := llm.NewOpenAIClient(llm.OpenAIConfig{
				Model:   cfg.LLM.Model,
				BaseURL: cfg.LLM.BaseURL,
				APIKey:  cfg.LLM.APIKey,
			}, logger)
			if err != nil {
				return err
			}

			// Every model consumer gets a purpose-tagged client so model
			// calls are counted per purpose.
			metrics := provider.Metrics()
			summarizer := prep.NewSummarizer(
				llm.WithMetrics(llmClient, instrumentation.PurposeSummarize, metrics),
				cfg.LLM.SummaryMaxTokens, logger)
			classifier := prep.NewClassifier(
				llm.WithMetrics(llmClient, instrumentation.PurposeClassify, metrics), logger)
			generator, err := prep.NewGenerator(
				llm.WithMetrics(llmClient, instrumentation.PurposeGenerate, metrics),
				summarizer, consoleApproval{}, prep.GeneratorOptions{
					MaxIterations:    cfg.LLM.MaxIterations,
					SummaryThreshold: cfg.LLM.ModificationSummaryThreshold,
					Temperature:      cfg.LLM.Temperature,
				}, logger)
			if err != nil {
				return err
			}

			mailbox, err := gmail.NewClientForAccount(ctx, cfg.Gmail.Account)
			if err != nil {
				return err
			}
			driveClient, err := drive.NewClientForAccount(ctx, cfg.Gmail.Account, logger)
			if err != nil {
				return err
			}

			labelID, err := mailbox.GetOrCreateLabel(cfg.Gmail.ProcessedLabel)
			if err != nil {
				return err
			}
			selfEmail, err := mailbox.ProfileEmail()
			if err != nil {
				return err
			}

			modStore := store.New(cfg.Store.Path, logger)

			a, err := assistant.New(mailbox, classifier, generator, driveClient, summarizer, modStore, metrics, assistant.Options{
				Query:            cfg.Gmail.Query,
				MaxResults:       cfg.Gmail.MaxResults,
				ProcessedLabelID: labelID,
				SelfEmail:        selfEmail,
			}, logger)
			if err != nil {
				return err
			}

			logger.Info("starting meetprep",
				"interval", cfg.Polling.Interval,
				"once", once)

			err = a.Run(ctx, cfg.Polling.Interval, once)
			if errors.Is(err, context.Canceled) {
				logger.Info("shutting down")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the config file")
	cmd.Flags().BoolVar(&once, "once", false, "Process a single polling tick and exit")
	return cmd
}
