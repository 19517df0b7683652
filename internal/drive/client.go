package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"meetprep/internal/docs"
	"meetprep/internal/event"
	"meetprep/internal/google"
	"meetprep/internal/logging"
)

// MaxFileSize caps downloads of attachment content.
const MaxFileSize = 20 * 1024 * 1024

const (
	mimeGoogleDoc    = "application/vnd.google-apps.document"
	mimeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	mimeGoogleSlides = "application/vnd.google-apps.presentation"
	mimePDF          = "application/pdf"
)

// TextSummarizer condenses document text to a short summary.
type TextSummarizer interface {
	SummarizeText(ctx context.Context, content string) (string, error)
}

// Client wraps the Google Drive service for attachment fetching.
type Client struct {
	svc    *drive.Service
	docs   *docs.Client
	logger *slog.Logger
}

// NewClientForAccount creates a Drive client authenticated with the cached
// OAuth token for the account.
func NewClientForAccount(ctx context.Context, account string, logger *slog.Logger) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("create Drive client for account %s: %w", account, err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create Drive service: %w", err)
	}

	docsClient, err := docs.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	return &Client{svc: svc, docs: docsClient, logger: logger}, nil
}

// FetchAttachmentSummaries resolves each attachment URL, extracts the file
// text and condenses it with the summarizer. Attachments that fail are
// logged and skipped rather than failing the whole invitation.
func (c *Client) FetchAttachmentSummaries(ctx context.Context, urls []string, summarizer TextSummarizer) []event.AttachmentSummary {
	var summaries []event.AttachmentSummary

	for _, url := range urls {
		fileID, err := ParseFileID(url)
		if err != nil {
			c.logger.Debug("skipping non-Drive attachment", "url", url)
			continue
		}

		title, text, err := c.fileText(ctx, fileID)
		if err != nil {
			c.logger.Warn("failed to read attachment", "url", url, logging.Err(err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			c.logger.Debug("attachment has no extractable text", "url", url)
			continue
		}

		summary, err := summarizer.SummarizeText(ctx, text)
		if err != nil {
			c.logger.Warn("failed to summarize attachment", "url", url, logging.Err(err))
			continue
		}

		summaries = append(summaries, event.AttachmentSummary{Title: title, Summary: summary})
	}

	return summaries
}

// fileText returns the file name and its plain-text content, choosing the
// extraction path by MIME type.
func (c *Client) fileText(ctx context.Context, fileID string) (title, text string, err error) {
	file, err := c.svc.Files.Get(fileID).Context(ctx).Fields("id, name, mimeType, size").Do()
	if err != nil {
		return "", "", fmt.Errorf("get file metadata %s: %w", fileID, err)
	}
	if file.Size > MaxFileSize {
		return "", "", fmt.Errorf("file %s size %d exceeds maximum %d", fileID, file.Size, MaxFileSize)
	}

	switch {
	case file.MimeType == mimeGoogleDoc:
		text, err = c.docs.GetDocumentAsPlainText(fileID)
	case file.MimeType == mimeGoogleSheet:
		text, err = c.export(ctx, fileID, "text/csv")
	case file.MimeType == mimeGoogleSlides:
		text, err = c.export(ctx, fileID, "text/plain")
	case file.MimeType == mimePDF:
		text, err = c.pdfText(ctx, fileID)
	case strings.HasPrefix(file.MimeType, "text/"):
		text, err = c.download(ctx, fileID)
	default:
		return "", "", fmt.Errorf("unsupported attachment type %s for file %s", file.MimeType, fileID)
	}
	if err != nil {
		return "", "", err
	}

	return file.Name, text, nil
}

func (c *Client) export(ctx context.Context, fileID, mimeType string) (string, error) {
	res, err := c.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("export file %s as %s: %w", fileID, mimeType, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, MaxFileSize))
	if err != nil {
		return "", fmt.Errorf("read export of file %s: %w", fileID, err)
	}
	return string(data), nil
}

func (c *Client) download(ctx context.Context, fileID string) (string, error) {
	res, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, MaxFileSize))
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", fileID, err)
	}
	return string(data), nil
}

func (c *Client) pdfText(ctx context.Context, fileID string) (string, error) {
	raw, err := c.download(ctx, fileID)
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader([]byte(raw)), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("parse PDF %s: %w", fileID, err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract PDF text %s: %w", fileID, err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, content); err != nil {
		return "", fmt.Errorf("read PDF text %s: %w", fileID, err)
	}
	return b.String(), nil
}
