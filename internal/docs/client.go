package docs

import (
	"context"
	"fmt"

	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"meetprep/internal/google"
)

// Client wraps the Google Docs service.
type Client struct {
	svc *docs.Service
}

// NewClientForAccount creates a Docs client authenticated with the cached
// OAuth token for the account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("create Docs client for account %s: %w", account, err)
	}

	svc, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create Docs service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// GetDocumentAsPlainText fetches a document and flattens it to plain text.
// IncludeTabsContent covers documents that use the tabs structure.
func (c *Client) GetDocumentAsPlainText(documentID string) (string, error) {
	if documentID == "" {
		return "", fmt.Errorf("documentID is required")
	}

	doc, err := c.svc.Documents.Get(documentID).IncludeTabsContent(true).Do()
	if err != nil {
		return "", fmt.Errorf("get document %s: %w", documentID, err)
	}

	return DocumentToPlainText(doc)
}
