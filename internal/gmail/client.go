package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"meetprep/internal/google"
)

// Client wraps the Gmail Users service.
type Client struct {
	svc *gmail.UsersService
}

// NewClientForAccount creates a Gmail client authenticated with the cached
// OAuth token for the account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("create Gmail client for account %s: %w", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create Gmail service: %w", err)
	}

	return &Client{svc: svc.Users}, nil
}

// ListMessageIDs returns up to maxResults message IDs matching the query,
// following pagination as needed.
func (c *Client) ListMessageIDs(query string, maxResults int64) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		remaining := maxResults - int64(len(ids))
		if remaining <= 0 {
			break
		}
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q(query).MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}
		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}

		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	if int64(len(ids)) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

// GetOrCreateLabel returns the ID of the named label, creating it if it
// does not exist yet.
func (c *Client) GetOrCreateLabel(name string) (string, error) {
	res, err := c.svc.Labels.List("me").Do()
	if err != nil {
		return "", fmt.Errorf("list labels: %w", err)
	}
	for _, label := range res.Labels {
		if label.Name == name {
			return label.Id, nil
		}
	}

	created, err := c.svc.Labels.Create("me", &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Do()
	if err != nil {
		return "", fmt.Errorf("create label %s: %w", name, err)
	}
	return created.Id, nil
}

// AddLabel adds a label to a message.
func (c *Client) AddLabel(messageID, labelID string) error {
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}).Do()
	if err != nil {
		return fmt.Errorf("add label to message %s: %w", messageID, err)
	}
	return nil
}

// ProfileEmail returns the email address of the authenticated account; the
// generated task list is mailed back to it.
func (c *Client) ProfileEmail() (string, error) {
	profile, err := c.svc.GetProfile("me").Do()
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// SendEmail sends a plain-text email and returns the sent message ID.
func (c *Client) SendEmail(to, subject, body string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("recipient is required")
	}
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	raw := buildRawMessage(to, subject, body)
	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Do()
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	return sent.Id, nil
}

// buildRawMessage assembles an RFC 2822 plain-text message and encodes it
// the way the Gmail API expects (base64url, no padding concerns).
func buildRawMessage(to, subject, body string) string {
	var b strings.Builder
	b.WriteString("To: ")
	b.WriteString(to)
	b.WriteString("\r\n")
	b.WriteString("Subject: ")
	b.WriteString(subject)
	b.WriteString("\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
