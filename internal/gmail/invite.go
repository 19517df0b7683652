package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// MaxAttachmentSize caps attachment downloads at 25MB, the Gmail limit.
const MaxAttachmentSize = 25 * 1024 * 1024

// Invite holds the parts of a candidate invitation email that the pipeline
// needs: subject and body for classification, the raw .ics payload for
// event extraction, and the label IDs to skip already-processed messages.
type Invite struct {
	MessageID string
	Subject   string
	Body      string
	ICS       []byte
	LabelIDs  []string
}

// HasLabel reports whether the message carries the given label.
func (i *Invite) HasLabel(labelID string) bool {
	for _, id := range i.LabelIDs {
		if id == labelID {
			return true
		}
	}
	return false
}

// FetchInvite retrieves a message and extracts its invitation parts. The
// .ics attachment is downloaded if it is not inlined. ICS is nil when the
// message carries no calendar attachment.
func (c *Client) FetchInvite(messageID string) (*Invite, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", messageID, err)
	}

	invite, icsAttachmentID, err := extractInvite(msg)
	if err != nil {
		return nil, err
	}

	if invite.ICS == nil && icsAttachmentID != "" {
		data, err := c.getAttachment(messageID, icsAttachmentID)
		if err != nil {
			return nil, err
		}
		invite.ICS = data
	}

	return invite, nil
}

func (c *Client) getAttachment(messageID, attachmentID string) ([]byte, error) {
	att, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Do()
	if err != nil {
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	if att.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum %d", att.Size, MaxAttachmentSize)
	}
	return decodeBase64(att.Data)
}

// extractInvite pulls subject, plain-text body and the .ics part out of a
// full message. When the .ics part is stored separately it returns the
// attachment ID for a follow-up download instead of the data.
func extractInvite(msg *gmail.Message) (invite *Invite, icsAttachmentID string, err error) {
	invite = &Invite{
		MessageID: msg.Id,
		Subject:   headerValue(msg, "Subject"),
		LabelIDs:  msg.LabelIds,
	}
	if msg.Payload == nil {
		return invite, "", nil
	}

	walkParts(msg.Payload, func(part *gmail.MessagePart) {
		switch {
		case isICSPart(part):
			if part.Body == nil {
				return
			}
			if part.Body.Data != "" && invite.ICS == nil {
				if data, decErr := decodeBase64(part.Body.Data); decErr == nil {
					invite.ICS = data
				}
			} else if part.Body.AttachmentId != "" && icsAttachmentID == "" {
				icsAttachmentID = part.Body.AttachmentId
			}
		case part.MimeType == "text/plain" && part.Filename == "":
			if invite.Body == "" && part.Body != nil && part.Body.Data != "" {
				if data, decErr := decodeBase64(part.Body.Data); decErr == nil {
					invite.Body = string(data)
				}
			}
		}
	})

	return invite, icsAttachmentID, nil
}

func isICSPart(part *gmail.MessagePart) bool {
	if strings.HasSuffix(strings.ToLower(part.Filename), ".ics") {
		return true
	}
	return part.MimeType == "text/calendar" || part.MimeType == "application/ics"
}

// walkParts visits part and all nested parts depth-first.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, child := range part.Parts {
		walkParts(child, fn)
	}
}

func headerValue(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// decodeBase64 decodes Gmail's base64url payload encoding, falling back to
// standard base64 for the occasional non-conforming sender.
func decodeBase64(data string) ([]byte, error) {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return decoded, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode message part: %w", err)
	}
	return decoded, nil
}
