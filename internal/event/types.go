package event

import "time"

// AttachmentSummary holds the title and summarized content of one document
// attached to a meeting invitation.
type AttachmentSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Descriptor describes a single meeting event. It is immutable once
// constructed; consumers must not modify it.
type Descriptor struct {
	// MessageID is the Gmail message the event was extracted from.
	MessageID string

	Title        string
	Description  string
	Start        time.Time
	End          time.Time
	Duration     time.Duration
	Participants int

	// Attachments are summaries of documents linked from the invitation,
	// in the order they appeared.
	Attachments []AttachmentSummary
}
