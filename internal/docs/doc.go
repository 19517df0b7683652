// Package docs reads Google Docs as plain text.
//
// Meeting invitations often link preparation material as Google Docs.
// The pipeline fetches each linked document and flattens it to plain
// text before handing it to the summarizer. Tabbed documents are
// flattened tab by tab, legacy documents straight from the body.
package docs
