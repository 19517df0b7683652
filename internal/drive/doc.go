// Package drive fetches meeting attachments from Google Drive.
//
// Invitations reference their preparation material through ATTACH URLs
// in the calendar event. The package resolves those URLs to Drive file
// IDs, extracts text per file type (Google Docs through the docs
// package, Sheets and Slides through Drive export, PDFs and plain text
// by download) and condenses each file with the summarizer. Files that
// cannot be fetched or are of an unsupported type are skipped with a
// warning so a single broken link does not sink the whole invitation.
package drive
