// Package gmail provides the Gmail client used by meetprep.
//
// It covers the mailbox operations of the pipeline:
//   - listing messages that look like meeting invitations (query-based)
//   - extracting subject, plain-text body and the .ics attachment
//   - managing the "Processed" label that marks handled invitations
//   - sending the generated task list back to the account owner
//
// Authentication uses the cached Google OAuth token from the google
// package; run 'meetprep auth' once per account to create it.
package gmail
