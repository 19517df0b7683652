// Package cmd implements the meetprep command line interface.
//
// Available commands:
//   - run: poll the mailbox and process meeting invitations (default)
//   - auth: authorize Google account access
//   - version: print version information
package cmd
