// Package assistant orchestrates the invitation pipeline.
//
// A polling tick lists candidate messages and runs each one through the
// pipeline: extract the invitation, gate on the classifier, parse the
// calendar event, summarize linked attachments, generate the task list
// through the bounded refinement loop, mail it to the account owner and
// record the run's feedback. Messages that fail mid-pipeline keep their
// labels untouched so the next tick picks them up again.
//
// The assistant depends on narrow interfaces for the mailbox, the
// classifier, the generator, the attachment fetcher and the store, so
// tests drive the pipeline with fakes.
package assistant
