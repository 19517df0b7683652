// Package prep contains the task generation core: the invite classifier,
// the feedback summarizer and the bounded human-in-the-loop task generator.
//
// The generator drives a small state machine per event. It drafts a task
// plan with the language model, presents it through an ApprovalPort and
// either stops (accepted), redrafts with the reviewer's feedback appended
// to the prompt, or gives up after a configured number of iterations and
// keeps the latest draft. Accumulated feedback from earlier runs is
// condensed into the prompt once its length reaches a configured threshold.
//
// All model calls are blocking and never retried here; any response that
// does not decode into the expected structure fails the current run.
package prep
