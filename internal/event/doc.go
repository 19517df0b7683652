// Package event defines the data model for a meeting event extracted from a
// calendar invitation. A Descriptor is assembled once by the extraction
// pipeline (ICS parsing plus Drive attachment summarization) and consumed
// read-only by the task generation core.
package event
