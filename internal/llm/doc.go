// Package llm provides a minimal client for OpenAI-compatible chat
// completion APIs.
//
// The model is treated as an opaque capability: callers send a list of
// messages and receive the raw completion text. Structured output is
// obtained by instructing the model to answer in JSON and decoding the
// response with Decode, which tolerates markdown fences and minor JSON
// syntax damage but never invents missing fields; callers validate the
// decoded value and treat any mismatch as a hard failure.
//
// The Mock client replays scripted responses for deterministic tests.
package llm
