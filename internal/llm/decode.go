package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrMalformedResponse indicates a model response that could not be decoded
// into the expected structure. Callers treat it as a hard failure for the
// current run; there is no retry at this layer.
var ErrMalformedResponse = errors.New("malformed model response")

// Decode extracts the JSON object from a model completion and unmarshals it
// into v. Markdown code fences and surrounding prose are tolerated, and
// minor JSON syntax damage is repaired before decoding. Decode never fills
// in missing fields: callers must validate the decoded value and reject
// schema mismatches.
func Decode(content string, v any) error {
	raw := extractJSON(content)
	if raw == "" {
		return fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// extractJSON returns the outermost JSON object in content, stripping
// markdown fences and any text around it.
func extractJSON(content string) string {
	s := strings.TrimSpace(content)

	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			s = rest[:end]
		} else {
			s = rest
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
