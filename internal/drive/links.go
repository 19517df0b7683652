package drive

import (
	"fmt"
	"regexp"
)

// URL shapes that carry a Drive file ID. Covers Docs, Sheets and Slides
// links as well as plain Drive file and open links.
var fileIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://docs\.google\.com/document/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`https?://docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`https?://docs\.google\.com/presentation/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`https?://drive\.google\.com/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`https?://drive\.google\.com/open\?id=([a-zA-Z0-9_-]+)`),
}

// ParseFileID extracts the Drive file ID from a Docs or Drive URL.
func ParseFileID(url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("URL is empty")
	}
	for _, pattern := range fileIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("no Drive file ID in URL: %s", url)
}
