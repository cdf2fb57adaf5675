package deck

import (
	"strings"

	"github.com/rotisserie/eris"
)

// SlideContent is the generated content for one slide. ImageQuery is only
// populated on key point slides, and only after enrichment.
type SlideContent struct {
	Type       SlideType `json:"type"`
	Title      string    `json:"title"`
	Points     []string  `json:"points"`
	ImageQuery string    `json:"image_query,omitempty"`
}

// Content is the generated content for a whole presentation.
type Content struct {
	Slides []SlideContent `json:"slides"`
}

// Clone returns a deep copy of the content.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}

	copied := &Content{Slides: make([]SlideContent, len(c.Slides))}
	for idx, slide := range c.Slides {
		duplicate := slide
		if slide.Points != nil {
			duplicate.Points = make([]string, len(slide.Points))
			copy(duplicate.Points, slide.Points)
		}
		copied.Slides[idx] = duplicate
	}

	return copied
}

// extractJSONPayload returns the JSON object embedded in a model response.
// A surrounding code fence is removed first; the payload is the span from the
// first opening brace to the last closing brace.
func extractJSONPayload(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", eris.New("response is empty")
	}

	trimmed = stripCodeFence(trimmed)

	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start == -1 || end == -1 || end < start {
		return "", eris.New("response contains no JSON object")
	}

	return trimmed[start : end+1], nil
}

func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	body := content[3:]
	newline := strings.IndexByte(body, '\n')
	if newline == -1 {
		return content
	}
	body = body[newline+1:]

	trimmedBody := strings.TrimRight(body, " \t\r\n")
	if !strings.HasSuffix(trimmedBody, "```") {
		return content
	}

	trimmedBody = strings.TrimRight(trimmedBody[:len(trimmedBody)-3], " \t\r\n")
	return strings.TrimSpace(trimmedBody)
}
