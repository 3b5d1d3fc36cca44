package promptutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SystemPrompt instructs chat models to answer with a strict JSON envelope.
const SystemPrompt = `You are a translation engine. Translate the user's text and reply with a single JSON object
of the form {"translation": "<translated text>", "detected_language": "<ISO 639-1 code of the source text>"}.
Do not add commentary, quotes or markdown.`

// ErrMalformed is returned when a model reply cannot be decoded.
var ErrMalformed = errors.New("malformed translation reply")

type reply struct {
	Translation      string `json:"translation"`
	DetectedLanguage string `json:"detected_language"`
}

// UserPrompt renders the per-request instruction.
func UserPrompt(text, source, dest string) string {
	src := strings.TrimSpace(source)
	if src == "" || strings.EqualFold(src, "auto") {
		src = "the detected source language"
	}
	return fmt.Sprintf("Translate from %s to %s:\n\n%s", src, dest, text)
}

// ParseReply extracts the translation and detected language from a model reply.
// Replies wrapped in markdown code fences are accepted.
func ParseReply(raw string) (string, string, error) {
	body := strings.TrimSpace(raw)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return "", "", ErrMalformed
	}
	var out reply
	if err := json.Unmarshal([]byte(body[start:end+1]), &out); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return strings.TrimSpace(out.Translation), strings.ToLower(strings.TrimSpace(out.DetectedLanguage)), nil
}
