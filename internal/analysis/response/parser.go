// Package response extracts the title/body/chat fields a model is asked to
// answer with, degrading to a body-only result when the answer is not JSON.
package response

import (
	"encoding/json"
	"strings"
)

// Result holds the three fields of a structured answer. Missing fields are empty.
type Result struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Chat  string `json:"chat"`
}

const fence = "```"

// Parse never fails: text that is not a JSON object comes back whole as Body.
func Parse(raw string) Result {
	fields, ok := decodeObject(unfence(strings.TrimSpace(raw)))
	if !ok {
		return Result{Body: raw}
	}

	return Result{
		Title: stringField(fields, "title"),
		Body:  stringField(fields, "body"),
		Chat:  stringField(fields, "chat"),
	}
}

// unfence strips an opening ``` or ```json line and a closing ```.
func unfence(text string) string {
	if !strings.HasPrefix(text, fence) {
		return text
	}

	text = strings.TrimPrefix(text, fence)
	if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		text = text[4:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), fence)
	return strings.TrimSpace(text)
}

func decodeObject(text string) (map[string]json.RawMessage, bool) {
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, false
	}
	return fields, fields != nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}
