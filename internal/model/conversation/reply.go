package conversation

import (
	"encoding/json"
	"strings"

	"github.com/fappie/backend/internal/model/mode"
)

// Reply is a normalized generation result. Structured replies carry
// title/body/chat; plain replies carry Text verbatim.
type Reply struct {
	Text       string `json:"text,omitempty"`
	Title      string `json:"title,omitempty"`
	Body       string `json:"body,omitempty"`
	Chat       string `json:"chat,omitempty"`
	Structured bool   `json:"structured"`
}

// HasOutput reports whether a structured reply carries an artifact.
func (r Reply) HasOutput() bool {
	return r.Structured && (r.Title != "" || r.Body != "")
}

// Output returns the title/body pair of the reply.
func (r Reply) Output() Output {
	return Output{Title: r.Title, Body: r.Body}
}

type encodedReply struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Chat  string `json:"chat"`
}

// Encode renders a structured reply the way the model is asked to answer, so a
// later request keeps the context of earlier title/body decisions.
func Encode(r Reply) string {
	data, err := json.Marshal(encodedReply{Title: r.Title, Body: r.Body, Chat: r.Chat})
	if err != nil {
		// strings always marshal
		return r.Body
	}
	return string(data)
}

// GenerateRequest is either the message form or the transcript form.
type GenerateRequest struct {
	Mode       mode.Mode `json:"mode"`
	Messages   []Turn    `json:"messages,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// IsTranscript reports whether the request uses the transcript form.
func (r GenerateRequest) IsTranscript() bool {
	return r.Messages == nil && (r.Transcript != "" || r.Notes != "")
}

// TranscriptMessage builds the single user message of the transcript form.
// Notes are appended as a separate block when present.
func TranscriptMessage(transcript, notes string) string {
	var b strings.Builder
	b.WriteString("Transcript:\n")
	b.WriteString(strings.TrimSpace(transcript))

	if extra := strings.TrimSpace(notes); extra != "" {
		b.WriteString("\n\nExtra opmerkingen:\n")
		b.WriteString(extra)
	}
	return b.String()
}
