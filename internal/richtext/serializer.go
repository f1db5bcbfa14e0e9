// Package richtext turns a generated body into the HTML fragment that mail
// clients accept on paste.
package richtext

import (
	"html"
	"regexp"
	"strings"
)

// ParagraphStyle matches the compose font of the target mail client so pasted
// text does not inherit the page styling.
const ParagraphStyle = "font-family: Aptos, Calibri, sans-serif; font-size: 12pt; margin: 0;"

// ListIndent is applied to flattened list items.
const ListIndent = "padding-left: 18pt;"

// Bullet prefixes flattened unordered list items.
const Bullet = "•"

const blankParagraph = `<p style="` + ParagraphStyle + `">&nbsp;</p>`

var (
	boldPattern      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	unorderedPattern = regexp.MustCompile(`^[-*] (.*)$`)
	orderedPattern   = regexp.MustCompile(`^\d+\. `)
)

// HTML maps every input line to exactly one paragraph, in input order.
func HTML(body string) string {
	lines := strings.Split(body, "\n")

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(paragraph(strings.TrimSuffix(line, "\r")))
	}
	return b.String()
}

func paragraph(line string) string {
	if strings.TrimSpace(line) == "" {
		return blankParagraph
	}

	text := boldPattern.ReplaceAllString(html.EscapeString(line), "<strong>$1</strong>")

	if m := unorderedPattern.FindStringSubmatch(text); m != nil {
		return indented(Bullet + " " + m[1])
	}
	if orderedPattern.MatchString(text) {
		return indented(text)
	}
	return `<p style="` + ParagraphStyle + `">` + text + `</p>`
}

func indented(text string) string {
	return `<p style="` + ParagraphStyle + ` ` + ListIndent + `">` + text + `</p>`
}

// Payload holds both clipboard representations of a body.
type Payload struct {
	HTML string `json:"html"`
	Text string `json:"plain"`
}

// NewPayload pairs the HTML rendering with the untransformed body.
func NewPayload(body string) Payload {
	return Payload{HTML: HTML(body), Text: body}
}
