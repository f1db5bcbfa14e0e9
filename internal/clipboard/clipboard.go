// Package clipboard copies a generated body with its rich rendering and falls
// back to plain text when the target cannot take HTML.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/fappie/backend/internal/richtext"
	"github.com/fappie/backend/pkg/logger"
)

var (
	ErrRichUnsupported = errors.New("clipboard does not accept html")
	ErrUnavailable     = errors.New("clipboard unavailable")
)

// Writer is a clipboard target.
type Writer interface {
	WriteRich(p richtext.Payload) error
	WriteText(text string) error
}

// Outcome names the representation that reached the clipboard.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeRich
	OutcomePlain
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRich:
		return "rich"
	case OutcomePlain:
		return "plain"
	default:
		return "failed"
	}
}

// Result reports a copy attempt. Err is the last write error, if any.
type Result struct {
	Outcome Outcome
	Err     error
}

// Copied reports whether anything reached the clipboard.
func (r Result) Copied() bool {
	return r.Outcome != OutcomeFailed
}

// Copy writes body as HTML plus plain text, retrying as plain text only when the
// rich write is refused. It never panics.
func Copy(w Writer, body string) Result {
	if w == nil {
		return Result{Outcome: OutcomeFailed, Err: ErrUnavailable}
	}

	richErr := guard(func() error { return w.WriteRich(richtext.NewPayload(body)) })
	if richErr == nil {
		return Result{Outcome: OutcomeRich}
	}
	logger.Debugf("[clipboard] rich write refused, falling back to text: %v", richErr)

	if err := guard(func() error { return w.WriteText(body) }); err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	return Result{Outcome: OutcomePlain, Err: richErr}
}

func guard(write func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard write panicked: %v", r)
		}
	}()
	return write()
}
