// Package conversation keeps a chat transcript and the derived output in sync
// across generation turns.
package conversation

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	model "github.com/fappie/backend/internal/model/conversation"
	"github.com/fappie/backend/internal/model/mode"
)

// ErrorTurnText is shown when a generation call fails. It is never sent back to
// the model.
const ErrorTurnText = "Er is een fout opgetreden. Probeer opnieuw."

var (
	ErrEmptyInput = errors.New("message is empty")
	ErrBusy       = errors.New("a generation is already in flight")
	ErrStale      = errors.New("result belongs to a previous conversation")
)

// State is one conversation as presented to the user.
//
// Display is what the user sees; History is what the model gets on the next
// call. They differ for structured replies (History keeps the encoded reply)
// and for failures (only Display gets the error turn).
type State struct {
	ID         string        `json:"conversationId"`
	Mode       mode.Mode     `json:"mode"`
	Display    []model.Turn  `json:"turns"`
	History    []model.Turn  `json:"-"`
	Output     *model.Output `json:"output"`
	Busy       bool          `json:"busy"`
	Structured bool          `json:"structured"`
}

// NewState starts an empty conversation.
func NewState(m mode.Mode) State {
	return State{ID: uuid.NewString(), Mode: m}
}

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// Submitted appends a user turn.
type Submitted struct {
	Text string
}

// Succeeded applies a generation result.
type Succeeded struct {
	ConversationID string
	Reply          model.Reply
}

// Failed records a generation failure.
type Failed struct {
	ConversationID string
}

// Reset clears the conversation and starts a new one in the same mode.
type Reset struct{}

// ModeSwitched resets the conversation into another mode.
type ModeSwitched struct {
	Mode mode.Mode
}

func (Submitted) isEvent()    {}
func (Succeeded) isEvent()    {}
func (Failed) isEvent()       {}
func (Reset) isEvent()        {}
func (ModeSwitched) isEvent() {}

// Reduce returns the state after ev. On error the input state is returned
// unchanged. The input state is never mutated.
func Reduce(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case Submitted:
		return submit(s, e.Text)
	case Succeeded:
		if e.ConversationID != s.ID {
			return s, ErrStale
		}
		return succeed(s, e.Reply), nil
	case Failed:
		if e.ConversationID != s.ID {
			return s, ErrStale
		}
		next := s.clone()
		next.Busy = false
		next.Display = append(next.Display, model.Turn{Role: model.RoleAssistant, Content: ErrorTurnText})
		return next, nil
	case Reset:
		return NewState(s.Mode), nil
	case ModeSwitched:
		return NewState(e.Mode), nil
	default:
		return s, errors.New("unknown event")
	}
}

func submit(s State, text string) (State, error) {
	if strings.TrimSpace(text) == "" {
		return s, ErrEmptyInput
	}
	if s.Busy {
		return s, ErrBusy
	}

	turn := model.Turn{Role: model.RoleUser, Content: text}
	next := s.clone()
	next.Display = append(next.Display, turn)
	next.History = append(next.History, turn)
	next.Busy = true
	return next, nil
}

func succeed(s State, reply model.Reply) State {
	next := s.clone()
	next.Busy = false

	if !reply.Structured {
		turn := model.Turn{Role: model.RoleAssistant, Content: reply.Text}
		next.Display = append(next.Display, turn)
		next.History = append(next.History, turn)
		return next
	}

	next.Structured = true
	if reply.Chat != "" {
		next.Display = append(next.Display, model.Turn{Role: model.RoleAssistant, Content: reply.Chat})
	}
	next.History = append(next.History, model.Turn{Role: model.RoleAssistant, Content: model.Encode(reply)})
	if reply.HasOutput() {
		out := reply.Output()
		next.Output = &out
	}
	return next
}

func (s State) clone() State {
	next := s
	next.Display = append([]model.Turn(nil), s.Display...)
	next.History = append([]model.Turn(nil), s.History...)
	if s.Output != nil {
		out := *s.Output
		next.Output = &out
	}
	return next
}

// Request builds the generation call for the current history.
func (s State) Request() model.GenerateRequest {
	return model.GenerateRequest{
		Mode:     s.Mode,
		Messages: append([]model.Turn(nil), s.History...),
	}
}

// CopySource returns the text the copy action puts on the clipboard: the
// output body for structured conversations, the latest assistant turn for
// plain ones.
func CopySource(s State) string {
	if s.Structured || s.Output != nil {
		if s.Output == nil {
			return ""
		}
		return s.Output.Body
	}
	for i := len(s.Display) - 1; i >= 0; i-- {
		turn := s.Display[i]
		if turn.Role == model.RoleAssistant && turn.Content != ErrorTurnText {
			return turn.Content
		}
	}
	return ""
}
