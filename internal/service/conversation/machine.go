package conversation

import (
	"context"
	"errors"
	"sync"

	model "github.com/fappie/backend/internal/model/conversation"
	"github.com/fappie/backend/internal/model/mode"
	"github.com/fappie/backend/pkg/logger"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("conversation closed")

// Generator produces a reply for the full turn history.
type Generator interface {
	Generate(ctx context.Context, req model.GenerateRequest) (model.Reply, error)
}

// Option configures a Machine.
type Option func(*Machine)

// WithObserver registers fn to receive every state change, in order. Calls are
// serialized; fn must not call back into the Machine synchronously.
func WithObserver(fn func(State)) Option {
	return func(m *Machine) {
		m.observer = fn
	}
}

// Machine owns one conversation and runs at most one generation at a time.
// Resetting cancels the in-flight generation; a result that still arrives for
// the old conversation is dropped.
type Machine struct {
	gen      Generator
	observer func(State)

	mu      sync.Mutex
	state   State
	version uint64
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup

	notifyMu  sync.Mutex
	delivered uint64
}

// New creates a Machine with an empty conversation in mode m.
func New(gen Generator, m mode.Mode, opts ...Option) *Machine {
	machine := &Machine{
		gen:   gen,
		state: NewState(m),
	}
	for _, opt := range opts {
		opt(machine)
	}
	return machine
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// CopySource returns the text the copy action should use.
func (m *Machine) CopySource() string {
	return CopySource(m.Snapshot())
}

// Send appends a user turn and starts a generation. The returned channel yields
// the state once the generation has resolved. Blank text and sends while busy
// are rejected without touching the conversation.
func (m *Machine) Send(ctx context.Context, text string) (<-chan State, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}

	next, err := Reduce(m.state, Submitted{Text: text})
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	version := m.commit(next)
	req := next.Request()
	m.wg.Add(1)
	m.mu.Unlock()

	m.publish(version, next)

	done := make(chan State, 1)
	go m.run(taskCtx, cancel, next.ID, req, done)
	return done, nil
}

func (m *Machine) run(ctx context.Context, cancel context.CancelFunc, id string, req model.GenerateRequest, done chan<- State) {
	defer m.wg.Done()
	defer close(done)
	defer cancel()

	var ev Event
	reply, err := m.gen.Generate(ctx, req)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warnf("[conversation] generation failed for %s: %v", id, err)
		}
		ev = Failed{ConversationID: id}
	} else {
		ev = Succeeded{ConversationID: id, Reply: reply}
	}

	m.mu.Lock()
	next, err := Reduce(m.state, ev)
	var version uint64
	if err == nil {
		m.cancel = nil
		version = m.commit(next)
	} else {
		logger.Debugf("[conversation] dropping result for %s: %v", id, err)
	}
	current := m.state.clone()
	m.mu.Unlock()

	if err == nil {
		m.publish(version, current)
	}
	done <- current
}

// Reset clears the conversation and cancels any in-flight generation.
func (m *Machine) Reset() {
	m.apply(Reset{})
}

// SwitchMode resets the conversation into mode md.
func (m *Machine) SwitchMode(md mode.Mode) {
	m.apply(ModeSwitched{Mode: md})
}

func (m *Machine) apply(ev Event) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	next, err := Reduce(m.state, ev)
	if err != nil {
		m.mu.Unlock()
		return
	}
	version := m.commit(next)
	m.mu.Unlock()

	m.publish(version, next)
}

// Close cancels any in-flight generation and waits for it to finish.
func (m *Machine) Close() {
	m.mu.Lock()
	m.closed = true
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
}

// commit must be called with mu held.
func (m *Machine) commit(next State) uint64 {
	m.state = next
	m.version++
	return m.version
}

func (m *Machine) publish(version uint64, s State) {
	if m.observer == nil {
		return
	}

	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	if version <= m.delivered {
		return
	}
	m.delivered = version
	m.observer(s)
}
