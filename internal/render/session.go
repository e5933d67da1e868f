// Package render is the render orchestrator: it owns the message history,
// recomputes tool states, drives assistant typing and hands instructions to
// a Presenter.
package render

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/google/uuid"

	"agentui/internal/clock"
	"agentui/internal/message"
	"agentui/internal/sessionlog"
	"agentui/internal/stream"
	"agentui/internal/toolstate"
)

// ErrClosed is returned by Render after Cleanup.
var ErrClosed = errors.New("render: session closed")

// Session is an owned render handle. It is meant to be used from one
// goroutine; Cleanup may be called from another.
type Session struct {
	opts      Options
	presenter Presenter
	clock     clock.Clock
	writer    *sessionlog.Writer

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	history    []message.Message
	seen       map[string]bool
	tools      toolstate.States
	streaming  bool
	indicator  Indicator
	sessionID  string
	fallbackID string
	closed     bool
	cleanupErr error
}

// NewSession creates a session drawing to p. A nil presenter draws nothing.
func NewSession(p Presenter, opts Options) *Session {
	if p == nil {
		p = Discard{}
	}
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		opts:       opts,
		presenter:  p,
		clock:      clock.OrReal(opts.Clock),
		writer:     sessionlog.NewWriter(opts.Log),
		ctx:        ctx,
		cancel:     cancel,
		seen:       make(map[string]bool),
		tools:      toolstate.States{},
		fallbackID: uuid.NewString(),
	}
}

// Options returns the effective options.
func (s *Session) Options() Options { return s.opts }

// Render appends msg to history and draws it. For assistant messages with
// typing enabled it returns once every segment has been revealed, so a
// caller feeding messages one at a time is paced by the typing speed.
// Presenter and log failures go to OnError; only cancellation and a closed
// session are returned.
func (s *Session) Render(ctx context.Context, msg message.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cat := message.Classify(msg)
	if msg.SessionID != "" && (s.sessionID == "" || cat == message.CategorySystemInit) {
		s.sessionID = msg.SessionID
	}

	if cat == message.CategoryStreamEvent {
		s.logMessage(msg)
		switch msg.StreamEventType() {
		case message.EventMessageStart:
			s.streaming = true
		case message.EventMessageDelta, message.EventMessageStop:
			s.streaming = false
		}
		s.updateIndicator()
		return nil
	}

	if msg.UUID != "" {
		if s.seen[msg.UUID] {
			log.WithField("uuid", msg.UUID).Debug("duplicate message ignored")
			return nil
		}
		s.seen[msg.UUID] = true
	}

	s.logMessage(msg)
	seq := len(s.history)
	s.history = append(s.history, msg)
	s.tools = toolstate.Compute(s.history)

	switch cat {
	case message.CategoryAssistant:
		s.streaming = false
		s.updateIndicator()
		return s.driveAssistant(ctx, seq, msg)
	case message.CategoryResult:
		s.streaming = false
	}
	s.present(Instruction{
		Seq:      seq,
		Category: cat,
		Message:  msg,
		Tools:    s.tools,
		Final:    true,
	})
	s.updateIndicator()
	return nil
}

func (s *Session) driveAssistant(ctx context.Context, seq int, msg message.Message) error {
	typing := s.opts.Typing()
	ctl := stream.New(stream.Segments(msg), stream.Options{
		Typing:       typing,
		ShowThinking: s.opts.ShowThinking,
		TypingSpeed:  s.opts.TypingSpeed,
		Historical:   !typing,
	}, nil)
	ins := Instruction{
		Seq:        seq,
		Category:   message.CategoryAssistant,
		Message:    msg,
		Tools:      s.tools,
		Historical: !typing,
	}
	if ctl.Done() {
		ins.Views = ctl.Views()
		ins.Final = true
		s.present(ins)
		s.updateIndicator()
		return nil
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	detach := context.AfterFunc(s.ctx, stop)
	defer detach()

	err := stream.Drive(ctx, s.clock, s.opts.TypingSpeed, ctl, func(views []stream.View) {
		ins.Views = views
		ins.Final = ctl.Done()
		s.present(ins)
	})
	if err != nil {
		return err
	}
	if !ins.Final {
		// 全部为隐藏段时 Drive 可能没有产生帧
		ins.Views = ctl.Views()
		ins.Final = true
		s.present(ins)
	}
	s.updateIndicator()
	return nil
}

// RenderSession renders every message of seq in order and always cleans up,
// returning the first source or cancellation error.
func (s *Session) RenderSession(ctx context.Context, seq iter.Seq2[message.Message, error]) (err error) {
	defer func() {
		if cerr := s.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for msg, srcErr := range seq {
		if srcErr != nil {
			return fmt.Errorf("message source: %w", srcErr)
		}
		if err := s.Render(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// RerenderHistory presents every history entry again in final form. Nothing
// is re-typed.
func (s *Session) RerenderHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for i, msg := range s.history {
		if err := ctx.Err(); err != nil {
			return err
		}
		cat := message.Classify(msg)
		ins := Instruction{
			Seq:        i,
			Category:   cat,
			Message:    msg,
			Tools:      toolstate.Compute(s.history[:i+1]),
			Historical: true,
			Final:      true,
		}
		if cat == message.CategoryAssistant {
			ins.Views = stream.New(stream.Segments(msg), stream.Options{
				ShowThinking: s.opts.ShowThinking,
				Historical:   true,
			}, nil).Views()
		}
		s.present(ins)
	}
	return nil
}

// Cleanup stops in-flight typing, closes the session log and the presenter
// and discards history. Calling it again returns the first result.
func (s *Session) Cleanup() error {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.cleanupErr
	}
	s.closed = true

	var errs []error
	if err := s.writer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close session log: %w", err))
	}
	if s.indicator != IndicatorHidden {
		s.indicator = IndicatorHidden
		if err := s.presenter.Status(IndicatorHidden); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.presenter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close presenter: %w", err))
	}
	s.history = nil
	s.seen = nil
	s.tools = toolstate.States{}
	s.streaming = false
	s.cleanupErr = errors.Join(errs...)
	return s.cleanupErr
}

// History returns a copy of the rendered messages.
func (s *Session) History() []message.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]message.Message, len(s.history))
	copy(out, s.history)
	return out
}

// ToolStates returns the tracker state for the current history.
func (s *Session) ToolStates() toolstate.States {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools
}

// IsStreaming reports a message_start without a matching stop.
func (s *Session) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// Indicator returns the current status indicator state.
func (s *Session) Indicator() Indicator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.computeIndicator()
}

// SessionID is the id from the stream, or a generated one before any
// message carried it.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSessionID()
}

// LogPath is the session log file, also after Cleanup.
func (s *Session) LogPath() string {
	return s.writer.LastPath()
}

func (s *Session) currentSessionID() string {
	if s.sessionID != "" {
		return s.sessionID
	}
	return s.fallbackID
}

func (s *Session) computeIndicator() Indicator {
	if len(s.history) > 0 && message.Classify(s.history[len(s.history)-1]) == message.CategoryResult {
		return IndicatorHidden
	}
	if s.streaming {
		return IndicatorStreaming
	}
	if len(s.history) == 0 {
		return IndicatorHidden
	}
	last := s.history[len(s.history)-1]
	if message.Classify(last) == message.CategoryUser && len(last.ToolResults()) > 0 {
		return IndicatorThinking
	}
	return IndicatorHidden
}

func (s *Session) updateIndicator() {
	next := s.computeIndicator()
	if next == s.indicator {
		return
	}
	s.indicator = next
	if err := s.presenter.Status(next); err != nil {
		s.report(fmt.Errorf("status %s: %w", next, err))
	}
}

func (s *Session) present(ins Instruction) {
	if err := s.presenter.Present(ins); err != nil {
		s.report(fmt.Errorf("present %s #%d: %w", ins.Category, ins.Seq, err))
	}
}

func (s *Session) logMessage(msg message.Message) {
	if !s.writer.Enabled() {
		return
	}
	if err := s.writer.Log(msg, s.currentSessionID(), nil); err != nil {
		s.report(fmt.Errorf("session log: %w", err))
	}
}

func (s *Session) report(err error) {
	log.WithError(err).Warn("render error")
	if s.opts.OnError != nil {
		s.opts.OnError(err)
	}
}
