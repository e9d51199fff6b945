// Package agent implements the conversational booking engine: a serialized
// state machine that owns the session ledger, consumes a FIFO inbox of
// commands, and reconciles asynchronous LLM completions with user input.
//
// All ledger writes happen on the single run goroutine. An LLM call is
// fired with an immutable ledger snapshot and its completion never touches
// the ledger directly: it enqueues further commands (a Book/Cancel derived
// from a parsed directive, and an LLMReply carrying the assistant text) so
// the mutation re-enters through the inbox.
package agent

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"schedbot/internal/directive"
	"schedbot/internal/ledger"
	"schedbot/internal/llm"
)

const defaultInboxSize = 64

// Agent owns one session's ledger and processes commands one at a time in
// arrival order. Create with New, then Start; Tell enqueues commands and
// Stop shuts the agent down.
type Agent struct {
	client llm.Client
	log    *logrus.Entry

	state ledger.Ledger // touched only by the run goroutine

	inbox  chan Command
	done   chan struct{}
	ctx    context.Context // cancelled on Stop; bounds in-flight LLM calls
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger replaces the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(a *Agent) {
		a.log = log.WithField("component", "agent")
	}
}

// WithInboxSize sets the inbox buffer.
func WithInboxSize(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.inbox = make(chan Command, n)
		}
	}
}

// New builds an agent over the given LLM client and seed ledger.
func New(client llm.Client, seed ledger.Ledger, opts ...Option) *Agent {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Agent{
		client: client,
		log:    logrus.WithField("component", "agent"),
		state:  seed,
		inbox:  make(chan Command, defaultInboxSize),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithField("session_id", uuid.New().String())
	return a
}

// Start launches the run goroutine. It must be called exactly once.
func (a *Agent) Start() {
	a.wg.Add(1)
	go a.run()
}

// Tell enqueues a command. After Stop the command is dropped; Tell never
// panics or blocks forever, so in-flight LLM completions can call it
// safely during shutdown.
func (a *Agent) Tell(cmd Command) {
	select {
	case <-a.done:
	case a.inbox <- cmd:
	}
}

// Stop cancels in-flight LLM calls, lets the run goroutine drain whatever
// is already queued, and waits for it to exit.
func (a *Agent) Stop() {
	a.once.Do(func() {
		a.cancel()
		close(a.done)
	})
	a.wg.Wait()
}

// Ledger returns a snapshot of the current state, read on the run
// goroutine so it serializes with every pending mutation. During shutdown
// it waits for the run goroutine to exit and returns the final state.
func (a *Agent) Ledger() ledger.Ledger {
	reply := make(chan ledger.Ledger, 1)
	select {
	case a.inbox <- getLedger{reply: reply}:
		select {
		case snap := <-reply:
			return snap
		case <-a.done:
			a.wg.Wait()
			// The drain may still have answered the query.
			select {
			case snap := <-reply:
				return snap
			default:
				return a.state
			}
		}
	case <-a.done:
		a.wg.Wait()
		return a.state
	}
}

func (a *Agent) run() {
	defer a.wg.Done()
	for {
		select {
		case cmd := <-a.inbox:
			a.dispatch(cmd)
		case <-a.done:
			a.drain()
			return
		}
	}
}

// drain processes commands already queued at shutdown. New LLM completions
// are discarded: the context is cancelled, and Tell drops their follow-ups.
func (a *Agent) drain() {
	for {
		select {
		case cmd := <-a.inbox:
			a.dispatch(cmd)
		default:
			return
		}
	}
}

func (a *Agent) dispatch(cmd Command) {
	switch c := cmd.(type) {
	case UserMessage:
		a.handleUserMessage(c)
	case LLMReply:
		a.state = a.state.Append(ledger.RoleAssistant, c.Content)
	case BookAppointment:
		a.handleBook(c)
	case CancelAppointment:
		a.handleCancel(c)
	case GetAvailableSlots:
		a.deliver(c.ReplyTo, renderAvailable(a.state))
	case GetBookedAppointments:
		a.deliver(c.ReplyTo, renderBooked(a.state))
	case getLedger:
		c.reply <- a.state
	}
}

// handleUserMessage appends the user turn, snapshots the ledger, and fires
// the LLM call on its own goroutine. The inbox is not stalled waiting for
// the completion, so later commands may interleave with it.
func (a *Agent) handleUserMessage(msg UserMessage) {
	a.state = a.state.Append(ledger.RoleUser, msg.Text)
	snap := a.state
	systemPrompt := BuildSystemPrompt(snap)

	go a.completeAndReenter(systemPrompt, snap, msg.ReplyTo)
}

// completeAndReenter runs off the agent goroutine. It performs the blocking
// LLM call against the snapshot, parses the reply, and routes everything
// back through Tell; the only direct side effect is delivery to the sink.
func (a *Agent) completeAndReenter(systemPrompt string, snap ledger.Ledger, replyTo chan<- Response) {
	transcript := snap.Transcript()
	history := make([]llm.Message, 0, len(transcript))
	for _, e := range transcript {
		history = append(history, llm.Message{Role: string(e.Role), Content: e.Content})
	}

	raw, err := a.client.Complete(a.ctx, systemPrompt, history)
	if err != nil {
		a.log.WithError(err).Error("llm completion failed")
		a.deliver(replyTo, "Sorry, I encountered an error: "+err.Error())
		return
	}

	visible, d := directive.Parse(raw)

	// The visible text goes out before the directive command is enqueued,
	// so the sink always sees the assistant's confirmation ahead of any
	// booking or cancellation response it triggers.
	a.deliver(replyTo, visible)

	if d != nil {
		fields := logrus.Fields{"kind": d.Kind.String(), "date": d.Date, "time": d.Time}
		if d.Fallback {
			a.log.WithFields(fields).Warn("directive recovered by fallback heuristic")
		} else {
			a.log.WithFields(fields).Debug("directive parsed")
		}
		switch d.Kind {
		case directive.Book:
			a.Tell(BookAppointment{Date: d.Date, Time: d.Time, ReplyTo: replyTo})
		case directive.Cancel:
			a.Tell(CancelAppointment{Date: d.Date, Time: d.Time, ReplyTo: replyTo})
		}
	}

	a.Tell(LLMReply{Content: visible})
}

func (a *Agent) handleBook(cmd BookAppointment) {
	next, ok := a.state.Book(cmd.Date, cmd.Time)
	if !ok {
		a.log.WithFields(logrus.Fields{"date": cmd.Date, "time": cmd.Time}).
			Warn("booking rejected: slot not available")
		a.deliver(cmd.ReplyTo, "Sorry, that slot is not available.")
		return
	}
	a.state = next
	// The natural-language confirmation from the LLM already went out;
	// a successful booking is silent here.
	a.log.WithFields(logrus.Fields{"date": cmd.Date, "time": cmd.Time}).Info("slot booked")
}

func (a *Agent) handleCancel(cmd CancelAppointment) {
	next, ok := a.state.Cancel(cmd.Date, cmd.Time)
	if !ok {
		a.log.WithFields(logrus.Fields{"date": cmd.Date, "time": cmd.Time}).
			Warn("cancellation rejected: no such booking")
		a.deliver(cmd.ReplyTo, "No such appointment found to cancel.")
		return
	}
	a.state = next
	a.log.WithFields(logrus.Fields{"date": cmd.Date, "time": cmd.Time}).Info("booking cancelled")
	a.deliver(cmd.ReplyTo,
		"Your appointment on "+cmd.Date+" at "+cmd.Time+" has been cancelled.")
}

func (a *Agent) deliver(replyTo chan<- Response, message string) {
	if replyTo == nil {
		return
	}
	replyTo <- Response{Message: message}
}
