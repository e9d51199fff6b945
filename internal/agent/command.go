package agent

import "schedbot/internal/ledger"

// command.go defines the closed set of inbox messages the agent consumes
// and the outbound response type. The unexported marker method seals the
// union: nothing outside this package can add a Command variant.

// Response is an outbound user-facing message. Responses are delivered in
// the order the agent produced them.
type Response struct {
	Message string
}

// Command is a typed inbox message. The front end produces UserMessage and
// the direct slot commands; LLMReply and directive-driven bookings re-enter
// through the inbox from LLM completions so that all ledger writes happen
// on the agent goroutine.
type Command interface {
	isCommand()
}

// UserMessage is a natural-language turn from the user.
type UserMessage struct {
	Text    string
	ReplyTo chan<- Response
}

// LLMReply records the assistant's visible reply in the transcript. It is
// internal: the LLM completion path enqueues it to the agent itself.
type LLMReply struct {
	Content string
}

// BookAppointment reserves a slot. Produced by the front end directly or
// re-enqueued from a parsed BOOK directive.
type BookAppointment struct {
	Date    string
	Time    string
	ReplyTo chan<- Response
}

// CancelAppointment releases a booked slot.
type CancelAppointment struct {
	Date    string
	Time    string
	ReplyTo chan<- Response
}

// GetAvailableSlots asks for a rendering of the current availability.
type GetAvailableSlots struct {
	ReplyTo chan<- Response
}

// GetBookedAppointments asks for a rendering of the confirmed bookings.
type GetBookedAppointments struct {
	ReplyTo chan<- Response
}

// getLedger is an internal serialized read used by Ledger(); routing the
// read through the inbox keeps the single-writer discipline intact.
type getLedger struct {
	reply chan<- ledger.Ledger
}

func (UserMessage) isCommand()           {}
func (LLMReply) isCommand()              {}
func (BookAppointment) isCommand()       {}
func (CancelAppointment) isCommand()     {}
func (GetAvailableSlots) isCommand()     {}
func (GetBookedAppointments) isCommand() {}
func (getLedger) isCommand()             {}
