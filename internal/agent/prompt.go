package agent

import (
	"fmt"
	"strings"

	"schedbot/internal/ledger"
)

// prompt.go builds the system prompt sent with every completion request.
// Keeping the prompt text in one place makes it easy to tweak without
// touching the state machine.

const (
	// promptPreamble sets the assistant's role.
	promptPreamble = "You are an appointment scheduling assistant. " +
		"Help the user find and book a suitable time slot from the " +
		"availability below, or cancel an existing appointment."

	// promptGrammar pins the directive grammar. The parser's primary path
	// depends on the model honouring these lines exactly.
	promptGrammar = "When the user confirms a booking, emit a line of the exact form " +
		"BOOK:YYYY-MM-DD:HH:MM on its own line, before a short human-friendly confirmation. " +
		"When the user asks to cancel a confirmed appointment, emit " +
		"CANCEL:YYYY-MM-DD:HH:MM the same way. " +
		"Never write a confirmation without the corresponding BOOK or CANCEL line, " +
		"and never emit a BOOK or CANCEL line for a slot that is not listed as available."
)

// BuildSystemPrompt renders the prompt for one ledger snapshot: role
// preamble, availability grouped by date, and the directive grammar.
func BuildSystemPrompt(snap ledger.Ledger) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nCurrently available time slots:\n")
	for _, date := range snap.Dates() {
		times := snap.SlotsFor(date)
		if len(times) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", date, strings.Join(times, ", "))
	}
	b.WriteString("\n")
	b.WriteString(promptGrammar)
	return b.String()
}
