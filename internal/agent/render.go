package agent

import (
	"fmt"
	"strings"

	"schedbot/internal/ledger"
)

// renderAvailable lists the current availability, one line per date in
// date order.
func renderAvailable(l ledger.Ledger) string {
	var b strings.Builder
	b.WriteString("Available slots:\n")
	for _, date := range l.Dates() {
		times := l.SlotsFor(date)
		if len(times) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", date, strings.Join(times, ", "))
	}
	return b.String()
}

// renderBooked lists confirmed bookings in insertion order.
func renderBooked(l ledger.Ledger) string {
	bookings := l.Bookings()
	if len(bookings) == 0 {
		return "No appointments booked yet."
	}
	var b strings.Builder
	b.WriteString("Booked appointments:")
	for _, bk := range bookings {
		fmt.Fprintf(&b, "\n  - %s at %s", bk.Date, bk.Time)
	}
	return b.String()
}
