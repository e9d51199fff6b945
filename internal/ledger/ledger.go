// Package ledger holds the booking state for one agent session: the
// conversation transcript, the per-date availability calendar, and the
// confirmed bookings. A Ledger is a value; every mutator returns a new
// Ledger and leaves the receiver untouched, so the agent can hand out
// snapshots without copying defensively at each call site.
package ledger

import "sort"

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is a single transcript line. The transcript is append-only.
type Entry struct {
	Role    Role
	Content string
}

// Booking is a confirmed (date, time) pair. Dates are ISO YYYY-MM-DD and
// times 24-hour HH:MM; equality is by the pair.
type Booking struct {
	Date string
	Time string
}

// Ledger is the authoritative session state. A (date, time) pair lives in
// exactly one of available or booked once it is known to the system.
type Ledger struct {
	transcript []Entry
	available  map[string][]string
	booked     []Booking
}

// New returns a Ledger seeded with the default availability calendar and an
// empty transcript. The seed dates are contractual for the test suite.
func New() Ledger {
	return NewWithSlots(map[string][]string{
		"2025-11-05": {"10:00", "14:00", "16:00"},
		"2025-11-06": {"09:00", "11:00", "15:00"},
	})
}

// NewWithSlots returns a Ledger seeded from an arbitrary availability map,
// normalising each day to a sorted, duplicate-free slice. Days with no
// times are dropped.
func NewWithSlots(slots map[string][]string) Ledger {
	available := make(map[string][]string, len(slots))
	for date, times := range slots {
		if len(times) == 0 {
			continue
		}
		day := make([]string, 0, len(times))
		seen := make(map[string]bool, len(times))
		for _, t := range times {
			if !seen[t] {
				seen[t] = true
				day = append(day, t)
			}
		}
		sort.Strings(day)
		available[date] = day
	}
	return Ledger{available: available}
}

// Append returns a Ledger whose transcript has one more entry. Existing
// entries are never edited or removed.
func (l Ledger) Append(role Role, content string) Ledger {
	transcript := make([]Entry, len(l.transcript), len(l.transcript)+1)
	copy(transcript, l.transcript)
	transcript = append(transcript, Entry{Role: role, Content: content})
	return Ledger{transcript: transcript, available: l.available, booked: l.booked}
}

// Book moves a slot from availability to the booking set. The second return
// is false when the slot is not currently available; the receiver is then
// returned unchanged.
func (l Ledger) Book(date, time string) (Ledger, bool) {
	day, ok := l.available[date]
	if !ok {
		return l, false
	}
	idx := -1
	for i, t := range day {
		if t == time {
			idx = i
			break
		}
	}
	if idx < 0 {
		return l, false
	}

	available := l.copyAvailable()
	remaining := make([]string, 0, len(day)-1)
	remaining = append(remaining, day[:idx]...)
	remaining = append(remaining, day[idx+1:]...)
	available[date] = remaining

	booked := make([]Booking, len(l.booked), len(l.booked)+1)
	copy(booked, l.booked)
	booked = append(booked, Booking{Date: date, Time: time})

	return Ledger{transcript: l.transcript, available: available, booked: booked}, true
}

// Cancel removes a booking and returns its time to availability, keeping
// the day's slice sorted. The date key is created when it no longer exists.
// The second return is false when no such booking is recorded.
func (l Ledger) Cancel(date, time string) (Ledger, bool) {
	idx := -1
	for i, b := range l.booked {
		if b.Date == date && b.Time == time {
			idx = i
			break
		}
	}
	if idx < 0 {
		return l, false
	}

	booked := make([]Booking, 0, len(l.booked)-1)
	booked = append(booked, l.booked[:idx]...)
	booked = append(booked, l.booked[idx+1:]...)

	available := l.copyAvailable()
	day := append([]string(nil), available[date]...)
	pos := sort.SearchStrings(day, time)
	if pos == len(day) || day[pos] != time {
		day = append(day, "")
		copy(day[pos+1:], day[pos:])
		day[pos] = time
	}
	available[date] = day

	return Ledger{transcript: l.transcript, available: available, booked: booked}, true
}

// HasBooking reports whether the (date, time) pair is currently booked.
func (l Ledger) HasBooking(date, time string) bool {
	for _, b := range l.booked {
		if b.Date == date && b.Time == time {
			return true
		}
	}
	return false
}

// SlotsFor returns a copy of the available times for one date, sorted
// ascending. The result is nil when the date is unknown or fully booked.
func (l Ledger) SlotsFor(date string) []string {
	day := l.available[date]
	if len(day) == 0 {
		return nil
	}
	return append([]string(nil), day...)
}

// Dates returns the availability dates in ascending order, including dates
// whose slots are all booked.
func (l Ledger) Dates() []string {
	dates := make([]string, 0, len(l.available))
	for date := range l.available {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Available returns a copy of the full availability map.
func (l Ledger) Available() map[string][]string {
	out := make(map[string][]string, len(l.available))
	for date, day := range l.available {
		out[date] = append([]string(nil), day...)
	}
	return out
}

// Transcript returns a copy of the conversation so far.
func (l Ledger) Transcript() []Entry {
	return append([]Entry(nil), l.transcript...)
}

// Bookings returns a copy of the confirmed bookings in insertion order.
func (l Ledger) Bookings() []Booking {
	return append([]Booking(nil), l.booked...)
}

func (l Ledger) copyAvailable() map[string][]string {
	out := make(map[string][]string, len(l.available))
	for date, day := range l.available {
		out[date] = day
	}
	return out
}
