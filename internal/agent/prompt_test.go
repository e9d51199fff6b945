package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedbot/internal/ledger"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(ledger.New())

	assert.Contains(t, prompt, "appointment scheduling assistant")
	assert.Contains(t, prompt, "2025-11-05: 10:00, 14:00, 16:00")
	assert.Contains(t, prompt, "2025-11-06: 09:00, 11:00, 15:00")
	assert.Contains(t, prompt, "BOOK:YYYY-MM-DD:HH:MM")
	assert.Contains(t, prompt, "CANCEL:YYYY-MM-DD:HH:MM")

	// Dates render in ascending order.
	assert.Less(t,
		strings.Index(prompt, "2025-11-05"),
		strings.Index(prompt, "2025-11-06"))
}

func TestBuildSystemPromptSkipsExhaustedDates(t *testing.T) {
	l := ledger.NewWithSlots(map[string][]string{"2025-12-01": {"09:00"}})
	l, ok := l.Book("2025-12-01", "09:00")
	require.True(t, ok)

	prompt := BuildSystemPrompt(l)
	assert.NotContains(t, prompt, "2025-12-01")
}

func TestRenderBooked(t *testing.T) {
	l := ledger.New()
	assert.Equal(t, "No appointments booked yet.", renderBooked(l))

	l, _ = l.Book("2025-11-06", "09:00")
	l, _ = l.Book("2025-11-05", "14:00")
	assert.Equal(t,
		"Booked appointments:\n  - 2025-11-06 at 09:00\n  - 2025-11-05 at 14:00",
		renderBooked(l))
}
