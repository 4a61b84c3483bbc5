package worktime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"9:30", 570, true},
		{" 17:05 ", 1025, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12:5", 0, false},
		{"123:00", 0, false},
		{"+1:00", 0, false},
		{"12-00", 0, false},
		{"", 0, false},
		{"08:00/PA", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseClock(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseClock(%q)", tt.in)
		assert.Equal(t, tt.minutes, got, "ParseClock(%q)", tt.in)
	}
}

func TestNormalizeClock(t *testing.T) {
	got, ok := NormalizeClock("7:05")
	assert.True(t, ok)
	assert.Equal(t, "07:05", got)

	got, ok = NormalizeClock("")
	assert.True(t, ok)
	assert.Equal(t, "", got)

	_, ok = NormalizeClock("7h05")
	assert.False(t, ok)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "16:30", FormatClock(990))
	assert.Equal(t, "01:00", FormatClock(1500))
	assert.Equal(t, "23:00", FormatClock(-60))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", FormatDuration(0))
	assert.Equal(t, "08:12", FormatDuration(492*time.Minute))
	assert.Equal(t, "-17:09", FormatDuration(-(17*time.Hour + 9*time.Minute)))
	assert.Equal(t, "123:00", FormatDuration(123*time.Hour))
	assert.Equal(t, "00:01", FormatDuration(40*time.Second))
}
