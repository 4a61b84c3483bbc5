package utils

import (
	"fmt"
	"time"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location, or in the local zone when nil.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a clock for the IANA zone name; "" and "Local" mean the host zone.
func NewSystemClock(timezone string) (*SystemClock, error) {
	if timezone == "" || timezone == "Local" {
		return &SystemClock{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	return &SystemClock{Location: loc}, nil
}

func (s SystemClock) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
