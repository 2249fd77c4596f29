// Viridis - Satellite Vegetation and Land Surface Temperature Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viridis

// Package temporal provides calendar-month windows for imagery queries.
//
// All analysis endpoints operate on whole calendar months in UTC. The
// trailing window is anchored at the month containing (now - 365 days) so a
// full year of complete months is always available, including the case where
// the current month has only just begun.
package temporal

import (
	"fmt"
	"time"
)

// WindowMonths is the number of months in the trailing analysis window.
const WindowMonths = 12

// Month identifies one calendar month in UTC.
type Month struct {
	Year int
	Mon  time.Month
}

// MonthOf returns the Month containing t, evaluated in UTC.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Mon: u.Month()}
}

// ParseMonth parses a strict "YYYY-MM" label.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return Month{Year: t.Year(), Mon: t.Month()}, nil
}

// String returns the "YYYY-MM" label.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Name returns the English month name ("January" ... "December").
func (m Month) Name() string {
	return m.Mon.String()
}

// Label returns the human-readable "January 2006" form used in responses.
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Mon.String(), m.Year)
}

// Bounds returns the half-open UTC interval [start, end) covering the month.
func (m Month) Bounds() (start, end time.Time) {
	start = time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// Add returns the month n calendar months after m (n may be negative).
func (m Month) Add(n int) Month {
	start, _ := m.Bounds()
	return MonthOf(start.AddDate(0, n, 0))
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Mon < other.Mon
}

// TrailingMonths returns n consecutive calendar months in ascending order,
// anchored at the month containing (now - 365 days).
func TrailingMonths(now time.Time, n int) []Month {
	first := MonthOf(now.UTC().AddDate(0, 0, -365))
	months := make([]Month, 0, n)
	for i := 0; i < n; i++ {
		months = append(months, first.Add(i))
	}
	return months
}

// Period formats the inclusive range label "YYYY-MM to YYYY-MM" for a
// non-empty ascending month slice.
func Period(months []Month) string {
	if len(months) == 0 {
		return ""
	}
	return months[0].String() + " to " + months[len(months)-1].String()
}
