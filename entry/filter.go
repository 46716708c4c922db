// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package entry

import (
	"fmt"
	"time"
)

// DateLayout is the layout of date query parameters.
const DateLayout = "2006-01-02"

// FilterMode selects how a DateFilter matches.
type FilterMode int

const (
	// FilterNone matches every entry.
	FilterNone FilterMode = iota

	// FilterSingle matches entries created on one day.
	FilterSingle

	// FilterRange matches entries created between two days, inclusive.
	FilterRange
)

// DateFilter restricts a listing by creation day (UTC).
type DateFilter struct {
	Mode FilterMode
	From time.Time
	To   time.Time
}

// NoFilter matches every entry.
func NoFilter() DateFilter { return DateFilter{} }

// OnDay matches entries created on the day of d.
func OnDay(d time.Time) DateFilter {
	d = day(d)
	return DateFilter{Mode: FilterSingle, From: d, To: d}
}

// Between matches entries created from the day of from through the day of
// to.
func Between(from, to time.Time) (DateFilter, error) {
	from, to = day(from), day(to)
	if to.Before(from) {
		return DateFilter{}, fmt.Errorf("%w: %s > %s", ErrDateRange,
			from.Format(DateLayout), to.Format(DateLayout))
	}
	return DateFilter{Mode: FilterRange, From: from, To: to}, nil
}

// ParseFilter builds a filter from date_from and date_to query values:
// both set selects a range, only date_from a single day, anything else
// no filter.
func ParseFilter(from, to string) (DateFilter, error) {
	if from == "" {
		return NoFilter(), nil
	}
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return DateFilter{}, fmt.Errorf("%w: date_from %q", ErrDateFormat, from)
	}
	if to == "" {
		return OnDay(f), nil
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return DateFilter{}, fmt.Errorf("%w: date_to %q", ErrDateFormat, to)
	}
	return Between(f, t)
}

// Match reports whether an entry created at t passes the filter.
func (f DateFilter) Match(t time.Time) bool {
	if f.Mode == FilterNone {
		return true
	}
	d := day(t)
	return !d.Before(f.From) && !d.After(f.To)
}

// Bounds returns the filter's first and last day as DateLayout strings.
// It returns ok=false for FilterNone.
func (f DateFilter) Bounds() (from, to string, ok bool) {
	if f.Mode == FilterNone {
		return "", "", false
	}
	return f.From.Format(DateLayout), f.To.Format(DateLayout), true
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
