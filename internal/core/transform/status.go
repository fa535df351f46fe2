// Package transform turns a raw departure board into the board domain model.
// Every function here is pure: no I/O, no shared state.
package transform

import (
	"strings"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// Keywords Darwin uses in place of an estimated time.
const (
	etdOnTime    = "on time"
	etdDelayed   = "delayed"
	etdCancelled = "cancelled"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ResolveStatus derives a service status from its estimated departure and
// cancellation flag. Cancelled beats Delayed beats OnTime; anything else is
// a replacement time and resolves to NewTime.
func ResolveStatus(etd string, isCancelled bool) domain.Status {
	switch n := normalize(etd); {
	case n == etdCancelled || isCancelled:
		return domain.StatusCancelled
	case n == etdDelayed:
		return domain.StatusDelayed
	case n == etdOnTime:
		return domain.StatusOnTime
	default:
		return domain.StatusNewTime
	}
}

// ResolveServiceTime returns the effective departure time. An on-time,
// delayed or cancelled service keeps its scheduled time; otherwise etd
// holds the replacement time.
func ResolveServiceTime(std, etd string) (domain.TimeOfDay, error) {
	switch normalize(etd) {
	case etdOnTime, etdDelayed, etdCancelled:
		t, err := domain.ParseTimeOfDay(std)
		if err != nil {
			return 0, domain.Malformed("std", err)
		}
		return t, nil
	default:
		t, err := domain.ParseTimeOfDay(etd)
		if err != nil {
			return 0, domain.Malformed("etd", err)
		}
		return t, nil
	}
}

// ResolveCallingPointTime picks the display time for a calling point:
// actual if the train has called, scheduled if on time, otherwise the
// estimate as given.
func ResolveCallingPointTime(at, st, et string) string {
	if at != "" {
		return at
	}
	if normalize(et) == etdOnTime {
		return st
	}
	return et
}
