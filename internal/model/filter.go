package model

import (
	"strings"
	"time"
)

// FilterAll disables the status or park filter.
const FilterAll = "all"

// RequestFilter is the listing filter. A request passes when it matches every
// active criterion.
type RequestFilter struct {
	Search string
	Status string
	Park   string
	From   *time.Time
	To     *time.Time
}

// StatusValue returns the normalised status, or "" when the filter is off.
func (f RequestFilter) StatusValue() string {
	if f.Status == "" || strings.EqualFold(f.Status, FilterAll) {
		return ""
	}
	return NormalizeStatus(f.Status)
}

// ParkValue returns the park, or "" when the filter is off.
func (f RequestFilter) ParkValue() string {
	if f.Park == "" || strings.EqualFold(f.Park, FilterAll) {
		return ""
	}
	return f.Park
}

// DateBounds returns the half-open interval [start, end) covering the calendar
// days From through To. ok is false unless both bounds are set.
func (f RequestFilter) DateBounds() (start, end time.Time, ok bool) {
	if f.From == nil || f.To == nil {
		return time.Time{}, time.Time{}, false
	}
	start = startOfDay(*f.From)
	end = startOfDay(f.To.In(f.From.Location())).AddDate(0, 0, 1)
	return start, end, true
}

// Matches reports whether r satisfies the filter.
func (f RequestFilter) Matches(r *FundingRequest) bool {
	if r == nil {
		return false
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(r.Title), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) &&
			!strings.Contains(strings.ToLower(r.ParkName), needle) {
			return false
		}
	}
	if status := f.StatusValue(); status != "" && NormalizeStatus(r.Status) != status {
		return false
	}
	if park := f.ParkValue(); park != "" && r.ParkName != park {
		return false
	}
	if start, end, ok := f.DateBounds(); ok {
		created := r.CreatedAt.In(start.Location())
		if created.Before(start) || !created.Before(end) {
			return false
		}
	}
	return true
}

// ApplyFilter returns the requests matching f in their original order. The
// input slice is never modified.
func ApplyFilter(requests []FundingRequest, f RequestFilter) []FundingRequest {
	out := make([]FundingRequest, 0, len(requests))
	for i := range requests {
		if f.Matches(&requests[i]) {
			out = append(out, requests[i])
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
