// Package membership derives a member's membership lifecycle state from the stored
// end date and rolls many members up into dashboard counts.
//
// Nothing here performs I/O or reads the wall clock: callers pass "today" explicitly
// so one request evaluates every member against the same calendar day.
package membership

import (
	"fmt"
	"strings"
	"time"
)

// Status is the derived lifecycle state shown on the dashboard.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
	StatusInactive Status = "inactive"
)

// ExpiringThresholdDays is the inclusive window in which a running membership is
// reported as expiring soon.
const ExpiringThresholdDays = 8

// ParseStatus maps free text onto the known statuses (case-insensitive, trimmed).
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusExpiring:
		return StatusExpiring, true
	case StatusExpired:
		return StatusExpired, true
	case StatusInactive:
		return StatusInactive, true
	default:
		return "", false
	}
}

// Membership is the subscription sub-record of a member.
type Membership struct {
	// Status is echoed from storage. Derive does not consult it.
	Status *string
	// EndDate is an ISO-8601 date or timestamp; nil means no expiry is tracked.
	EndDate *string
}

// Member holds the fields Derive reads from a member record.
type Member struct {
	// Membership is nil when the member never had a plan.
	Membership *Membership
	// MembershipStatus is the legacy top-level status used as a fallback.
	MembershipStatus *string
}

// Result is the derived status of one member.
// DaysRemaining is nil when no expiry data is available, and never negative.
type Result struct {
	Status        Status
	DaysRemaining *int
}

// Summary counts derived statuses. Total always equals the sum of the four categories.
type Summary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Expired  int `json:"expired"`
	Expiring int `json:"expiring"`
	Inactive int `json:"inactive"`
}

// Today returns midnight of now's calendar day in now's location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Derive classifies one member against the calendar day of today.
func Derive(m Member, today time.Time) Result {
	if m.Membership == nil {
		return Result{Status: fallback(m.MembershipStatus, StatusInactive)}
	}

	end, ok := parseEndDate(m.Membership.EndDate, today.Location())
	if !ok {
		return Result{Status: fallback(m.MembershipStatus, StatusActive)}
	}

	days := daysBetween(today, end)
	if days < 0 {
		zero := 0
		return Result{Status: StatusExpired, DaysRemaining: &zero}
	}
	if days <= ExpiringThresholdDays {
		return Result{Status: StatusExpiring, DaysRemaining: &days}
	}
	return Result{Status: StatusActive, DaysRemaining: &days}
}

// Summarize derives every member against the same today and tallies the results.
func Summarize(members []Member, today time.Time) Summary {
	var s Summary
	for _, m := range members {
		s.Total++
		switch Derive(m, today).Status {
		case StatusActive:
			s.Active++
		case StatusExpired:
			s.Expired++
		case StatusExpiring:
			s.Expiring++
		default:
			s.Inactive++
		}
	}
	return s
}

// Label is the badge text for a derived status.
func Label(r Result) string {
	switch r.Status {
	case StatusActive:
		return "Active"
	case StatusExpired:
		return "Expired"
	case StatusExpiring:
		days := 0
		if r.DaysRemaining != nil {
			days = *r.DaysRemaining
		}
		return fmt.Sprintf("Expiring Soon · %d day(s) left", days)
	case StatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// fallback applies the legacy status. Only nil or "" select def; any other text,
// whitespace included, counts as present and unknown text maps to inactive.
func fallback(s *string, def Status) Status {
	if s == nil || *s == "" {
		return def
	}
	if st, ok := ParseStatus(*s); ok {
		return st
	}
	return StatusInactive
}

const secondsPerDay = 24 * 60 * 60

// daysBetween counts calendar days from a to b, ignoring time of day and DST shifts.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Unix()
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC).Unix()
	// Unix seconds rather than Sub: a Duration saturates after ~292 years.
	return int((ub - ua) / secondsPerDay)
}
