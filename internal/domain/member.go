package domain

import (
	"time"

	"github.com/unique-fitness/gym-admin-api/internal/domain/membership"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type Branch string

const (
	BranchB1 Branch = "b1"
	BranchB2 Branch = "b2"
)

// Purpose is the member's training goal.
type Purpose string

const (
	PurposeGain     Purpose = "gain"
	PurposeLoose    Purpose = "loose"
	PurposeMaintain Purpose = "maintain"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the schedule keys in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WorkoutSchedule maps a weekday to the muscle groups trained that day.
type WorkoutSchedule map[Weekday][]string

type WeightEntry struct {
	ID       string
	Date     time.Time
	WeightKg float64
}

// Membership is a member's subscription record.
//
// Dates are kept as ISO-8601 strings exactly as stored; EndDate may be absent or
// malformed on imported records and the status engine tolerates both.
type Membership struct {
	PlanID    *PlanID
	Status    *string
	StartDate *string
	EndDate   *string
}

// Member is the domain representation of a gym member.
type Member struct {
	ID       MemberID
	FullName string
	Username string
	Email    string
	Phone    string

	Gender   Gender
	DOB      *time.Time // date-only semantics at the edges
	HeightFt *float64
	WeightKg *float64
	Address  string
	Branch   Branch
	Purpose  Purpose

	AadhaarPhotoURL string
	LivePhotoURL    string

	PasswordHash string

	Membership       *Membership
	MembershipStatus *string

	WorkoutSchedule WorkoutSchedule
	WeightHistory   []WeightEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MembershipView returns the fields the status engine reads.
func (m Member) MembershipView() membership.Member {
	out := membership.Member{MembershipStatus: m.MembershipStatus}
	if m.Membership != nil {
		out.Membership = &membership.Membership{
			Status:  m.Membership.Status,
			EndDate: m.Membership.EndDate,
		}
	}
	return out
}

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

func (b Branch) Valid() bool { return b == BranchB1 || b == BranchB2 }

func (p Purpose) Valid() bool {
	return p == PurposeGain || p == PurposeLoose || p == PurposeMaintain
}

func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}
