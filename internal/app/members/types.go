package members

import (
	"time"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/domain/membership"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// MemberView is a member together with its derived membership status.
type MemberView struct {
	Member domain.Member
	Status membership.Result
}

// ListMembersInput filters the member list. An empty Status or "all" keeps every member;
// otherwise only members whose derived status matches are returned.
type ListMembersInput struct {
	Query  string
	Status string
}

type CreateMemberInput struct {
	FullName string
	Username string
	Email    string
	Password string
	Phone    string

	Gender   domain.Gender
	DOB      *time.Time
	HeightFt *float64
	WeightKg *float64
	Address  string
	Branch   domain.Branch
	Purpose  domain.Purpose

	AadhaarPhotoURL string
	LivePhotoURL    string

	WorkoutSchedule domain.WorkoutSchedule
}

type UpdateMemberInput struct {
	FullName Optional[string] // cannot be null
	Username Optional[string] // cannot be null
	Email    Optional[string] // cannot be null
	Phone    Optional[string]

	Gender   Optional[domain.Gender]
	DOB      Optional[time.Time]
	HeightFt Optional[float64]
	WeightKg Optional[float64]
	Address  Optional[string]
	Branch   Optional[domain.Branch]
	Purpose  Optional[domain.Purpose]

	AadhaarPhotoURL Optional[string]
	LivePhotoURL    Optional[string]

	// MembershipStatus sets the legacy top-level status used when no end date is tracked.
	MembershipStatus Optional[string]

	WorkoutSchedule Optional[domain.WorkoutSchedule]
}

type AssignPlanInput struct {
	PlanID domain.PlanID
	// StartDate defaults to today.
	StartDate *time.Time
}

type RecordWeightInput struct {
	WeightKg float64
	// Date defaults to today.
	Date *time.Time
}
