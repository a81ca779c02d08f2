package domain

import "time"

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// Plan is a purchasable membership plan.
type Plan struct {
	ID             PlanID
	Name           string
	PriceRupees    int
	DurationMonths int
	Status         PlanStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s PlanStatus) Valid() bool { return s == PlanStatusActive || s == PlanStatusInactive }
