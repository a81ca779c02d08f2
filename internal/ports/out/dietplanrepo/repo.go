package dietplanrepo

import (
	"context"
	"errors"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
)

var ErrNotFound = errors.New("diet plan not found")

// Repository stores one diet plan document per purpose.
// List returns plans ordered by purpose.
type Repository interface {
	Get(ctx context.Context, purpose domain.DietPurpose) (domain.DietPlan, error)
	// Put creates or replaces the plan for p.Purpose.
	Put(ctx context.Context, p domain.DietPlan) error
	Delete(ctx context.Context, purpose domain.DietPurpose) error
	List(ctx context.Context) ([]domain.DietPlan, error)
}
