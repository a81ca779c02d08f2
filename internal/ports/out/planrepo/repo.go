package planrepo

import (
	"context"
	"errors"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
)

var (
	ErrNotFound      = errors.New("plan not found")
	ErrAlreadyExists = errors.New("plan already exists")
)

// Repository provides access to membership plans.
// List returns plans ordered by lower(Name), then ID.
type Repository interface {
	Create(ctx context.Context, p domain.Plan) error
	Update(ctx context.Context, p domain.Plan) error
	Delete(ctx context.Context, id domain.PlanID) error
	GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error)
	List(ctx context.Context) ([]domain.Plan, error)
}
