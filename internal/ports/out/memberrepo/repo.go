package memberrepo

import (
	"context"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
)

// Repository provides access to persisted members.
//
// Result ordering expectations:
// - List returns members ordered by lower(FullName) ascending, then ID, to keep behavior deterministic.
//
// Email and username uniqueness is case-insensitive and enforced by the repository so that
// concurrent creates cannot both succeed.
type Repository interface {
	Create(ctx context.Context, m domain.Member) error
	Update(ctx context.Context, m domain.Member) error
	Delete(ctx context.Context, id domain.MemberID) error

	GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error)
	GetByEmail(ctx context.Context, email string) (domain.Member, error)
	GetByUsername(ctx context.Context, username string) (domain.Member, error)

	List(ctx context.Context) ([]domain.Member, error)

	// CountByPlan reports how many members currently reference each plan.
	CountByPlan(ctx context.Context) (map[domain.PlanID]int, error)
}
