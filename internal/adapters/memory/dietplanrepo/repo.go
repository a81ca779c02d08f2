package dietplanrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/dietplanrepo"
)

// Repo is an in-memory implementation of dietplanrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu        sync.RWMutex
	byPurpose map[domain.DietPurpose]domain.DietPlan
}

func NewRepo() *Repo {
	return &Repo{byPurpose: make(map[domain.DietPurpose]domain.DietPlan)}
}

func (r *Repo) Get(ctx context.Context, purpose domain.DietPurpose) (domain.DietPlan, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byPurpose[purpose]
	if !ok {
		return domain.DietPlan{}, dietplanrepo.ErrNotFound
	}
	return clonePlan(p), nil
}

func (r *Repo) Put(ctx context.Context, p domain.DietPlan) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPurpose[p.Purpose] = clonePlan(p)
	return nil
}

func (r *Repo) Delete(ctx context.Context, purpose domain.DietPurpose) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPurpose[purpose]; !ok {
		return dietplanrepo.ErrNotFound
	}
	delete(r.byPurpose, purpose)
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.DietPlan, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DietPlan, 0, len(r.byPurpose))
	for _, p := range r.byPurpose {
		out = append(out, clonePlan(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Purpose < out[j].Purpose })
	return out, nil
}

func clonePlan(p domain.DietPlan) domain.DietPlan {
	out := domain.DietPlan{Purpose: p.Purpose, Categories: make([]domain.DietCategoryPlan, 0, len(p.Categories))}
	for _, c := range p.Categories {
		out.Categories = append(out.Categories, domain.DietCategoryPlan{
			Category: c.Category,
			Meals:    append([]domain.Meal(nil), c.Meals...),
		})
	}
	return out
}
