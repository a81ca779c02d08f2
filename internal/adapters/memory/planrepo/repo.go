package planrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/planrepo"
)

// Repo is an in-memory implementation of planrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.PlanID]domain.Plan
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.PlanID]domain.Plan)}
}

func (r *Repo) Create(ctx context.Context, p domain.Plan) error {
	_ = ctx
	if p.ID == "" {
		return planrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; ok {
		return planrepo.ErrAlreadyExists
	}
	r.byID[p.ID] = p
	return nil
}

func (r *Repo) Update(ctx context.Context, p domain.Plan) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return planrepo.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PlanID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return planrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Plan{}, planrepo.ErrNotFound
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Plan, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Plan, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni == nj {
			return out[i].ID < out[j].ID
		}
		return ni < nj
	})
	return out, nil
}
