package videorepo

import (
	"context"
	"sort"
	"sync"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/videorepo"
)

// Repo is an in-memory implementation of videorepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu       sync.RWMutex
	byMuscle map[domain.Muscle]map[string]struct{}
}

func NewRepo() *Repo {
	return &Repo{byMuscle: make(map[domain.Muscle]map[string]struct{})}
}

func (r *Repo) List(ctx context.Context, muscle domain.Muscle) ([]string, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byMuscle[muscle]
	out := make([]string, 0, len(set))
	for link := range set {
		out = append(out, link)
	}
	sort.Strings(out)
	return out, nil
}

func (r *Repo) Add(ctx context.Context, muscle domain.Muscle, link string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.byMuscle[muscle]
	if !ok {
		set = make(map[string]struct{})
		r.byMuscle[muscle] = set
	}
	set[link] = struct{}{}
	return nil
}

func (r *Repo) Remove(ctx context.Context, muscle domain.Muscle, link string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.byMuscle[muscle]
	if _, ok := set[link]; !ok {
		return videorepo.ErrNotFound
	}
	delete(set, link)
	return nil
}

func (r *Repo) Replace(ctx context.Context, muscle domain.Muscle, oldLink, newLink string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.byMuscle[muscle]
	if _, ok := set[oldLink]; !ok {
		return videorepo.ErrNotFound
	}
	delete(set, oldLink)
	set[newLink] = struct{}{}
	return nil
}
