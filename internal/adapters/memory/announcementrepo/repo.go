package announcementrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/announcementrepo"
)

// Repo is an in-memory implementation of announcementrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.AnnouncementID]domain.Announcement
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.AnnouncementID]domain.Announcement)}
}

func (r *Repo) Create(ctx context.Context, a domain.Announcement) error {
	_ = ctx
	if a.ID == "" {
		return announcementrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; ok {
		return announcementrepo.ErrAlreadyExists
	}
	r.byID[a.ID] = a
	return nil
}

func (r *Repo) Update(ctx context.Context, a domain.Announcement) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return announcementrepo.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.AnnouncementID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return announcementrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AnnouncementID) (domain.Announcement, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return domain.Announcement{}, announcementrepo.ErrNotFound
	}
	return a, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Announcement, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Announcement, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PublishDate.Equal(out[j].PublishDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].PublishDate.After(out[j].PublishDate)
	})
	return out, nil
}
