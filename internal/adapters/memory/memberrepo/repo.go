package memberrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/memberrepo"
)

// Repo is an in-memory implementation of memberrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID       map[domain.MemberID]domain.Member
	idByEmail  map[string]domain.MemberID
	idByHandle map[string]domain.MemberID
}

func NewRepo() *Repo {
	return &Repo{
		byID:       make(map[domain.MemberID]domain.Member),
		idByEmail:  make(map[string]domain.MemberID),
		idByHandle: make(map[string]domain.MemberID),
	}
}

func (r *Repo) Create(ctx context.Context, m domain.Member) error {
	_ = ctx
	if m.ID == "" {
		return memberrepo.ErrAlreadyExists // treat empty ID as invalid; the app layer always assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; ok {
		return memberrepo.ErrAlreadyExists
	}
	if err := r.checkUniqueLocked(m); err != nil {
		return err
	}

	r.byID[m.ID] = cloneMember(m)
	r.indexLocked(m)
	return nil
}

func (r *Repo) Update(ctx context.Context, m domain.Member) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[m.ID]
	if !ok {
		return memberrepo.ErrNotFound
	}
	if err := r.checkUniqueLocked(m); err != nil {
		return err
	}

	r.unindexLocked(existing)
	r.byID[m.ID] = cloneMember(m)
	r.indexLocked(m)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.MemberID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return memberrepo.ErrNotFound
	}
	r.unindexLocked(existing)
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return domain.Member{}, memberrepo.ErrNotFound
	}
	return cloneMember(m), nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	return r.getByIndex(ctx, r.idByEmail, email)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (domain.Member, error) {
	return r.getByIndex(ctx, r.idByHandle, username)
}

func (r *Repo) getByIndex(ctx context.Context, idx map[string]domain.MemberID, key string) (domain.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := idx[foldKey(key)]
	if !ok {
		return domain.Member{}, memberrepo.ErrNotFound
	}
	m, ok := r.byID[id]
	if !ok {
		return domain.Member{}, memberrepo.ErrNotFound
	}
	return cloneMember(m), nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Member, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, cloneMember(m))
	}
	sortMembersByFullName(out)
	return out, nil
}

func (r *Repo) CountByPlan(ctx context.Context) (map[domain.PlanID]int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[domain.PlanID]int)
	for _, m := range r.byID {
		if m.Membership != nil && m.Membership.PlanID != nil {
			out[*m.Membership.PlanID]++
		}
	}
	return out, nil
}

func (r *Repo) checkUniqueLocked(m domain.Member) error {
	if id, ok := r.idByEmail[foldKey(m.Email)]; ok && id != m.ID {
		return memberrepo.ErrEmailTaken
	}
	if m.Username != "" {
		if id, ok := r.idByHandle[foldKey(m.Username)]; ok && id != m.ID {
			return memberrepo.ErrUsernameTaken
		}
	}
	return nil
}

func (r *Repo) indexLocked(m domain.Member) {
	r.idByEmail[foldKey(m.Email)] = m.ID
	if m.Username != "" {
		r.idByHandle[foldKey(m.Username)] = m.ID
	}
}

func (r *Repo) unindexLocked(m domain.Member) {
	delete(r.idByEmail, foldKey(m.Email))
	if m.Username != "" {
		delete(r.idByHandle, foldKey(m.Username))
	}
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cloneMember(m domain.Member) domain.Member {
	out := m
	out.DOB = cloneTimePtr(m.DOB)
	out.HeightFt = cloneFloatPtr(m.HeightFt)
	out.WeightKg = cloneFloatPtr(m.WeightKg)
	out.MembershipStatus = cloneStringPtr(m.MembershipStatus)
	if m.Membership != nil {
		ms := *m.Membership
		if ms.PlanID != nil {
			id := *ms.PlanID
			ms.PlanID = &id
		}
		ms.Status = cloneStringPtr(ms.Status)
		ms.StartDate = cloneStringPtr(ms.StartDate)
		ms.EndDate = cloneStringPtr(ms.EndDate)
		out.Membership = &ms
	}
	if m.WorkoutSchedule != nil {
		out.WorkoutSchedule = make(domain.WorkoutSchedule, len(m.WorkoutSchedule))
		for day, groups := range m.WorkoutSchedule {
			out.WorkoutSchedule[day] = append([]string(nil), groups...)
		}
	}
	if m.WeightHistory != nil {
		out.WeightHistory = append([]domain.WeightEntry(nil), m.WeightHistory...)
	}
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortMembersByFullName(ms []domain.Member) {
	sort.Slice(ms, func(i, j int) bool {
		di := strings.ToLower(ms[i].FullName)
		dj := strings.ToLower(ms[j].FullName)
		if di == dj {
			return string(ms[i].ID) < string(ms[j].ID)
		}
		return di < dj
	})
}
