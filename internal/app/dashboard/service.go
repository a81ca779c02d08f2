// Package dashboard serves the landing page of the staff dashboard: membership counts
// and the renewal follow-up list.
package dashboard

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/domain/membership"
	clockport "github.com/unique-fitness/gym-admin-api/internal/ports/out/clock"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/memberrepo"
)

type Stats struct {
	Summary membership.Summary
	// AsOf is the calendar day every member was evaluated against.
	AsOf time.Time
}

type ExpiringMember struct {
	Member        domain.Member
	DaysRemaining int
}

type Service struct {
	repo memberrepo.Repository
	clk  clockport.Clock
}

func NewService(repo memberrepo.Repository, clk clockport.Clock) *Service {
	return &Service{repo: repo, clk: clk}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	ms, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	today := membership.Today(s.clk.Now())
	views := make([]membership.Member, 0, len(ms))
	for _, m := range ms {
		views = append(views, m.MembershipView())
	}
	return Stats{Summary: membership.Summarize(views, today), AsOf: today}, nil
}

// Expiring lists members whose membership is about to lapse, soonest first.
func (s *Service) Expiring(ctx context.Context) ([]ExpiringMember, error) {
	ms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	today := membership.Today(s.clk.Now())
	out := make([]ExpiringMember, 0)
	for _, m := range ms {
		r := membership.Derive(m.MembershipView(), today)
		if r.Status != membership.StatusExpiring || r.DaysRemaining == nil {
			continue
		}
		out = append(out, ExpiringMember{Member: m, DaysRemaining: *r.DaysRemaining})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysRemaining == out[j].DaysRemaining {
			return strings.ToLower(out[i].Member.FullName) < strings.ToLower(out[j].Member.FullName)
		}
		return out[i].DaysRemaining < out[j].DaysRemaining
	})
	return out, nil
}
