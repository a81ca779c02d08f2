package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/clock"
	memmemberrepo "github.com/unique-fitness/gym-admin-api/internal/adapters/memory/memberrepo"
	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/domain/membership"
)

func seed(t *testing.T, repo *memmemberrepo.Repo, name string, endDate *string) {
	t.Helper()
	m := domain.Member{
		ID:       domain.MemberID(name),
		FullName: name,
		Username: name,
		Email:    name + "@example.com",
	}
	if endDate != nil {
		m.Membership = &domain.Membership{EndDate: endDate}
	}
	require.NoError(t, repo.Create(context.Background(), m))
}

func day(s string) *string { return &s }

func TestService_Stats(t *testing.T) {
	t.Parallel()

	repo := memmemberrepo.NewRepo()
	// Late evening still counts as 2025-01-01.
	clk := memclock.NewManualClock(time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC))
	svc := NewService(repo, clk)

	seed(t, repo, "a", day("2025-01-31"))
	seed(t, repo, "b", day("2024-12-27"))
	seed(t, repo, "c", day("2025-01-04"))
	seed(t, repo, "d", nil)

	got, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, membership.Summary{Total: 4, Active: 1, Expired: 1, Expiring: 1, Inactive: 1}, got.Summary)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got.AsOf)
}

func TestService_Stats_Empty(t *testing.T) {
	t.Parallel()

	svc := NewService(memmemberrepo.NewRepo(), memclock.NewManualClock(time.Unix(0, 0).UTC()))
	got, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, membership.Summary{}, got.Summary)
}

func TestService_Expiring(t *testing.T) {
	t.Parallel()

	repo := memmemberrepo.NewRepo()
	clk := memclock.NewManualClock(time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC))
	svc := NewService(repo, clk)

	seed(t, repo, "later", day("2025-01-09"))
	seed(t, repo, "today", day("2025-01-01"))
	seed(t, repo, "soon", day("2025-01-03"))
	seed(t, repo, "active", day("2025-01-10"))
	seed(t, repo, "gone", day("2024-12-31"))

	got, err := svc.Expiring(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "today", got[0].Member.FullName)
	assert.Equal(t, 0, got[0].DaysRemaining)
	assert.Equal(t, "soon", got[1].Member.FullName)
	assert.Equal(t, "later", got[2].Member.FullName)
	assert.Equal(t, 8, got[2].DaysRemaining)
}
