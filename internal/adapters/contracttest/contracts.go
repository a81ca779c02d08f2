// Package contracttest holds behavioral suites shared by every adapter that implements
// an outbound port, so the memory, postgres and redis backends stay interchangeable.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	announcementrepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/announcementrepo"
	dietplanrepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/dietplanrepo"
	idempotencyport "github.com/unique-fitness/gym-admin-api/internal/ports/out/idempotency"
	memberrepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/memberrepo"
	planrepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/planrepo"
	videorepoport "github.com/unique-fitness/gym-admin-api/internal/ports/out/videorepo"
)

type CleanupFunc = func()

type MemberRepoFactory func(t *testing.T) (memberrepoport.Repository, CleanupFunc)
type PlanRepoFactory func(t *testing.T) (planrepoport.Repository, CleanupFunc)
type AnnouncementRepoFactory func(t *testing.T) (announcementrepoport.Repository, CleanupFunc)
type DietPlanRepoFactory func(t *testing.T) (dietplanrepoport.Repository, CleanupFunc)
type VideoRepoFactory func(t *testing.T) (videorepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func strPtr(s string) *string { return &s }

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/api/v1/members",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("expected miss before Put, ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// The body hash is part of the fingerprint.
	other := fp
	other.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("expected miss for distinct body hash, ok=%v err=%v", ok, err)
	}
}

func RunMemberRepo(t *testing.T, newRepo MemberRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	planID := domain.PlanID(uuid.NewString())
	aID := domain.MemberID(uuid.NewString())
	alice := domain.Member{
		ID:       aID,
		FullName: "Alice Johnson",
		Username: "alice",
		Email:    "Alice@Example.com",
		Phone:    "9000000001",
		Gender:   domain.GenderFemale,
		Branch:   domain.BranchB1,
		Purpose:  domain.PurposeMaintain,
		Membership: &domain.Membership{
			PlanID:  &planID,
			Status:  strPtr("active"),
			EndDate: strPtr("2025-02-01"),
		},
		WorkoutSchedule: domain.WorkoutSchedule{domain.Monday: {"chest", "tricepts"}},
		WeightHistory:   []domain.WeightEntry{{ID: "w1", Date: now, WeightKg: 61.5}},
		PasswordHash:    "hash",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.Create(ctx, alice); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Membership == nil || got.Membership.EndDate == nil || *got.Membership.EndDate != "2025-02-01" {
		t.Fatalf("membership not round-tripped: %#v", got.Membership)
	}
	if len(got.WorkoutSchedule[domain.Monday]) != 2 || len(got.WeightHistory) != 1 {
		t.Fatalf("nested data not round-tripped: %#v", got)
	}
	if _, err := repo.GetByEmail(ctx, "alice@example.com"); err != nil {
		t.Fatalf("GetByEmail (case-insensitive): %v", err)
	}
	if _, err := repo.GetByUsername(ctx, "ALICE"); err != nil {
		t.Fatalf("GetByUsername (case-insensitive): %v", err)
	}
	if _, err := repo.GetByID(ctx, domain.MemberID(uuid.NewString())); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Email and username uniqueness.
	dup := alice
	dup.ID = domain.MemberID(uuid.NewString())
	dup.Username = "alice2"
	if err := repo.Create(ctx, dup); !errors.Is(err, memberrepoport.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	dup.Email = "alice2@example.com"
	dup.Username = "Alice"
	if err := repo.Create(ctx, dup); !errors.Is(err, memberrepoport.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// Deterministic list ordering by full name (case-insensitive); legacy status kept.
	bID := domain.MemberID(uuid.NewString())
	if err := repo.Create(ctx, domain.Member{
		ID:               bID,
		FullName:         "bob",
		Username:         "bob",
		Email:            "bob@example.com",
		MembershipStatus: strPtr("inactive"),
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	ms, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ms) != 2 || ms[0].ID != aID || ms[1].ID != bID {
		t.Fatalf("unexpected ordering: %#v", ms)
	}
	if ms[1].Membership != nil || ms[1].MembershipStatus == nil || *ms[1].MembershipStatus != "inactive" {
		t.Fatalf("legacy status not round-tripped: %#v", ms[1])
	}

	counts, err := repo.CountByPlan(ctx)
	if err != nil {
		t.Fatalf("CountByPlan: %v", err)
	}
	if counts[planID] != 1 || len(counts) != 1 {
		t.Fatalf("unexpected plan counts: %#v", counts)
	}

	// Update re-keys email; the old email is released.
	got.Email = "alice.j@example.com"
	got.Membership.EndDate = strPtr("not-a-date")
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "alice@example.com"); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected old email released, got %v", err)
	}
	updated, err := repo.GetByEmail(ctx, "alice.j@example.com")
	if err != nil || *updated.Membership.EndDate != "not-a-date" {
		t.Fatalf("expected raw end date preserved, got %#v err=%v", updated.Membership, err)
	}
	if !updated.CreatedAt.Equal(now) || !updated.UpdatedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected timestamps after Update: created=%v updated=%v", updated.CreatedAt, updated.UpdatedAt)
	}
	if err := repo.Update(ctx, domain.Member{ID: domain.MemberID(uuid.NewString()), Email: "x@example.com", Username: "x"}); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on Update, got %v", err)
	}

	if err := repo.Delete(ctx, bID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, bID); !errors.Is(err, memberrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second Delete, got %v", err)
	}
}

func RunPlanRepo(t *testing.T, newRepo PlanRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	basic := domain.Plan{ID: domain.PlanID(uuid.NewString()), Name: "basic", PriceRupees: 1200, DurationMonths: 1, Status: domain.PlanStatusActive, CreatedAt: now, UpdatedAt: now}
	annual := domain.Plan{ID: domain.PlanID(uuid.NewString()), Name: "Annual", PriceRupees: 12000, DurationMonths: 12, Status: domain.PlanStatusActive, CreatedAt: now, UpdatedAt: now}
	for _, p := range []domain.Plan{basic, annual} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create %s: %v", p.Name, err)
		}
	}
	if err := repo.Create(ctx, basic); !errors.Is(err, planrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	ps, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ps) != 2 || ps[0].ID != annual.ID || ps[1].ID != basic.ID {
		t.Fatalf("unexpected ordering: %#v", ps)
	}

	basic.Status = domain.PlanStatusInactive
	basic.PriceRupees = 1500
	if err := repo.Update(ctx, basic); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, basic.ID)
	if err != nil || got.Status != domain.PlanStatusInactive || got.PriceRupees != 1500 {
		t.Fatalf("unexpected plan after update: %#v err=%v", got, err)
	}

	if err := repo.Delete(ctx, basic.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, basic.ID); !errors.Is(err, planrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, basic); !errors.Is(err, planrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on Update, got %v", err)
	}
}

func RunAnnouncementRepo(t *testing.T, newRepo AnnouncementRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	older := domain.Announcement{ID: domain.AnnouncementID(uuid.NewString()), Title: "Holiday hours", Content: "Closed on **Monday**.", PublishDate: day(2), CreatedAt: day(1), UpdatedAt: day(1)}
	newer := domain.Announcement{ID: domain.AnnouncementID(uuid.NewString()), Title: "New trainer", Content: "Welcome!", PublishDate: day(10), CreatedAt: day(1), UpdatedAt: day(1)}
	for _, a := range []domain.Announcement{older, newer} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create %q: %v", a.Title, err)
		}
	}
	if err := repo.Create(ctx, older); !errors.Is(err, announcementrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	as, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(as) != 2 || as[0].ID != newer.ID || as[1].ID != older.ID {
		t.Fatalf("expected newest first: %#v", as)
	}

	older.Content = "Closed on **Tuesday**."
	if err := repo.Update(ctx, older); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, older.ID)
	if err != nil || got.Content != older.Content || !got.PublishDate.Equal(older.PublishDate) {
		t.Fatalf("unexpected announcement: %#v err=%v", got, err)
	}

	if err := repo.Delete(ctx, older.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, older.ID); !errors.Is(err, announcementrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func RunDietPlanRepo(t *testing.T, newRepo DietPlanRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if _, err := repo.Get(ctx, domain.DietPurposeWeightLoss); !errors.Is(err, dietplanrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	plan := domain.DietPlan{
		Purpose: domain.DietPurposeWeightLoss,
		Categories: []domain.DietCategoryPlan{{
			Category: domain.DietCategoryVegan,
			Meals: []domain.Meal{{
				ID:        "m1",
				Time:      "07:00",
				Items:     "Oats, almond milk",
				Nutrition: domain.Nutrition{Calories: "350", Protein: "12g", Carbs: "55g", Fat: "8g"},
			}},
		}},
	}
	if err := repo.Put(ctx, plan); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := repo.Get(ctx, plan.Purpose)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Categories) != 1 || len(got.Categories[0].Meals) != 1 || got.Categories[0].Meals[0].Nutrition.Protein != "12g" {
		t.Fatalf("plan not round-tripped: %#v", got)
	}

	// Put replaces the whole document.
	plan.Categories = append(plan.Categories, domain.DietCategoryPlan{Category: domain.DietCategoryVegetarian})
	if err := repo.Put(ctx, plan); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	if err := repo.Put(ctx, domain.DietPlan{Purpose: domain.DietPurposeMaintain}); err != nil {
		t.Fatalf("Put second: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].Purpose != domain.DietPurposeMaintain || len(all[1].Categories) != 2 {
		t.Fatalf("unexpected plans: %#v", all)
	}

	if err := repo.Delete(ctx, domain.DietPurposeMaintain); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, domain.DietPurposeMaintain); !errors.Is(err, dietplanrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func RunVideoRepo(t *testing.T, newRepo VideoRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	chest := domain.Muscle("chest")
	links, err := repo.List(ctx, chest)
	if err != nil || len(links) != 0 {
		t.Fatalf("expected empty list, got %v err=%v", links, err)
	}

	for _, l := range []string{"https://youtu.be/b", "https://youtu.be/a", "https://youtu.be/b"} {
		if err := repo.Add(ctx, chest, l); err != nil {
			t.Fatalf("Add %s: %v", l, err)
		}
	}
	links, err = repo.List(ctx, chest)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(links) != 2 || links[0] != "https://youtu.be/a" || links[1] != "https://youtu.be/b" {
		t.Fatalf("unexpected links: %v", links)
	}
	if other, _ := repo.List(ctx, domain.Muscle("legs")); len(other) != 0 {
		t.Fatalf("links leaked across muscles: %v", other)
	}

	if err := repo.Replace(ctx, chest, "https://youtu.be/a", "https://youtu.be/c"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := repo.Replace(ctx, chest, "https://youtu.be/missing", "https://youtu.be/d"); !errors.Is(err, videorepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on Replace, got %v", err)
	}
	if err := repo.Remove(ctx, chest, "https://youtu.be/b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := repo.Remove(ctx, chest, "https://youtu.be/b"); !errors.Is(err, videorepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on Remove, got %v", err)
	}
	links, _ = repo.List(ctx, chest)
	if len(links) != 1 || links[0] != "https://youtu.be/c" {
		t.Fatalf("unexpected links after edits: %v", links)
	}
}
