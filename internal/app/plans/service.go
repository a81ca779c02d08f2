package plans

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	clockport "github.com/unique-fitness/gym-admin-api/internal/ports/out/clock"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/memberrepo"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/planrepo"
)

// PlanView is a plan with the number of members currently on it.
type PlanView struct {
	Plan         domain.Plan
	MembersCount int
}

// PlanInput is used for both create and full replace. An empty Status means active.
type PlanInput struct {
	Name           string
	PriceRupees    int
	DurationMonths int
	Status         domain.PlanStatus
}

type Service struct {
	repo    planrepo.Repository
	members memberrepo.Repository
	clk     clockport.Clock

	newPlanID func() domain.PlanID
}

func NewService(repo planrepo.Repository, members memberrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo:    repo,
		members: members,
		clk:     clk,
		newPlanID: func() domain.PlanID {
			return domain.PlanID(uuid.NewString())
		},
	}
}

func (s *Service) ListPlans(ctx context.Context) ([]PlanView, error) {
	ps, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.members.CountByPlan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PlanView, 0, len(ps))
	for _, p := range ps {
		out = append(out, PlanView{Plan: p, MembersCount: counts[p.ID]})
	}
	return out, nil
}

func (s *Service) GetPlan(ctx context.Context, id domain.PlanID) (PlanView, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return PlanView{}, err
	}
	return s.view(ctx, p)
}

func (s *Service) CreatePlan(ctx context.Context, in PlanInput) (PlanView, error) {
	in, err := normalize(in)
	if err != nil {
		return PlanView{}, err
	}
	now := s.clk.Now()
	p := domain.Plan{
		ID:             s.newPlanID(),
		Name:           in.Name,
		PriceRupees:    in.PriceRupees,
		DurationMonths: in.DurationMonths,
		Status:         in.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return PlanView{}, err
	}
	return PlanView{Plan: p}, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id domain.PlanID, in PlanInput) (PlanView, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return PlanView{}, err
	}
	in, err = normalize(in)
	if err != nil {
		return PlanView{}, err
	}
	p.Name = in.Name
	p.PriceRupees = in.PriceRupees
	p.DurationMonths = in.DurationMonths
	p.Status = in.Status
	p.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, planrepo.ErrNotFound) {
			return PlanView{}, notFound()
		}
		return PlanView{}, err
	}
	return s.view(ctx, p)
}

// DeletePlan refuses to remove a plan that members still reference; deactivate it instead.
func (s *Service) DeletePlan(ctx context.Context, id domain.PlanID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	counts, err := s.members.CountByPlan(ctx)
	if err != nil {
		return err
	}
	if n := counts[id]; n > 0 {
		return &Error{
			Status:  409,
			Code:    "PLAN_IN_USE",
			Message: "plan is assigned to members; set it inactive instead",
			Details: map[string]any{"membersCount": n},
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, planrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	return nil
}

func (s *Service) get(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, planrepo.ErrNotFound) {
			return domain.Plan{}, notFound()
		}
		return domain.Plan{}, err
	}
	return p, nil
}

func (s *Service) view(ctx context.Context, p domain.Plan) (PlanView, error) {
	counts, err := s.members.CountByPlan(ctx)
	if err != nil {
		return PlanView{}, err
	}
	return PlanView{Plan: p, MembersCount: counts[p.ID]}, nil
}

func normalize(in PlanInput) (PlanInput, error) {
	in.Name = domain.NormalizeHumanName(in.Name)
	if in.Name == "" {
		return in, validationError("name", "must be non-empty")
	}
	if in.PriceRupees <= 0 {
		return in, validationError("price", "must be greater than 0")
	}
	if in.DurationMonths <= 0 {
		return in, validationError("duration", "must be at least 1 month")
	}
	in.Status = domain.PlanStatus(strings.ToLower(strings.TrimSpace(string(in.Status))))
	if in.Status == "" {
		in.Status = domain.PlanStatusActive
	}
	if !in.Status.Valid() {
		return in, validationError("status", "must be one of active, inactive")
	}
	return in, nil
}

func validationError(field, problem string) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid " + field,
		Details: map[string]any{field: problem},
	}
}

func notFound() *Error {
	return &Error{Status: 404, Code: "PLAN_NOT_FOUND", Message: "plan not found"}
}
