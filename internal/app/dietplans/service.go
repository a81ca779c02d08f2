package dietplans

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/dietplanrepo"
)

type MealInput struct {
	Time      string
	Items     string
	Nutrition domain.Nutrition
}

type AddMealsInput struct {
	Purpose  domain.DietPurpose
	Category domain.DietCategory
	Meals    []MealInput
}

type Service struct {
	repo dietplanrepo.Repository

	newMealID func() string
}

func NewService(repo dietplanrepo.Repository) *Service {
	return &Service{repo: repo, newMealID: uuid.NewString}
}

// ListDietPlans returns every plan, optionally narrowed to one purpose and/or category.
// A category filter drops the other categories and any plan left without one.
func (s *Service) ListDietPlans(ctx context.Context, purpose domain.DietPurpose, category domain.DietCategory) ([]domain.DietPlan, error) {
	if purpose != "" && !purpose.Valid() {
		return nil, validationError("purpose", "must be one of Weight Loss, Weight Gain, Maintain")
	}
	if category != "" && !category.Valid() {
		return nil, validationError("category", "must be one of Vegetarian, Non-Vegetarian, Vegan")
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DietPlan, 0, len(all))
	for _, p := range all {
		if purpose != "" && p.Purpose != purpose {
			continue
		}
		if category != "" {
			kept := p.Categories[:0:0]
			for _, c := range p.Categories {
				if c.Category == category {
					kept = append(kept, c)
				}
			}
			if len(kept) == 0 {
				continue
			}
			p.Categories = kept
		}
		out = append(out, p)
	}
	return out, nil
}

// AddMeals merges meals into the plan for the purpose, creating the plan or the category
// when missing. Existing meals are kept.
func (s *Service) AddMeals(ctx context.Context, in AddMealsInput) (domain.DietPlan, error) {
	if !in.Purpose.Valid() {
		return domain.DietPlan{}, validationError("purpose", "must be one of Weight Loss, Weight Gain, Maintain")
	}
	if !in.Category.Valid() {
		return domain.DietPlan{}, validationError("category", "must be one of Vegetarian, Non-Vegetarian, Vegan")
	}
	if len(in.Meals) == 0 {
		return domain.DietPlan{}, validationError("meals", "must contain at least one meal")
	}
	meals := make([]domain.Meal, 0, len(in.Meals))
	for _, m := range in.Meals {
		t, items := strings.TrimSpace(m.Time), strings.TrimSpace(m.Items)
		if t == "" || items == "" {
			return domain.DietPlan{}, validationError("meals", "each meal needs a time and items")
		}
		meals = append(meals, domain.Meal{
			ID:    s.newMealID(),
			Time:  t,
			Items: items,
			Nutrition: domain.Nutrition{
				Calories: strings.TrimSpace(m.Nutrition.Calories),
				Protein:  strings.TrimSpace(m.Nutrition.Protein),
				Carbs:    strings.TrimSpace(m.Nutrition.Carbs),
				Fat:      strings.TrimSpace(m.Nutrition.Fat),
			},
		})
	}

	plan, err := s.repo.Get(ctx, in.Purpose)
	if err != nil {
		if !errors.Is(err, dietplanrepo.ErrNotFound) {
			return domain.DietPlan{}, err
		}
		plan = domain.DietPlan{Purpose: in.Purpose}
	}

	merged := false
	for i := range plan.Categories {
		if plan.Categories[i].Category == in.Category {
			plan.Categories[i].Meals = append(plan.Categories[i].Meals, meals...)
			merged = true
			break
		}
	}
	if !merged {
		plan.Categories = append(plan.Categories, domain.DietCategoryPlan{Category: in.Category, Meals: meals})
	}

	if err := s.repo.Put(ctx, plan); err != nil {
		return domain.DietPlan{}, err
	}
	return plan, nil
}

// DeleteCategory removes one category; removing the last category removes the plan.
func (s *Service) DeleteCategory(ctx context.Context, purpose domain.DietPurpose, category domain.DietCategory) error {
	plan, err := s.repo.Get(ctx, purpose)
	if err != nil {
		if errors.Is(err, dietplanrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	kept := make([]domain.DietCategoryPlan, 0, len(plan.Categories))
	for _, c := range plan.Categories {
		if c.Category != category {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(plan.Categories) {
		return notFound()
	}
	if len(kept) == 0 {
		if err := s.repo.Delete(ctx, purpose); err != nil && !errors.Is(err, dietplanrepo.ErrNotFound) {
			return err
		}
		return nil
	}
	plan.Categories = kept
	return s.repo.Put(ctx, plan)
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
	return &Error{Status: 404, Code: "DIET_PLAN_NOT_FOUND", Message: "diet plan not found"}
}
