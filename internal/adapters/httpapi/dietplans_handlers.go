package httpapi

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/unique-fitness/gym-admin-api/internal/app/dietplans"
	"github.com/unique-fitness/gym-admin-api/internal/domain"
)

type nutritionDTO struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

type mealDTO struct {
	ID        string       `json:"id"`
	Time      string       `json:"time"`
	Items     string       `json:"items"`
	Nutrition nutritionDTO `json:"nutrition"`
}

type dietCategoryDTO struct {
	Category string    `json:"category"`
	Meals    []mealDTO `json:"meals"`
}

type dietPlanDTO struct {
	Purpose    string            `json:"purpose"`
	Categories []dietCategoryDTO `json:"categories"`
}

type mealRequest struct {
	Time      string       `json:"time" validate:"required"`
	Items     string       `json:"items" validate:"required"`
	Nutrition nutritionDTO `json:"nutrition"`
}

type addMealsRequest struct {
	Purpose  string        `json:"purpose" validate:"required"`
	Category string        `json:"category" validate:"required"`
	Meals    []mealRequest `json:"meals" validate:"required,min=1,dive"`
}

func (s *Server) listDietPlans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ps, err := s.DietPlans.ListDietPlans(r.Context(), domain.DietPurpose(q.Get("purpose")), domain.DietCategory(q.Get("category")))
	if err != nil {
		writeServiceError(w, r, "ListDietPlans", err)
		return
	}
	out := make([]dietPlanDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, dietPlanFromDomain(p))
	}
	writeData(w, r, http.StatusOK, out)
}

func (s *Server) addMeals(w http.ResponseWriter, r *http.Request) {
	var body addMealsRequest
	if !readJSON(w, r, &body) {
		return
	}
	in := dietplans.AddMealsInput{
		Purpose:  domain.DietPurpose(body.Purpose),
		Category: domain.DietCategory(body.Category),
		Meals:    make([]dietplans.MealInput, 0, len(body.Meals)),
	}
	for _, m := range body.Meals {
		in.Meals = append(in.Meals, dietplans.MealInput{
			Time:  m.Time,
			Items: m.Items,
			Nutrition: domain.Nutrition{
				Calories: m.Nutrition.Calories,
				Protein:  m.Nutrition.Protein,
				Carbs:    m.Nutrition.Carbs,
				Fat:      m.Nutrition.Fat,
			},
		})
	}
	p, err := s.DietPlans.AddMeals(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "AddMeals", err)
		return
	}
	writeData(w, r, http.StatusCreated, dietPlanFromDomain(p))
}

func (s *Server) deleteDietCategory(w http.ResponseWriter, r *http.Request) {
	purpose := domain.DietPurpose(pathParam(r, "purpose"))
	category := domain.DietCategory(pathParam(r, "category"))
	if err := s.DietPlans.DeleteCategory(r.Context(), purpose, category); err != nil {
		writeServiceError(w, r, "DeleteDietCategory", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathParam unescapes a segment such as "Weight%20Loss" when chi matched on the raw path.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func dietPlanFromDomain(p domain.DietPlan) dietPlanDTO {
	out := dietPlanDTO{
		Purpose:    string(p.Purpose),
		Categories: make([]dietCategoryDTO, 0, len(p.Categories)),
	}
	for _, c := range p.Categories {
		cat := dietCategoryDTO{Category: string(c.Category), Meals: make([]mealDTO, 0, len(c.Meals))}
		for _, m := range c.Meals {
			cat.Meals = append(cat.Meals, mealDTO{
				ID:    m.ID,
				Time:  m.Time,
				Items: m.Items,
				Nutrition: nutritionDTO{
					Calories: m.Nutrition.Calories,
					Protein:  m.Nutrition.Protein,
					Carbs:    m.Nutrition.Carbs,
					Fat:      m.Nutrition.Fat,
				},
			})
		}
		out.Categories = append(out.Categories, cat)
	}
	return out
}
