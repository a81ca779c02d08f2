package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unique-fitness/gym-admin-api/internal/app/plans"
	"github.com/unique-fitness/gym-admin-api/internal/domain"
)

type planDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PriceRupees    int       `json:"price"`
	DurationMonths int       `json:"duration"`
	Status         string    `json:"status"`
	MembersCount   int       `json:"membersCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type planRequest struct {
	Name           string `json:"name" validate:"required"`
	PriceRupees    int    `json:"price" validate:"required,gt=0"`
	DurationMonths int    `json:"duration" validate:"required,gt=0"`
	Status         string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (b planRequest) input() plans.PlanInput {
	return plans.PlanInput{
		Name:           b.Name,
		PriceRupees:    b.PriceRupees,
		DurationMonths: b.DurationMonths,
		Status:         domain.PlanStatus(b.Status),
	}
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	views, err := s.Plans.ListPlans(r.Context())
	if err != nil {
		writeServiceError(w, r, "ListPlans", err)
		return
	}
	out := make([]planDTO, 0, len(views))
	for _, v := range views {
		out = append(out, planFromView(v))
	}
	writeData(w, r, http.StatusOK, out)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	v, err := s.Plans.GetPlan(r.Context(), planIDParam(r))
	if err != nil {
		writeServiceError(w, r, "GetPlan", err)
		return
	}
	writeData(w, r, http.StatusOK, planFromView(v))
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	if !readJSON(w, r, &body) {
		return
	}
	v, err := s.Plans.CreatePlan(r.Context(), body.input())
	if err != nil {
		writeServiceError(w, r, "CreatePlan", err)
		return
	}
	writeData(w, r, http.StatusCreated, planFromView(v))
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	if !readJSON(w, r, &body) {
		return
	}
	v, err := s.Plans.UpdatePlan(r.Context(), planIDParam(r), body.input())
	if err != nil {
		writeServiceError(w, r, "UpdatePlan", err)
		return
	}
	writeData(w, r, http.StatusOK, planFromView(v))
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.Plans.DeletePlan(r.Context(), planIDParam(r)); err != nil {
		writeServiceError(w, r, "DeletePlan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func planIDParam(r *http.Request) domain.PlanID {
	return domain.PlanID(chi.URLParam(r, "planId"))
}

func planFromView(v plans.PlanView) planDTO {
	p := v.Plan
	return planDTO{
		ID:             string(p.ID),
		Name:           p.Name,
		PriceRupees:    p.PriceRupees,
		DurationMonths: p.DurationMonths,
		Status:         string(p.Status),
		MembersCount:   v.MembersCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
