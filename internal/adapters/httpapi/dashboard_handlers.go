package httpapi

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type dashboardStatsDTO struct {
	Total    int                `json:"total"`
	Active   int                `json:"active"`
	Expired  int                `json:"expired"`
	Expiring int                `json:"expiring"`
	Inactive int                `json:"inactive"`
	AsOf     openapi_types.Date `json:"asOf"`
}

type expiringMemberDTO struct {
	ID            string  `json:"id"`
	FullName      string  `json:"fullName"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	EndDate       *string `json:"endDate"`
	DaysRemaining int     `json:"daysRemaining"`
}

func (s *Server) getDashboardStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Dashboard.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, "GetDashboardStats", err)
		return
	}
	writeData(w, r, http.StatusOK, dashboardStatsDTO{
		Total:    st.Summary.Total,
		Active:   st.Summary.Active,
		Expired:  st.Summary.Expired,
		Expiring: st.Summary.Expiring,
		Inactive: st.Summary.Inactive,
		AsOf:     openapi_types.Date{Time: st.AsOf},
	})
}

func (s *Server) listExpiringMembers(w http.ResponseWriter, r *http.Request) {
	ms, err := s.Dashboard.Expiring(r.Context())
	if err != nil {
		writeServiceError(w, r, "ListExpiringMembers", err)
		return
	}
	out := make([]expiringMemberDTO, 0, len(ms))
	for _, em := range ms {
		dto := expiringMemberDTO{
			ID:            string(em.Member.ID),
			FullName:      em.Member.FullName,
			Phone:         em.Member.Phone,
			Email:         em.Member.Email,
			DaysRemaining: em.DaysRemaining,
		}
		if em.Member.Membership != nil {
			dto.EndDate = em.Member.Membership.EndDate
		}
		out = append(out, dto)
	}
	writeData(w, r, http.StatusOK, out)
}
