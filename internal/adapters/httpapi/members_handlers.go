package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/unique-fitness/gym-admin-api/internal/app/members"
	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/domain/membership"
)

type derivedStatusDTO struct {
	Status        string                 `json:"status"`
	DaysRemaining nullable.Nullable[int] `json:"daysRemaining"`
	Label         string                 `json:"label"`
}

type membershipDTO struct {
	PlanID    *string `json:"planId"`
	Status    *string `json:"status"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

type weightEntryDTO struct {
	ID       string             `json:"id"`
	Date     openapi_types.Date `json:"date"`
	WeightKg float64            `json:"weightKg"`
}

type memberDTO struct {
	ID               string                                `json:"id"`
	FullName         string                                `json:"fullName"`
	Username         string                                `json:"username"`
	Email            string                                `json:"email"`
	Phone            string                                `json:"phone"`
	Gender           string                                `json:"gender,omitempty"`
	DOB              nullable.Nullable[openapi_types.Date] `json:"dob"`
	HeightFt         *float64                              `json:"heightFt"`
	WeightKg         *float64                              `json:"weightKg"`
	Address          string                                `json:"address"`
	Branch           string                                `json:"branch"`
	Purpose          string                                `json:"purpose"`
	AadhaarPhotoURL  string                                `json:"aadhaarPhotoUrl,omitempty"`
	LivePhotoURL     string                                `json:"livePhotoUrl,omitempty"`
	Membership       *membershipDTO                        `json:"membership"`
	MembershipStatus *string                               `json:"membershipStatus"`
	DerivedStatus    derivedStatusDTO                      `json:"derivedStatus"`
	WorkoutSchedule  map[string][]string                   `json:"workoutSchedule"`
	WeightHistory    []weightEntryDTO                      `json:"weightHistory"`
	CreatedAt        time.Time                             `json:"createdAt"`
	UpdatedAt        time.Time                             `json:"updatedAt"`
}

type createMemberRequest struct {
	FullName        string              `json:"fullName" validate:"required"`
	Username        string              `json:"username" validate:"required"`
	Email           string              `json:"email" validate:"required,email"`
	Password        string              `json:"password" validate:"required,min=6"`
	Phone           string              `json:"phone" validate:"required"`
	Gender          string              `json:"gender,omitempty"`
	DOB             *openapi_types.Date `json:"dob,omitempty"`
	HeightFt        *float64            `json:"heightFt,omitempty" validate:"omitempty,gt=0"`
	WeightKg        *float64            `json:"weightKg,omitempty" validate:"omitempty,gt=0"`
	Address         string              `json:"address,omitempty"`
	Branch          string              `json:"branch" validate:"required,oneof=b1 b2"`
	Purpose         string              `json:"purpose" validate:"required,oneof=gain loose maintain"`
	AadhaarPhotoURL string              `json:"aadhaarPhotoUrl,omitempty" validate:"omitempty,http_url"`
	LivePhotoURL    string              `json:"livePhotoUrl,omitempty" validate:"omitempty,http_url"`
	WorkoutSchedule map[string][]string `json:"workoutSchedule,omitempty"`
}

type updateMemberRequest struct {
	FullName         nullable.Nullable[string]              `json:"fullName,omitempty"`
	Username         nullable.Nullable[string]              `json:"username,omitempty"`
	Email            nullable.Nullable[string]              `json:"email,omitempty"`
	Phone            nullable.Nullable[string]              `json:"phone,omitempty"`
	Gender           nullable.Nullable[string]              `json:"gender,omitempty"`
	DOB              nullable.Nullable[openapi_types.Date]  `json:"dob,omitempty"`
	HeightFt         nullable.Nullable[float64]             `json:"heightFt,omitempty"`
	WeightKg         nullable.Nullable[float64]             `json:"weightKg,omitempty"`
	Address          nullable.Nullable[string]              `json:"address,omitempty"`
	Branch           nullable.Nullable[string]              `json:"branch,omitempty"`
	Purpose          nullable.Nullable[string]              `json:"purpose,omitempty"`
	AadhaarPhotoURL  nullable.Nullable[string]              `json:"aadhaarPhotoUrl,omitempty"`
	LivePhotoURL     nullable.Nullable[string]              `json:"livePhotoUrl,omitempty"`
	MembershipStatus nullable.Nullable[string]              `json:"membershipStatus,omitempty"`
	WorkoutSchedule  nullable.Nullable[map[string][]string] `json:"workoutSchedule,omitempty"`
}

type assignPlanRequest struct {
	PlanID    string              `json:"planId" validate:"required"`
	StartDate *openapi_types.Date `json:"startDate,omitempty"`
}

type recordWeightRequest struct {
	WeightKg float64             `json:"weightKg" validate:"required,gt=0"`
	Date     *openapi_types.Date `json:"date,omitempty"`
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	views, err := s.Members.ListMembers(r.Context(), members.ListMembersInput{
		Query:  q.Get("q"),
		Status: q.Get("status"),
	})
	if err != nil {
		writeServiceError(w, r, "ListMembers", err)
		return
	}
	out := make([]memberDTO, 0, len(views))
	for _, v := range views {
		out = append(out, memberFromView(v))
	}
	writeData(w, r, http.StatusOK, out)
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	v, err := s.Members.GetMember(r.Context(), memberIDParam(r))
	if err != nil {
		writeServiceError(w, r, "GetMember", err)
		return
	}
	writeData(w, r, http.StatusOK, memberFromView(v))
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	const op = "CreateMember"
	raw, err := readBody(w, r)
	if err != nil {
		writeRequestError(w, r, op, err)
		return
	}
	var body createMemberRequest
	if err := decodeStrict(raw, &body); err != nil {
		writeRequestError(w, r, op, err)
		return
	}

	in := members.CreateMemberInput{
		FullName:        body.FullName,
		Username:        body.Username,
		Email:           body.Email,
		Password:        body.Password,
		Phone:           body.Phone,
		Gender:          domain.Gender(body.Gender),
		DOB:             datePtr(body.DOB),
		HeightFt:        body.HeightFt,
		WeightKg:        body.WeightKg,
		Address:         body.Address,
		Branch:          domain.Branch(body.Branch),
		Purpose:         domain.Purpose(body.Purpose),
		AadhaarPhotoURL: body.AadhaarPhotoURL,
		LivePhotoURL:    body.LivePhotoURL,
		WorkoutSchedule: scheduleFromDTO(body.WorkoutSchedule),
	}
	s.idempotentCall(w, r, op, raw, func() (int, any, error) {
		v, err := s.Members.CreateMember(r.Context(), in)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, memberFromView(v), nil
	})
}

func (s *Server) updateMember(w http.ResponseWriter, r *http.Request) {
	var body updateMemberRequest
	if !readJSON(w, r, &body) {
		return
	}

	in := members.UpdateMemberInput{
		FullName:         optional(body.FullName),
		Username:         optional(body.Username),
		Email:            optional(body.Email),
		Phone:            optional(body.Phone),
		Gender:           optionalAs(body.Gender, func(v string) domain.Gender { return domain.Gender(v) }),
		DOB:              optionalAs(body.DOB, func(v openapi_types.Date) time.Time { return v.Time }),
		HeightFt:         optional(body.HeightFt),
		WeightKg:         optional(body.WeightKg),
		Address:          optional(body.Address),
		Branch:           optionalAs(body.Branch, func(v string) domain.Branch { return domain.Branch(v) }),
		Purpose:          optionalAs(body.Purpose, func(v string) domain.Purpose { return domain.Purpose(v) }),
		AadhaarPhotoURL:  optional(body.AadhaarPhotoURL),
		LivePhotoURL:     optional(body.LivePhotoURL),
		MembershipStatus: optional(body.MembershipStatus),
		WorkoutSchedule:  optionalAs(body.WorkoutSchedule, scheduleFromDTO),
	}
	v, err := s.Members.UpdateMember(r.Context(), memberIDParam(r), in)
	if err != nil {
		writeServiceError(w, r, "UpdateMember", err)
		return
	}
	writeData(w, r, http.StatusOK, memberFromView(v))
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.Members.DeleteMember(r.Context(), memberIDParam(r)); err != nil {
		writeServiceError(w, r, "DeleteMember", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assignPlan(w http.ResponseWriter, r *http.Request) {
	const op = "AssignPlan"
	raw, err := readBody(w, r)
	if err != nil {
		writeRequestError(w, r, op, err)
		return
	}
	var body assignPlanRequest
	if err := decodeStrict(raw, &body); err != nil {
		writeRequestError(w, r, op, err)
		return
	}

	id := memberIDParam(r)
	in := members.AssignPlanInput{PlanID: domain.PlanID(body.PlanID), StartDate: datePtr(body.StartDate)}
	s.idempotentCall(w, r, op, raw, func() (int, any, error) {
		v, err := s.Members.AssignPlan(r.Context(), id, in)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, memberFromView(v), nil
	})
}

func (s *Server) recordWeight(w http.ResponseWriter, r *http.Request) {
	var body recordWeightRequest
	if !readJSON(w, r, &body) {
		return
	}
	v, err := s.Members.RecordWeight(r.Context(), memberIDParam(r), members.RecordWeightInput{
		WeightKg: body.WeightKg,
		Date:     datePtr(body.Date),
	})
	if err != nil {
		writeServiceError(w, r, "RecordWeight", err)
		return
	}
	writeData(w, r, http.StatusCreated, memberFromView(v))
}

func memberIDParam(r *http.Request) domain.MemberID {
	return domain.MemberID(chi.URLParam(r, "memberId"))
}

func memberFromView(v members.MemberView) memberDTO {
	m := v.Member
	out := memberDTO{
		ID:               string(m.ID),
		FullName:         m.FullName,
		Username:         m.Username,
		Email:            m.Email,
		Phone:            m.Phone,
		Gender:           string(m.Gender),
		DOB:              nullableDate(m.DOB),
		HeightFt:         m.HeightFt,
		WeightKg:         m.WeightKg,
		Address:          m.Address,
		Branch:           string(m.Branch),
		Purpose:          string(m.Purpose),
		AadhaarPhotoURL:  m.AadhaarPhotoURL,
		LivePhotoURL:     m.LivePhotoURL,
		MembershipStatus: m.MembershipStatus,
		DerivedStatus:    derivedStatusFromResult(v.Status),
		WorkoutSchedule:  make(map[string][]string, len(m.WorkoutSchedule)),
		WeightHistory:    make([]weightEntryDTO, 0, len(m.WeightHistory)),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if ms := m.Membership; ms != nil {
		out.Membership = &membershipDTO{
			Status:    ms.Status,
			StartDate: ms.StartDate,
			EndDate:   ms.EndDate,
		}
		if ms.PlanID != nil {
			pid := string(*ms.PlanID)
			out.Membership.PlanID = &pid
		}
	}
	for day, groups := range m.WorkoutSchedule {
		out.WorkoutSchedule[string(day)] = append([]string{}, groups...)
	}
	for _, e := range m.WeightHistory {
		out.WeightHistory = append(out.WeightHistory, weightEntryDTO{
			ID:       e.ID,
			Date:     openapi_types.Date{Time: e.Date},
			WeightKg: e.WeightKg,
		})
	}
	return out
}

func derivedStatusFromResult(res membership.Result) derivedStatusDTO {
	out := derivedStatusDTO{
		Status: string(res.Status),
		Label:  membership.Label(res),
	}
	if res.DaysRemaining != nil {
		out.DaysRemaining.Set(*res.DaysRemaining)
	} else {
		out.DaysRemaining.SetNull()
	}
	return out
}

func scheduleFromDTO(in map[string][]string) domain.WorkoutSchedule {
	if in == nil {
		return nil
	}
	out := make(domain.WorkoutSchedule, len(in))
	for day, groups := range in {
		out[domain.Weekday(day)] = groups
	}
	return out
}

func optional[T any](n nullable.Nullable[T]) members.Optional[T] {
	return optionalAs(n, func(v T) T { return v })
}

func optionalAs[T, U any](n nullable.Nullable[T], conv func(T) U) members.Optional[U] {
	if !n.IsSpecified() {
		return members.Unspecified[U]()
	}
	if n.IsNull() {
		return members.Null[U]()
	}
	v, err := n.Get()
	if err != nil {
		return members.Unspecified[U]()
	}
	return members.Some(conv(v))
}

func datePtr(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func nullableDate(p *time.Time) nullable.Nullable[openapi_types.Date] {
	var out nullable.Nullable[openapi_types.Date]
	if p != nil {
		out.Set(openapi_types.Date{Time: p.UTC()})
	} else {
		out.SetNull()
	}
	return out
}
