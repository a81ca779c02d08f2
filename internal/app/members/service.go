package members

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/domain/membership"
	clockport "github.com/unique-fitness/gym-admin-api/internal/ports/out/clock"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/memberrepo"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/planrepo"
)

// MinPasswordLength is the shortest accepted initial password.
const MinPasswordLength = 6

var validate = validator.New()

type Service struct {
	repo  memberrepo.Repository
	plans planrepo.Repository
	clk   clockport.Clock

	newID func() string

	// BcryptCost is the work factor for stored password hashes.
	BcryptCost int
}

func NewService(repo memberrepo.Repository, plans planrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo:       repo,
		plans:      plans,
		clk:        clk,
		newID:      uuid.NewString,
		BcryptCost: bcrypt.DefaultCost,
	}
}

func (s *Service) today() time.Time {
	return membership.Today(s.clk.Now())
}

func (s *Service) ListMembers(ctx context.Context, in ListMembersInput) ([]MemberView, error) {
	var want membership.Status
	if f := strings.TrimSpace(in.Status); f != "" && !strings.EqualFold(f, "all") {
		st, ok := membership.ParseStatus(f)
		if !ok {
			return nil, validationError("status", "must be one of all, active, expiring, expired, inactive")
		}
		want = st
	}

	ms, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(in.Query))
	today := s.today()
	out := make([]MemberView, 0, len(ms))
	for _, m := range ms {
		if q != "" && !strings.Contains(strings.ToLower(m.FullName), q) && !strings.Contains(strings.ToLower(m.Email), q) {
			continue
		}
		v := MemberView{Member: m, Status: membership.Derive(m.MembershipView(), today)}
		if want != "" && v.Status.Status != want {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) GetMember(ctx context.Context, id domain.MemberID) (MemberView, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return MemberView{}, err
	}
	return s.view(m), nil
}

func (s *Service) CreateMember(ctx context.Context, in CreateMemberInput) (MemberView, error) {
	fullName := domain.NormalizeHumanName(in.FullName)
	if fullName == "" {
		return MemberView{}, validationError("fullName", "must be non-empty")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return MemberView{}, validationError("username", "must be non-empty")
	}
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return MemberView{}, validationError("email", err.Error())
	}
	if len(in.Password) < MinPasswordLength {
		return MemberView{}, validationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return MemberView{}, validationError("phone", "must be non-empty")
	}
	if !in.Branch.Valid() {
		return MemberView{}, validationError("branch", "must be one of b1, b2")
	}
	if !in.Purpose.Valid() {
		return MemberView{}, validationError("purpose", "must be one of gain, loose, maintain")
	}
	if in.Gender != "" && !in.Gender.Valid() {
		return MemberView{}, validationError("gender", "must be one of Male, Female, Other")
	}
	if err := validateMeasurements(in.HeightFt, in.WeightKg); err != nil {
		return MemberView{}, err
	}
	for field, u := range map[string]string{"aadhaarPhotoUrl": in.AadhaarPhotoURL, "livePhotoUrl": in.LivePhotoURL} {
		if err := validatePhotoURL(u); err != nil {
			return MemberView{}, validationError(field, err.Error())
		}
	}
	schedule, err := normalizeSchedule(in.WorkoutSchedule)
	if err != nil {
		return MemberView{}, err
	}

	if err := s.ensureUnique(ctx, email, username, ""); err != nil {
		return MemberView{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.BcryptCost)
	if err != nil {
		return MemberView{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.clk.Now()
	m := domain.Member{
		ID:              domain.MemberID(s.newID()),
		FullName:        fullName,
		Username:        username,
		Email:           email,
		Phone:           phone,
		Gender:          in.Gender,
		DOB:             dateOnly(in.DOB),
		HeightFt:        in.HeightFt,
		WeightKg:        in.WeightKg,
		Address:         strings.TrimSpace(in.Address),
		Branch:          in.Branch,
		Purpose:         in.Purpose,
		AadhaarPhotoURL: strings.TrimSpace(in.AadhaarPhotoURL),
		LivePhotoURL:    strings.TrimSpace(in.LivePhotoURL),
		PasswordHash:    string(hash),
		WorkoutSchedule: schedule,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return MemberView{}, mapRepoErr(err)
	}
	return s.view(m), nil
}

func (s *Service) UpdateMember(ctx context.Context, id domain.MemberID, in UpdateMemberInput) (MemberView, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return MemberView{}, err
	}

	if in.FullName.IsSpecified() {
		if in.FullName.IsNull() {
			return MemberView{}, validationError("fullName", "cannot be null")
		}
		fullName := domain.NormalizeHumanName(in.FullName.Value())
		if fullName == "" {
			return MemberView{}, validationError("fullName", "must be non-empty")
		}
		m.FullName = fullName
	}

	email, username := m.Email, m.Username
	if in.Email.IsSpecified() {
		if in.Email.IsNull() {
			return MemberView{}, validationError("email", "cannot be null")
		}
		email = strings.TrimSpace(in.Email.Value())
		if err := validateEmail(email); err != nil {
			return MemberView{}, validationError("email", err.Error())
		}
	}
	if in.Username.IsSpecified() {
		if in.Username.IsNull() {
			return MemberView{}, validationError("username", "cannot be null")
		}
		username = strings.TrimSpace(in.Username.Value())
		if username == "" {
			return MemberView{}, validationError("username", "must be non-empty")
		}
	}
	if !strings.EqualFold(email, m.Email) || !strings.EqualFold(username, m.Username) {
		if err := s.ensureUnique(ctx, email, username, m.ID); err != nil {
			return MemberView{}, err
		}
	}
	m.Email, m.Username = email, username

	if in.Phone.IsSpecified() {
		phone := strings.TrimSpace(in.Phone.Value())
		if in.Phone.IsNull() || phone == "" {
			return MemberView{}, validationError("phone", "must be non-empty")
		}
		m.Phone = phone
	}
	if in.Gender.IsSpecified() {
		if in.Gender.IsNull() {
			m.Gender = ""
		} else if g := in.Gender.Value(); !g.Valid() {
			return MemberView{}, validationError("gender", "must be one of Male, Female, Other")
		} else {
			m.Gender = g
		}
	}
	if in.DOB.IsSpecified() {
		if in.DOB.IsNull() {
			m.DOB = nil
		} else {
			v := in.DOB.Value()
			m.DOB = dateOnly(&v)
		}
	}
	applyFloat(&m.HeightFt, in.HeightFt)
	applyFloat(&m.WeightKg, in.WeightKg)
	if err := validateMeasurements(m.HeightFt, m.WeightKg); err != nil {
		return MemberView{}, err
	}
	if in.Address.IsSpecified() {
		m.Address = strings.TrimSpace(in.Address.Value())
	}
	if in.Branch.IsSpecified() {
		if b := in.Branch.Value(); in.Branch.IsNull() || !b.Valid() {
			return MemberView{}, validationError("branch", "must be one of b1, b2")
		}
		m.Branch = in.Branch.Value()
	}
	if in.Purpose.IsSpecified() {
		if p := in.Purpose.Value(); in.Purpose.IsNull() || !p.Valid() {
			return MemberView{}, validationError("purpose", "must be one of gain, loose, maintain")
		}
		m.Purpose = in.Purpose.Value()
	}
	if in.AadhaarPhotoURL.IsSpecified() {
		u := strings.TrimSpace(in.AadhaarPhotoURL.Value())
		if err := validatePhotoURL(u); err != nil {
			return MemberView{}, validationError("aadhaarPhotoUrl", err.Error())
		}
		m.AadhaarPhotoURL = u
	}
	if in.LivePhotoURL.IsSpecified() {
		u := strings.TrimSpace(in.LivePhotoURL.Value())
		if err := validatePhotoURL(u); err != nil {
			return MemberView{}, validationError("livePhotoUrl", err.Error())
		}
		m.LivePhotoURL = u
	}
	if in.MembershipStatus.IsSpecified() {
		if in.MembershipStatus.IsNull() {
			m.MembershipStatus = nil
		} else {
			st, ok := membership.ParseStatus(in.MembershipStatus.Value())
			if !ok {
				return MemberView{}, validationError("membershipStatus", "must be one of active, expiring, expired, inactive")
			}
			v := string(st)
			m.MembershipStatus = &v
		}
	}
	if in.WorkoutSchedule.IsSpecified() {
		if in.WorkoutSchedule.IsNull() {
			m.WorkoutSchedule = domain.WorkoutSchedule{}
		} else {
			schedule, err := normalizeSchedule(in.WorkoutSchedule.Value())
			if err != nil {
				return MemberView{}, err
			}
			m.WorkoutSchedule = schedule
		}
	}

	m.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, m); err != nil {
		return MemberView{}, mapRepoErr(err)
	}
	return s.view(m), nil
}

func (s *Service) DeleteMember(ctx context.Context, id domain.MemberID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

// AssignPlan starts a membership on an active plan. The end date is the start date plus
// the plan's duration in calendar months.
func (s *Service) AssignPlan(ctx context.Context, id domain.MemberID, in AssignPlanInput) (MemberView, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return MemberView{}, err
	}
	if strings.TrimSpace(string(in.PlanID)) == "" {
		return MemberView{}, validationError("planId", "must be non-empty")
	}
	plan, err := s.plans.GetByID(ctx, in.PlanID)
	if err != nil {
		if errors.Is(err, planrepo.ErrNotFound) {
			return MemberView{}, &Error{Status: 404, Code: "PLAN_NOT_FOUND", Message: "plan not found"}
		}
		return MemberView{}, err
	}
	if plan.Status != domain.PlanStatusActive {
		return MemberView{}, &Error{
			Status:  422,
			Code:    "PLAN_INACTIVE",
			Message: "plan is not available for new memberships",
			Details: map[string]any{"planId": string(plan.ID)},
		}
	}

	start := s.today()
	if in.StartDate != nil {
		start = membership.Today(*in.StartDate)
	}
	end := start.AddDate(0, plan.DurationMonths, 0)

	planID := plan.ID
	status := string(membership.StatusActive)
	startStr := start.Format(time.DateOnly)
	endStr := end.Format(time.DateOnly)
	m.Membership = &domain.Membership{
		PlanID:    &planID,
		Status:    &status,
		StartDate: &startStr,
		EndDate:   &endStr,
	}
	m.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, m); err != nil {
		return MemberView{}, mapRepoErr(err)
	}
	return s.view(m), nil
}

// RecordWeight appends a weigh-in to the member's history and makes it the current weight.
func (s *Service) RecordWeight(ctx context.Context, id domain.MemberID, in RecordWeightInput) (MemberView, error) {
	if in.WeightKg <= 0 {
		return MemberView{}, validationError("weightKg", "must be greater than 0")
	}
	m, err := s.get(ctx, id)
	if err != nil {
		return MemberView{}, err
	}

	at := s.today()
	if in.Date != nil {
		at = membership.Today(*in.Date)
	}
	m.WeightHistory = append(m.WeightHistory, domain.WeightEntry{ID: s.newID(), Date: at, WeightKg: in.WeightKg})
	sort.SliceStable(m.WeightHistory, func(i, j int) bool {
		return m.WeightHistory[i].Date.Before(m.WeightHistory[j].Date)
	})
	latest := m.WeightHistory[len(m.WeightHistory)-1].WeightKg
	m.WeightKg = &latest

	m.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, m); err != nil {
		return MemberView{}, mapRepoErr(err)
	}
	return s.view(m), nil
}

// --- helpers ---

func (s *Service) get(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberrepo.ErrNotFound) {
			return domain.Member{}, notFound()
		}
		return domain.Member{}, err
	}
	return m, nil
}

func (s *Service) view(m domain.Member) MemberView {
	return MemberView{Member: m, Status: membership.Derive(m.MembershipView(), s.today())}
}

func (s *Service) ensureUnique(ctx context.Context, email, username string, self domain.MemberID) error {
	if m, err := s.repo.GetByEmail(ctx, email); err == nil && m.ID != self {
		return emailTaken()
	} else if err != nil && !errors.Is(err, memberrepo.ErrNotFound) {
		return err
	}
	if m, err := s.repo.GetByUsername(ctx, username); err == nil && m.ID != self {
		return usernameTaken()
	} else if err != nil && !errors.Is(err, memberrepo.ErrNotFound) {
		return err
	}
	return nil
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, memberrepo.ErrNotFound):
		return notFound()
	case errors.Is(err, memberrepo.ErrEmailTaken):
		return emailTaken()
	case errors.Is(err, memberrepo.ErrUsernameTaken):
		return usernameTaken()
	}
	return err
}

func emailTaken() *Error {
	return &Error{Status: 409, Code: "EMAIL_ALREADY_IN_USE", Message: "email address is already in use"}
}

func usernameTaken() *Error {
	return &Error{Status: 409, Code: "USERNAME_ALREADY_IN_USE", Message: "username is already in use"}
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	if err := validate.Var(email, "email"); err != nil {
		return errors.New("must be a bare email address")
	}
	return nil
}

func validatePhotoURL(u string) error {
	if strings.TrimSpace(u) == "" {
		return nil
	}
	if err := validate.Var(strings.TrimSpace(u), "http_url"); err != nil {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

func validateMeasurements(heightFt, weightKg *float64) error {
	if heightFt != nil && *heightFt <= 0 {
		return validationError("heightFt", "must be greater than 0")
	}
	if weightKg != nil && *weightKg <= 0 {
		return validationError("weightKg", "must be greater than 0")
	}
	return nil
}

func normalizeSchedule(in domain.WorkoutSchedule) (domain.WorkoutSchedule, error) {
	out := make(domain.WorkoutSchedule, len(in))
	for day, groups := range in {
		d := domain.Weekday(strings.ToLower(strings.TrimSpace(string(day))))
		if !d.Valid() {
			return nil, validationError("workoutSchedule", fmt.Sprintf("unknown weekday %q", day))
		}
		cleaned := make([]string, 0, len(groups))
		for _, g := range groups {
			if g = strings.TrimSpace(g); g != "" {
				cleaned = append(cleaned, g)
			}
		}
		out[d] = cleaned
	}
	return out, nil
}

func applyFloat(dst **float64, o Optional[float64]) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	v := o.Value()
	*dst = &v
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}
