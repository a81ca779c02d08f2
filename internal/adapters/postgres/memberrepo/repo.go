package memberrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres"
	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/memberrepo"
)

// Repo is a Postgres implementation of memberrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const memberColumns = `
	id,
	full_name,
	username,
	email,
	phone,
	gender,
	dob,
	height_ft,
	weight_kg,
	address,
	branch,
	purpose,
	aadhaar_photo_url,
	live_photo_url,
	password_hash,
	has_membership,
	membership_plan_id,
	membership_status,
	membership_start_date,
	membership_end_date,
	legacy_status,
	workout_schedule,
	weight_history,
	created_at,
	updated_at`

const insertMemberSQL = `
	INSERT INTO members (` + memberColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`

// updateMemberSQL leaves created_at untouched.
const updateMemberSQL = `
	UPDATE members SET
		full_name = $2,
		username = $3,
		email = $4,
		phone = $5,
		gender = $6,
		dob = $7,
		height_ft = $8,
		weight_kg = $9,
		address = $10,
		branch = $11,
		purpose = $12,
		aadhaar_photo_url = $13,
		live_photo_url = $14,
		password_hash = $15,
		has_membership = $16,
		membership_plan_id = $17,
		membership_status = $18,
		membership_start_date = $19,
		membership_end_date = $20,
		legacy_status = $21,
		workout_schedule = $22,
		weight_history = $23,
		updated_at = $24
	WHERE id = $1`

func (r *Repo) Create(ctx context.Context, m domain.Member) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	row, err := toRow(m)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, insertMemberSQL, row.insertArgs()...)
	return mapWriteErr(err)
}

func (r *Repo) Update(ctx context.Context, m domain.Member) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	row, err := toRow(m)
	if err != nil {
		if errors.Is(err, errInvalidID) {
			return memberrepo.ErrNotFound
		}
		return err
	}
	ct, err := r.pool.Exec(ctx, updateMemberSQL, row.updateArgs()...)
	if err != nil {
		return mapWriteErr(err)
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.MemberID) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return memberrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return memberrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	if r.pool == nil {
		return domain.Member{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Member{}, memberrepo.ErrNotFound
	}
	return scanMember(r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, uid))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	if r.pool == nil {
		return domain.Member{}, postgres.ErrNilPool
	}
	return scanMember(r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE lower(email) = lower(trim($1))`, email))
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (domain.Member, error) {
	if r.pool == nil {
		return domain.Member{}, postgres.ErrNilPool
	}
	return scanMember(r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE username <> '' AND lower(username) = lower(trim($1))`, username))
}

func (r *Repo) List(ctx context.Context) ([]domain.Member, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY lower(full_name) ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) CountByPlan(ctx context.Context) (map[domain.PlanID]int, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT membership_plan_id, count(*)
		FROM members
		WHERE has_membership AND membership_plan_id IS NOT NULL
		GROUP BY membership_plan_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.PlanID]int)
	for rows.Next() {
		var (
			id uuid.UUID
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[domain.PlanID(id.String())] = n
	}
	return out, rows.Err()
}

// --- helpers ---

var errInvalidID = errors.New("invalid member id")

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case postgres.IsUniqueViolation(err, "members_pkey"):
		return memberrepo.ErrAlreadyExists
	case postgres.IsUniqueViolation(err, "members_email_unique"):
		return memberrepo.ErrEmailTaken
	case postgres.IsUniqueViolation(err, "members_username_unique"):
		return memberrepo.ErrUsernameTaken
	}
	return err
}

type weightEntryJSON struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	WeightKg float64   `json:"weightKg"`
}

// memberRow is the column-ordered form of a member.
type memberRow struct {
	id              uuid.UUID
	fullName        string
	username        string
	email           string
	phone           string
	gender          string
	dob             *time.Time
	heightFt        *float64
	weightKg        *float64
	address         string
	branch          string
	purpose         string
	aadhaarPhotoURL string
	livePhotoURL    string
	passwordHash    string
	hasMembership   bool
	planID          uuid.NullUUID
	msStatus        *string
	msStartDate     *string
	msEndDate       *string
	legacyStatus    *string
	schedule        []byte
	weights         []byte
	createdAt       time.Time
	updatedAt       time.Time
}

func (row *memberRow) fields() []any {
	return []any{
		row.id, row.fullName, row.username, row.email, row.phone, row.gender, row.dob,
		row.heightFt, row.weightKg, row.address, row.branch, row.purpose,
		row.aadhaarPhotoURL, row.livePhotoURL, row.passwordHash,
		row.hasMembership, row.planID, row.msStatus, row.msStartDate, row.msEndDate, row.legacyStatus,
		row.schedule, row.weights,
	}
}

// insertArgs matches insertMemberSQL ($1..$25).
func (row *memberRow) insertArgs() []any {
	return append(row.fields(), row.createdAt, row.updatedAt)
}

// updateArgs matches updateMemberSQL ($1..$24).
func (row *memberRow) updateArgs() []any {
	return append(row.fields(), row.updatedAt)
}

func toRow(m domain.Member) (memberRow, error) {
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return memberRow{}, fmt.Errorf("%w: %v", errInvalidID, err)
	}
	row := memberRow{
		id:              id,
		fullName:        m.FullName,
		username:        m.Username,
		email:           m.Email,
		phone:           m.Phone,
		gender:          string(m.Gender),
		dob:             m.DOB,
		heightFt:        m.HeightFt,
		weightKg:        m.WeightKg,
		address:         m.Address,
		branch:          string(m.Branch),
		purpose:         string(m.Purpose),
		aadhaarPhotoURL: m.AadhaarPhotoURL,
		livePhotoURL:    m.LivePhotoURL,
		passwordHash:    m.PasswordHash,
		legacyStatus:    m.MembershipStatus,
		createdAt:       m.CreatedAt.UTC(),
		updatedAt:       m.UpdatedAt.UTC(),
	}
	if ms := m.Membership; ms != nil {
		row.hasMembership = true
		row.msStatus = ms.Status
		row.msStartDate = ms.StartDate
		row.msEndDate = ms.EndDate
		if ms.PlanID != nil {
			pid, err := uuid.Parse(string(*ms.PlanID))
			if err != nil {
				return memberRow{}, fmt.Errorf("invalid plan id: %w", err)
			}
			row.planID = uuid.NullUUID{UUID: pid, Valid: true}
		}
	}

	schedule := m.WorkoutSchedule
	if schedule == nil {
		schedule = domain.WorkoutSchedule{}
	}
	if row.schedule, err = json.Marshal(schedule); err != nil {
		return memberRow{}, fmt.Errorf("encode workout schedule: %w", err)
	}
	weights := make([]weightEntryJSON, 0, len(m.WeightHistory))
	for _, w := range m.WeightHistory {
		weights = append(weights, weightEntryJSON{ID: w.ID, Date: w.Date.UTC(), WeightKg: w.WeightKg})
	}
	if row.weights, err = json.Marshal(weights); err != nil {
		return memberRow{}, fmt.Errorf("encode weight history: %w", err)
	}
	return row, nil
}

func scanMember(s interface {
	Scan(dest ...any) error
}) (domain.Member, error) {
	var row memberRow
	if err := s.Scan(
		&row.id, &row.fullName, &row.username, &row.email, &row.phone, &row.gender, &row.dob,
		&row.heightFt, &row.weightKg, &row.address, &row.branch, &row.purpose,
		&row.aadhaarPhotoURL, &row.livePhotoURL, &row.passwordHash,
		&row.hasMembership, &row.planID, &row.msStatus, &row.msStartDate, &row.msEndDate, &row.legacyStatus,
		&row.schedule, &row.weights, &row.createdAt, &row.updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, memberrepo.ErrNotFound
		}
		return domain.Member{}, err
	}

	m := domain.Member{
		ID:               domain.MemberID(row.id.String()),
		FullName:         row.fullName,
		Username:         row.username,
		Email:            row.email,
		Phone:            row.phone,
		Gender:           domain.Gender(row.gender),
		DOB:              row.dob,
		HeightFt:         row.heightFt,
		WeightKg:         row.weightKg,
		Address:          row.address,
		Branch:           domain.Branch(row.branch),
		Purpose:          domain.Purpose(row.purpose),
		AadhaarPhotoURL:  row.aadhaarPhotoURL,
		LivePhotoURL:     row.livePhotoURL,
		PasswordHash:     row.passwordHash,
		MembershipStatus: row.legacyStatus,
		CreatedAt:        row.createdAt.UTC(),
		UpdatedAt:        row.updatedAt.UTC(),
	}
	if row.hasMembership {
		ms := &domain.Membership{
			Status:    row.msStatus,
			StartDate: row.msStartDate,
			EndDate:   row.msEndDate,
		}
		if row.planID.Valid {
			pid := domain.PlanID(row.planID.UUID.String())
			ms.PlanID = &pid
		}
		m.Membership = ms
	}

	if len(row.schedule) > 0 {
		if err := json.Unmarshal(row.schedule, &m.WorkoutSchedule); err != nil {
			return domain.Member{}, fmt.Errorf("decode workout schedule: %w", err)
		}
	}
	if len(row.weights) > 0 {
		var weights []weightEntryJSON
		if err := json.Unmarshal(row.weights, &weights); err != nil {
			return domain.Member{}, fmt.Errorf("decode weight history: %w", err)
		}
		for _, w := range weights {
			m.WeightHistory = append(m.WeightHistory, domain.WeightEntry{ID: w.ID, Date: w.Date.UTC(), WeightKg: w.WeightKg})
		}
	}
	return m, nil
}
