package planrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres"
	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/planrepo"
)

// Repo is a Postgres implementation of planrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, p domain.Plan) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid plan id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO plans (id, name, price_rupees, duration_months, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, p.Name, p.PriceRupees, p.DurationMonths, string(p.Status), p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if postgres.IsUniqueViolation(err, "") {
		return planrepo.ErrAlreadyExists
	}
	return err
}

func (r *Repo) Update(ctx context.Context, p domain.Plan) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return planrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE plans
		SET name = $2,
		    price_rupees = $3,
		    duration_months = $4,
		    status = $5,
		    updated_at = $6
		WHERE id = $1
	`, id, p.Name, p.PriceRupees, p.DurationMonths, string(p.Status), p.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return planrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PlanID) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return planrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return planrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	if r.pool == nil {
		return domain.Plan{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Plan{}, planrepo.ErrNotFound
	}
	return scanPlan(r.pool.QueryRow(ctx, `
		SELECT id, name, price_rupees, duration_months, status, created_at, updated_at
		FROM plans WHERE id = $1
	`, uid))
}

func (r *Repo) List(ctx context.Context) ([]domain.Plan, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price_rupees, duration_months, status, created_at, updated_at
		FROM plans
		ORDER BY lower(name) ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlan(row interface {
	Scan(dest ...any) error
}) (domain.Plan, error) {
	var (
		id     uuid.UUID
		p      domain.Plan
		status string
	)
	if err := row.Scan(&id, &p.Name, &p.PriceRupees, &p.DurationMonths, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, planrepo.ErrNotFound
		}
		return domain.Plan{}, err
	}
	p.ID = domain.PlanID(id.String())
	p.Status = domain.PlanStatus(status)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
