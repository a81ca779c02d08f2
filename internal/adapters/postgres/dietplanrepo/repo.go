package dietplanrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres"
	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/dietplanrepo"
)

// Repo is a Postgres implementation of dietplanrepo.Repository.
// Each purpose is one row with its categories stored as a jsonb document.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type nutritionJSON struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

type mealJSON struct {
	ID        string        `json:"id"`
	Time      string        `json:"time"`
	Items     string        `json:"items"`
	Nutrition nutritionJSON `json:"nutrition"`
}

type categoryJSON struct {
	Category string     `json:"category"`
	Meals    []mealJSON `json:"meals"`
}

func (r *Repo) Get(ctx context.Context, purpose domain.DietPurpose) (domain.DietPlan, error) {
	if r.pool == nil {
		return domain.DietPlan{}, postgres.ErrNilPool
	}
	return scanPlan(r.pool.QueryRow(ctx, `SELECT purpose, categories FROM diet_plans WHERE purpose = $1`, string(purpose)))
}

func (r *Repo) Put(ctx context.Context, p domain.DietPlan) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	doc, err := encodeCategories(p.Categories)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO diet_plans (purpose, categories, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (purpose) DO UPDATE SET
			categories = EXCLUDED.categories,
			updated_at = EXCLUDED.updated_at
	`, string(p.Purpose), doc)
	return err
}

func (r *Repo) Delete(ctx context.Context, purpose domain.DietPurpose) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM diet_plans WHERE purpose = $1`, string(purpose))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return dietplanrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.DietPlan, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	rows, err := r.pool.Query(ctx, `SELECT purpose, categories FROM diet_plans ORDER BY purpose ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DietPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func encodeCategories(cs []domain.DietCategoryPlan) ([]byte, error) {
	doc := make([]categoryJSON, 0, len(cs))
	for _, c := range cs {
		meals := make([]mealJSON, 0, len(c.Meals))
		for _, m := range c.Meals {
			meals = append(meals, mealJSON{
				ID:    m.ID,
				Time:  m.Time,
				Items: m.Items,
				Nutrition: nutritionJSON{
					Calories: m.Nutrition.Calories,
					Protein:  m.Nutrition.Protein,
					Carbs:    m.Nutrition.Carbs,
					Fat:      m.Nutrition.Fat,
				},
			})
		}
		doc = append(doc, categoryJSON{Category: string(c.Category), Meals: meals})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode diet plan: %w", err)
	}
	return b, nil
}

func scanPlan(row interface {
	Scan(dest ...any) error
}) (domain.DietPlan, error) {
	var (
		purpose string
		raw     []byte
	)
	if err := row.Scan(&purpose, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DietPlan{}, dietplanrepo.ErrNotFound
		}
		return domain.DietPlan{}, err
	}
	var doc []categoryJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.DietPlan{}, fmt.Errorf("decode diet plan: %w", err)
	}
	out := domain.DietPlan{Purpose: domain.DietPurpose(purpose), Categories: make([]domain.DietCategoryPlan, 0, len(doc))}
	for _, c := range doc {
		cp := domain.DietCategoryPlan{Category: domain.DietCategory(c.Category)}
		for _, m := range c.Meals {
			cp.Meals = append(cp.Meals, domain.Meal{
				ID:    m.ID,
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
		out.Categories = append(out.Categories, cp)
	}
	return out, nil
}
