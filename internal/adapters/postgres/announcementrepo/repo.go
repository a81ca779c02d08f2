package announcementrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/unique-fitness/gym-admin-api/internal/adapters/postgres"
	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/announcementrepo"
)

// Repo is a Postgres implementation of announcementrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, a domain.Announcement) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(a.ID))
	if err != nil {
		return fmt.Errorf("invalid announcement id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO announcements (id, title, content, publish_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, a.Title, a.Content, a.PublishDate.UTC(), a.CreatedAt.UTC(), a.UpdatedAt.UTC())
	if postgres.IsUniqueViolation(err, "") {
		return announcementrepo.ErrAlreadyExists
	}
	return err
}

func (r *Repo) Update(ctx context.Context, a domain.Announcement) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(a.ID))
	if err != nil {
		return announcementrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE announcements
		SET title = $2,
		    content = $3,
		    publish_date = $4,
		    updated_at = $5
		WHERE id = $1
	`, id, a.Title, a.Content, a.PublishDate.UTC(), a.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return announcementrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.AnnouncementID) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return announcementrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return announcementrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.AnnouncementID) (domain.Announcement, error) {
	if r.pool == nil {
		return domain.Announcement{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Announcement{}, announcementrepo.ErrNotFound
	}
	return scanAnnouncement(r.pool.QueryRow(ctx, `
		SELECT id, title, content, publish_date, created_at, updated_at
		FROM announcements WHERE id = $1
	`, uid))
}

func (r *Repo) List(ctx context.Context) ([]domain.Announcement, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, publish_date, created_at, updated_at
		FROM announcements
		ORDER BY publish_date DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnnouncement(row interface {
	Scan(dest ...any) error
}) (domain.Announcement, error) {
	var (
		id uuid.UUID
		a  domain.Announcement
	)
	if err := row.Scan(&id, &a.Title, &a.Content, &a.PublishDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Announcement{}, announcementrepo.ErrNotFound
		}
		return domain.Announcement{}, err
	}
	a.ID = domain.AnnouncementID(id.String())
	a.PublishDate = a.PublishDate.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}
