package announcementrepo

import (
	"context"
	"errors"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
)

var (
	ErrNotFound      = errors.New("announcement not found")
	ErrAlreadyExists = errors.New("announcement already exists")
)

// Repository provides access to announcements.
// List returns announcements newest PublishDate first, ties broken by ID.
type Repository interface {
	Create(ctx context.Context, a domain.Announcement) error
	Update(ctx context.Context, a domain.Announcement) error
	Delete(ctx context.Context, id domain.AnnouncementID) error
	GetByID(ctx context.Context, id domain.AnnouncementID) (domain.Announcement, error)
	List(ctx context.Context) ([]domain.Announcement, error)
}
