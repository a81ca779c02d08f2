package videorepo

import (
	"context"
	"errors"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
)

// ErrNotFound indicates the link is not registered for the muscle.
var ErrNotFound = errors.New("workout video not found")

// Repository stores a set of video links per muscle group.
// List returns links in lexical order; adding an existing link is a no-op.
type Repository interface {
	List(ctx context.Context, muscle domain.Muscle) ([]string, error)
	Add(ctx context.Context, muscle domain.Muscle, link string) error
	Remove(ctx context.Context, muscle domain.Muscle, link string) error
	// Replace swaps oldLink for newLink atomically.
	Replace(ctx context.Context, muscle domain.Muscle, oldLink, newLink string) error
}
