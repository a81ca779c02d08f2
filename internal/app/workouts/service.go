package workouts

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/videorepo"
)

var validate = validator.New()

// MuscleVideos is the video list for one muscle group.
type MuscleVideos struct {
	Muscle domain.Muscle
	Links  []string
}

type Service struct {
	repo videorepo.Repository
}

func NewService(repo videorepo.Repository) *Service {
	return &Service{repo: repo}
}

// ListAll returns every known muscle in catalogue order, including those without videos.
func (s *Service) ListAll(ctx context.Context) ([]MuscleVideos, error) {
	out := make([]MuscleVideos, 0, len(domain.Muscles))
	for _, m := range domain.Muscles {
		links, err := s.repo.List(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, MuscleVideos{Muscle: m, Links: links})
	}
	return out, nil
}

func (s *Service) ListVideos(ctx context.Context, muscle string) (MuscleVideos, error) {
	m, err := parseMuscle(muscle)
	if err != nil {
		return MuscleVideos{}, err
	}
	links, err := s.repo.List(ctx, m)
	if err != nil {
		return MuscleVideos{}, err
	}
	return MuscleVideos{Muscle: m, Links: links}, nil
}

// AddVideo registers a link; adding a link twice is a no-op.
func (s *Service) AddVideo(ctx context.Context, muscle, link string) (MuscleVideos, error) {
	m, err := parseMuscle(muscle)
	if err != nil {
		return MuscleVideos{}, err
	}
	link, err = parseLink("link", link)
	if err != nil {
		return MuscleVideos{}, err
	}
	if err := s.repo.Add(ctx, m, link); err != nil {
		return MuscleVideos{}, err
	}
	return s.ListVideos(ctx, string(m))
}

func (s *Service) RemoveVideo(ctx context.Context, muscle, link string) (MuscleVideos, error) {
	m, err := parseMuscle(muscle)
	if err != nil {
		return MuscleVideos{}, err
	}
	if err := s.repo.Remove(ctx, m, strings.TrimSpace(link)); err != nil {
		return MuscleVideos{}, mapRepoErr(err)
	}
	return s.ListVideos(ctx, string(m))
}

func (s *Service) ReplaceVideo(ctx context.Context, muscle, oldLink, newLink string) (MuscleVideos, error) {
	m, err := parseMuscle(muscle)
	if err != nil {
		return MuscleVideos{}, err
	}
	newLink, err = parseLink("newLink", newLink)
	if err != nil {
		return MuscleVideos{}, err
	}
	if err := s.repo.Replace(ctx, m, strings.TrimSpace(oldLink), newLink); err != nil {
		return MuscleVideos{}, mapRepoErr(err)
	}
	return s.ListVideos(ctx, string(m))
}

func parseMuscle(raw string) (domain.Muscle, error) {
	m := domain.Muscle(strings.ToLower(strings.TrimSpace(raw)))
	if !domain.IsKnownMuscle(m) {
		return "", &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid muscle",
			Details: map[string]any{"muscle": "unknown muscle group " + raw},
		}
	}
	return m, nil
}

func parseLink(field, raw string) (string, error) {
	link := strings.TrimSpace(raw)
	if err := validate.Var(link, "required,http_url"); err != nil {
		return "", &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid " + field,
			Details: map[string]any{field: "must be an absolute http(s) URL"},
		}
	}
	return link, nil
}

func mapRepoErr(err error) error {
	if errors.Is(err, videorepo.ErrNotFound) {
		return &Error{Status: 404, Code: "VIDEO_NOT_FOUND", Message: "video link not found"}
	}
	return err
}
