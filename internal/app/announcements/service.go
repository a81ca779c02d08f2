package announcements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unique-fitness/gym-admin-api/internal/domain"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/announcementrepo"
	clockport "github.com/unique-fitness/gym-admin-api/internal/ports/out/clock"
)

// AnnouncementView carries the stored markdown and its rendered HTML.
type AnnouncementView struct {
	Announcement domain.Announcement
	ContentHTML  string
}

type AnnouncementInput struct {
	Title   string
	Content string
	// PublishDate defaults to now on create and to the stored value on update.
	PublishDate *time.Time
}

type Service struct {
	repo announcementrepo.Repository
	clk  clockport.Clock

	newID func() domain.AnnouncementID
}

func NewService(repo announcementrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newID: func() domain.AnnouncementID {
			return domain.AnnouncementID(uuid.NewString())
		},
	}
}

func (s *Service) ListAnnouncements(ctx context.Context) ([]AnnouncementView, error) {
	as, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AnnouncementView, 0, len(as))
	for _, a := range as {
		v, err := view(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) CreateAnnouncement(ctx context.Context, in AnnouncementInput) (AnnouncementView, error) {
	title, content, err := validate(in)
	if err != nil {
		return AnnouncementView{}, err
	}
	now := s.clk.Now()
	publish := now
	if in.PublishDate != nil {
		publish = *in.PublishDate
	}
	a := domain.Announcement{
		ID:          s.newID(),
		Title:       title,
		Content:     content,
		PublishDate: publish,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return AnnouncementView{}, err
	}
	return view(a)
}

func (s *Service) UpdateAnnouncement(ctx context.Context, id domain.AnnouncementID, in AnnouncementInput) (AnnouncementView, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, announcementrepo.ErrNotFound) {
			return AnnouncementView{}, notFound()
		}
		return AnnouncementView{}, err
	}
	title, content, err := validate(in)
	if err != nil {
		return AnnouncementView{}, err
	}
	a.Title = title
	a.Content = content
	if in.PublishDate != nil {
		a.PublishDate = *in.PublishDate
	}
	a.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, announcementrepo.ErrNotFound) {
			return AnnouncementView{}, notFound()
		}
		return AnnouncementView{}, err
	}
	return view(a)
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id domain.AnnouncementID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, announcementrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	return nil
}

func validate(in AnnouncementInput) (string, string, error) {
	title := domain.NormalizeHumanName(in.Title)
	if title == "" {
		return "", "", validationError("title", "must be non-empty")
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return "", "", validationError("content", "must be non-empty")
	}
	return title, content, nil
}

func view(a domain.Announcement) (AnnouncementView, error) {
	html, err := renderMarkdown(a.Content)
	if err != nil {
		return AnnouncementView{}, fmt.Errorf("render announcement %s: %w", a.ID, err)
	}
	return AnnouncementView{Announcement: a, ContentHTML: html}, nil
}

func validationError(field, problem string) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid " + field,
		Details: map[string]any{field: problem},
	}
}

func notFound() *Error {
	return &Error{Status: 404, Code: "ANNOUNCEMENT_NOT_FOUND", Message: "announcement not found"}
}
