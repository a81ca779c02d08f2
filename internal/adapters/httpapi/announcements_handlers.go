package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unique-fitness/gym-admin-api/internal/app/announcements"
	"github.com/unique-fitness/gym-admin-api/internal/domain"
)

type announcementDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"contentHtml"`
	PublishDate time.Time `json:"publishDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type announcementRequest struct {
	Title       string     `json:"title" validate:"required"`
	Content     string     `json:"content" validate:"required"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
}

func (b announcementRequest) input() announcements.AnnouncementInput {
	return announcements.AnnouncementInput{Title: b.Title, Content: b.Content, PublishDate: b.PublishDate}
}

func (s *Server) listAnnouncements(w http.ResponseWriter, r *http.Request) {
	views, err := s.Announcements.ListAnnouncements(r.Context())
	if err != nil {
		writeServiceError(w, r, "ListAnnouncements", err)
		return
	}
	out := make([]announcementDTO, 0, len(views))
	for _, v := range views {
		out = append(out, announcementFromView(v))
	}
	writeData(w, r, http.StatusOK, out)
}

func (s *Server) createAnnouncement(w http.ResponseWriter, r *http.Request) {
	var body announcementRequest
	if !readJSON(w, r, &body) {
		return
	}
	v, err := s.Announcements.CreateAnnouncement(r.Context(), body.input())
	if err != nil {
		writeServiceError(w, r, "CreateAnnouncement", err)
		return
	}
	writeData(w, r, http.StatusCreated, announcementFromView(v))
}

func (s *Server) updateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var body announcementRequest
	if !readJSON(w, r, &body) {
		return
	}
	id := domain.AnnouncementID(chi.URLParam(r, "announcementId"))
	v, err := s.Announcements.UpdateAnnouncement(r.Context(), id, body.input())
	if err != nil {
		writeServiceError(w, r, "UpdateAnnouncement", err)
		return
	}
	writeData(w, r, http.StatusOK, announcementFromView(v))
}

func (s *Server) deleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := domain.AnnouncementID(chi.URLParam(r, "announcementId"))
	if err := s.Announcements.DeleteAnnouncement(r.Context(), id); err != nil {
		writeServiceError(w, r, "DeleteAnnouncement", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func announcementFromView(v announcements.AnnouncementView) announcementDTO {
	a := v.Announcement
	return announcementDTO{
		ID:          string(a.ID),
		Title:       a.Title,
		Content:     a.Content,
		ContentHTML: v.ContentHTML,
		PublishDate: a.PublishDate,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
