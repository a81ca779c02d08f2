package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unique-fitness/gym-admin-api/internal/app/workouts"
)

type muscleVideosDTO struct {
	Muscle string   `json:"muscle"`
	Links  []string `json:"links"`
}

type addVideoRequest struct {
	Link string `json:"link" validate:"required"`
}

type replaceVideoRequest struct {
	OldLink string `json:"oldLink" validate:"required"`
	NewLink string `json:"newLink" validate:"required"`
}

func (s *Server) listAllVideos(w http.ResponseWriter, r *http.Request) {
	all, err := s.Workouts.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, "ListAllVideos", err)
		return
	}
	out := make([]muscleVideosDTO, 0, len(all))
	for _, mv := range all {
		out = append(out, muscleVideosFrom(mv))
	}
	writeData(w, r, http.StatusOK, out)
}

func (s *Server) listVideos(w http.ResponseWriter, r *http.Request) {
	mv, err := s.Workouts.ListVideos(r.Context(), chi.URLParam(r, "muscle"))
	if err != nil {
		writeServiceError(w, r, "ListVideos", err)
		return
	}
	writeData(w, r, http.StatusOK, muscleVideosFrom(mv))
}

func (s *Server) addVideo(w http.ResponseWriter, r *http.Request) {
	var body addVideoRequest
	if !readJSON(w, r, &body) {
		return
	}
	mv, err := s.Workouts.AddVideo(r.Context(), chi.URLParam(r, "muscle"), body.Link)
	if err != nil {
		writeServiceError(w, r, "AddVideo", err)
		return
	}
	writeData(w, r, http.StatusCreated, muscleVideosFrom(mv))
}

func (s *Server) replaceVideo(w http.ResponseWriter, r *http.Request) {
	var body replaceVideoRequest
	if !readJSON(w, r, &body) {
		return
	}
	mv, err := s.Workouts.ReplaceVideo(r.Context(), chi.URLParam(r, "muscle"), body.OldLink, body.NewLink)
	if err != nil {
		writeServiceError(w, r, "ReplaceVideo", err)
		return
	}
	writeData(w, r, http.StatusOK, muscleVideosFrom(mv))
}

// removeVideo takes the link from the ?link= query parameter.
func (s *Server) removeVideo(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	if link == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid link", map[string]any{"link": "is required"})
		return
	}
	mv, err := s.Workouts.RemoveVideo(r.Context(), chi.URLParam(r, "muscle"), link)
	if err != nil {
		writeServiceError(w, r, "RemoveVideo", err)
		return
	}
	writeData(w, r, http.StatusOK, muscleVideosFrom(mv))
}

func muscleVideosFrom(mv workouts.MuscleVideos) muscleVideosDTO {
	links := mv.Links
	if links == nil {
		links = []string{}
	}
	return muscleVideosDTO{Muscle: string(mv.Muscle), Links: links}
}
