package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unique-fitness/gym-admin-api/internal/app/announcements"
	"github.com/unique-fitness/gym-admin-api/internal/app/dashboard"
	"github.com/unique-fitness/gym-admin-api/internal/app/dietplans"
	"github.com/unique-fitness/gym-admin-api/internal/app/members"
	"github.com/unique-fitness/gym-admin-api/internal/app/plans"
	"github.com/unique-fitness/gym-admin-api/internal/app/workouts"
	"github.com/unique-fitness/gym-admin-api/internal/ports/out/idempotency"
)

// Server holds the application services the handlers delegate to.
type Server struct {
	Members       *members.Service
	Dashboard     *dashboard.Service
	Plans         *plans.Service
	Announcements *announcements.Service
	DietPlans     *dietplans.Service
	Workouts      *workouts.Service
	Idem          idempotency.Store
}

type RouterOptions struct {
	// AuthMiddleware guards every route except /healthz. Nil leaves the API open,
	// which is only suitable for tests.
	AuthMiddleware func(http.Handler) http.Handler
	// RateLimit is applied before auth. Zero RPS disables limiting.
	RateLimit RateLimitOptions
	// Logger receives one line per request. Defaults to slog.Default().
	Logger *slog.Logger
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if opts.RateLimit.RPS > 0 {
		r.Use(rateLimit(opts.RateLimit))
	}
	if opts.AuthMiddleware != nil {
		r.Use(opts.AuthMiddleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard/stats", s.getDashboardStats)
		r.Get("/dashboard/expiring", s.listExpiringMembers)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", s.listMembers)
			r.Post("/", s.createMember)
			r.Route("/{memberId}", func(r chi.Router) {
				r.Get("/", s.getMember)
				r.Patch("/", s.updateMember)
				r.Delete("/", s.deleteMember)
				r.Post("/membership", s.assignPlan)
				r.Post("/weights", s.recordWeight)
			})
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.listPlans)
			r.Post("/", s.createPlan)
			r.Get("/{planId}", s.getPlan)
			r.Put("/{planId}", s.updatePlan)
			r.Delete("/{planId}", s.deletePlan)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", s.listAnnouncements)
			r.Post("/", s.createAnnouncement)
			r.Put("/{announcementId}", s.updateAnnouncement)
			r.Delete("/{announcementId}", s.deleteAnnouncement)
		})

		r.Route("/diet-plans", func(r chi.Router) {
			r.Get("/", s.listDietPlans)
			r.Post("/", s.addMeals)
			r.Delete("/{purpose}/{category}", s.deleteDietCategory)
		})

		r.Route("/workout/video", func(r chi.Router) {
			r.Get("/", s.listAllVideos)
			r.Get("/{muscle}", s.listVideos)
			r.Post("/{muscle}", s.addVideo)
			r.Put("/{muscle}", s.replaceVideo)
			r.Delete("/{muscle}", s.removeVideo)
		})
	})

	return r
}
