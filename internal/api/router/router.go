package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/meetslot/meetslot-web/internal/http/handlers"
	httpmiddleware "github.com/meetslot/meetslot-web/internal/http/middleware"
	"github.com/meetslot/meetslot-web/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Scheduling         *handlers.SchedulingHandler
	Auth               *handlers.AuthHandler
	Dashboard          *handlers.DashboardHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// Public booking wizard
		if cfg.Scheduling != nil {
			api.Post("/sessions", cfg.Scheduling.CreateSession)
			api.Route("/sessions/{sessionID}", func(s chi.Router) {
				s.Get("/", cfg.Scheduling.GetSession)
				s.Post("/timezones/retry", cfg.Scheduling.RetryTimezones)
				s.Post("/date", cfg.Scheduling.SelectDate)
				s.Post("/timezone", cfg.Scheduling.ChangeTimezone)
				s.Post("/slot", cfg.Scheduling.SelectSlot)
				s.Post("/guest", cfg.Scheduling.SetGuest)
				s.Post("/advance", cfg.Scheduling.Advance)
				s.Post("/back", cfg.Scheduling.Back)
				s.Post("/confirm", cfg.Scheduling.Confirm)
			})
		}

		// Account pages
		if cfg.Auth != nil {
			api.Route("/auth", func(a chi.Router) {
				a.Post("/login", cfg.Auth.Login)
				a.Post("/signup", cfg.Auth.Signup)
				a.Post("/password-reset", cfg.Auth.RequestPasswordReset)
				a.Post("/password-reset/confirm", cfg.Auth.ResetPassword)
			})
		}

		// Host dashboard (bearer token forwarded to the backend)
		if cfg.Dashboard != nil {
			api.Route("/meetings", func(m chi.Router) {
				m.Get("/", cfg.Dashboard.ListMeetingTypes)
				m.Post("/", cfg.Dashboard.CreateMeetingType)
				m.Put("/{meetingTypeID}", cfg.Dashboard.UpdateMeetingType)
				m.Delete("/{meetingTypeID}", cfg.Dashboard.DeleteMeetingType)
			})
			api.Route("/bookings", func(b chi.Router) {
				b.Get("/", cfg.Dashboard.ListBookings)
				b.Delete("/{bookingID}", cfg.Dashboard.CancelBooking)
			})
		}
	})

	return r
}
