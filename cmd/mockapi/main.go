// Command mockapi runs a simulated meetslot backend for local development.
// It implements just enough of the real API surface for the web frontend:
// the timezone catalog, public meeting types with availability, bookings
// with idempotency, and a single hard-coded host account.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: status < 400, Data: data})
}

func fail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: msg})
}

type meetingType struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Description     string `json:"description,omitempty"`
	Color           string `json:"color,omitempty"`
	AvailableDays   []int  `json:"availableDays,omitempty"`
	Timezone        string `json:"timezone,omitempty"`
	IsActive        bool   `json:"isActive"`
}

type booking struct {
	ID            string          `json:"id"`
	MeetingTypeID string          `json:"meetingTypeId"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Timezone      string          `json:"timezone"`
	GuestInfo     json.RawMessage `json:"guestInfo"`
	Status        string          `json:"status"`
}

type server struct {
	mu sync.Mutex

	meetings map[string]*meetingType
	bookings []booking
	// byIdempotencyKey dedupes retried submissions.
	byIdempotencyKey map[string]string

	failAvailability bool
}

func newServer(failAvailability bool) *server {
	weekdays := []int{1, 2, 3, 4, 5}
	return &server{
		meetings: map[string]*meetingType{
			"intro-30": {
				ID: "intro-30", Name: "30 Minute Intro Call", DurationMinutes: 30,
				Description: "A quick intro chat", Color: "#4f46e5",
				AvailableDays: weekdays, Timezone: "Asia/Kolkata", IsActive: true,
			},
			"deep-dive-60": {
				ID: "deep-dive-60", Name: "60 Minute Deep Dive", DurationMinutes: 60,
				AvailableDays: weekdays, Timezone: "Asia/Kolkata", IsActive: true,
			},
			"retired-15": {
				ID: "retired-15", Name: "Retired Slot", DurationMinutes: 15, IsActive: false,
			},
		},
		byIdempotencyKey: make(map[string]string),
		failAvailability: failAvailability,
	}
}

var timezoneCatalog = []map[string]string{
	{"value": "Asia/Kolkata", "label": "(GMT+5:30) India Standard Time"},
	{"value": "America/New_York", "label": "(GMT-5:00) Eastern Time"},
	{"value": "America/Los_Angeles", "label": "(GMT-8:00) Pacific Time"},
	{"value": "Europe/London", "label": "(GMT+0:00) London"},
	{"value": "Europe/Berlin", "label": "(GMT+1:00) Berlin"},
	{"value": "Australia/Sydney", "label": "(GMT+11:00) Sydney"},
}

func (s *server) handleTimezones(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]interface{}{"all": timezoneCatalog})
}

func (s *server) handlePublicMeetingType(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	mt, ok := s.meetings[chi.URLParam(r, "meetingTypeID")]
	s.mu.Unlock()
	if !ok {
		fail(w, http.StatusNotFound, "Meeting not found")
		return
	}
	respond(w, http.StatusOK, mt)
}

func (s *server) handleAvailableTimes(w http.ResponseWriter, r *http.Request) {
	if s.failAvailability {
		fail(w, http.StatusServiceUnavailable, "Availability service temporarily unavailable")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		fail(w, http.StatusBadRequest, "date is required")
		return
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		fail(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}
	// Weekends are fully booked in the simulation; weekdays get a morning
	// and afternoon block with a deterministic gap.
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		respond(w, http.StatusOK, map[string]interface{}{"times": []string{}})
		return
	}
	times := []string{
		"09:00", "09:30", "10:00", "11:00", "11:30",
		"14:00", "14:30", "15:00", "16:00", "16:30",
	}
	respond(w, http.StatusOK, map[string]interface{}{"times": times})
}

func (s *server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date      string          `json:"date"`
		Time      string          `json:"time"`
		Timezone  string          `json:"timezone"`
		GuestInfo json.RawMessage `json:"guestInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	meetingTypeID := chi.URLParam(r, "meetingTypeID")

	s.mu.Lock()
	defer s.mu.Unlock()

	mt, ok := s.meetings[meetingTypeID]
	if !ok || !mt.IsActive {
		fail(w, http.StatusNotFound, "Meeting not found")
		return
	}

	if key := r.Header.Get("Idempotency-Key"); key != "" {
		if existing, seen := s.byIdempotencyKey[key]; seen {
			for i := range s.bookings {
				if s.bookings[i].ID == existing {
					respond(w, http.StatusOK, s.bookings[i])
					return
				}
			}
		}
	}

	// A booked (date, time) pair conflicts, which exercises the frontend's
	// failure-and-retry path.
	for i := range s.bookings {
		b := &s.bookings[i]
		if b.MeetingTypeID == meetingTypeID && b.Date == body.Date && b.Time == body.Time && b.Status != "cancelled" {
			fail(w, http.StatusConflict, "This slot was just booked by someone else. Please pick another time.")
			return
		}
	}

	created := booking{
		ID:            uuid.NewString(),
		MeetingTypeID: meetingTypeID,
		Date:          body.Date,
		Time:          body.Time,
		Timezone:      body.Timezone,
		GuestInfo:     body.GuestInfo,
		Status:        "confirmed",
	}
	s.bookings = append(s.bookings, created)
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		s.byIdempotencyKey[key] = created.ID
	}
	respond(w, http.StatusCreated, created)
}

const (
	hostEmail    = "host@example.com"
	hostPassword = "password123"
	hostToken    = "mock-token-host"
)

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Email != hostEmail || body.Password != hostPassword {
		fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"token": hostToken,
		"user":  map[string]string{"id": "u-1", "name": "Mock Host", "email": hostEmail},
	})
}

func (s *server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Email == hostEmail {
		fail(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{
		"token": hostToken,
		"user":  map[string]string{"id": "u-2", "name": body.Name, "email": body.Email},
	})
}

func (s *server) handlePasswordReset(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusAccepted, map[string]string{"status": "reset email sent"})
}

func (s *server) handlePasswordResetConfirm(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+hostToken {
			fail(w, http.StatusUnauthorized, "Your session has expired, please log in again")
			return
		}
		next(w, r)
	}
}

func (s *server) handleListMeetings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*meetingType, 0, len(s.meetings))
	for _, mt := range s.meetings {
		out = append(out, mt)
	}
	respond(w, http.StatusOK, map[string]interface{}{"meetings": out})
}

func (s *server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var mt meetingType
	if err := json.NewDecoder(r.Body).Decode(&mt); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if mt.Name == "" {
		fail(w, http.StatusUnprocessableEntity, "Meeting name is required")
		return
	}
	mt.ID = uuid.NewString()
	mt.IsActive = true
	s.mu.Lock()
	s.meetings[mt.ID] = &mt
	s.mu.Unlock()
	respond(w, http.StatusCreated, &mt)
}

func (s *server) handleUpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "meetingTypeID")
	var mt meetingType
	if err := json.NewDecoder(r.Body).Decode(&mt); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meetings[id]; !ok {
		fail(w, http.StatusNotFound, "Meeting not found")
		return
	}
	mt.ID = id
	s.meetings[id] = &mt
	respond(w, http.StatusOK, &mt)
}

func (s *server) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "meetingTypeID")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meetings[id]; !ok {
		fail(w, http.StatusNotFound, "Meeting not found")
		return
	}
	delete(s.meetings, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	page, limit := 1, 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.bookings)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"bookings": s.bookings[start:end],
		"page":     page,
		"total":    total,
		"hasMore":  end < total,
	})
}

func (s *server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookingID")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = "cancelled"
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	fail(w, http.StatusNotFound, "Booking not found")
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	failAvailability := flag.Bool("fail-availability", false, "return 503 from available-times to exercise the fallback slot list")
	flag.Parse()

	s := newServer(*failAvailability)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Get("/timezones", s.handleTimezones)
		api.Get("/meetings/public/{meetingTypeID}", s.handlePublicMeetingType)
		api.Get("/meetings/public/{meetingTypeID}/available-times", s.handleAvailableTimes)
		api.Post("/meetings/public/{meetingTypeID}/bookings", s.handleCreateBooking)

		api.Post("/auth/login", s.handleLogin)
		api.Post("/auth/signup", s.handleSignup)
		api.Post("/auth/password-reset", s.handlePasswordReset)
		api.Post("/auth/password-reset/confirm", s.handlePasswordResetConfirm)

		api.Get("/meetings", requireToken(s.handleListMeetings))
		api.Post("/meetings", requireToken(s.handleCreateMeeting))
		api.Put("/meetings/{meetingTypeID}", requireToken(s.handleUpdateMeeting))
		api.Delete("/meetings/{meetingTypeID}", requireToken(s.handleDeleteMeeting))
		api.Get("/bookings", requireToken(s.handleListBookings))
		api.Delete("/bookings/{bookingID}", requireToken(s.handleCancelBooking))
	})

	log.Printf("mock meetslot API listening on %s (login %s / %s)", *addr, hostEmail, hostPassword)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatal(err)
	}
}
