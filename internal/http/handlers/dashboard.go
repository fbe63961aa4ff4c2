package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meetslot/meetslot-web/internal/meetslot"
	"github.com/meetslot/meetslot-web/pkg/logging"
)

// DashboardBackend is the authenticated slice of the meetslot API behind
// the host dashboard pages.
type DashboardBackend interface {
	ListMeetingTypes(ctx context.Context, token string) ([]meetslot.MeetingType, error)
	CreateMeetingType(ctx context.Context, token string, mt meetslot.MeetingType) (*meetslot.MeetingType, error)
	UpdateMeetingType(ctx context.Context, token string, mt meetslot.MeetingType) (*meetslot.MeetingType, error)
	DeleteMeetingType(ctx context.Context, token, meetingTypeID string) error
	ListBookings(ctx context.Context, token string, page, limit int) (*meetslot.BookingPage, error)
	CancelBooking(ctx context.Context, token, bookingID string) error
}

// DashboardHandler proxies the authenticated dashboard calls, forwarding
// the caller's bearer token untouched.
type DashboardHandler struct {
	backend DashboardBackend
	logger  *logging.Logger
}

// NewDashboardHandler wires the dashboard endpoints.
func NewDashboardHandler(backend DashboardBackend, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{backend: backend, logger: logger}
}

func (h *DashboardHandler) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return token, true
}

// ListMeetingTypes returns the host's meeting types.
func (h *DashboardHandler) ListMeetingTypes(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}
	meetings, err := h.backend.ListMeetingTypes(r.Context(), token)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	if meetings == nil {
		meetings = []meetslot.MeetingType{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"meetings": meetings})
}

// CreateMeetingType creates a meeting type.
func (h *DashboardHandler) CreateMeetingType(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}
	var mt meetslot.MeetingType
	if err := decodeJSON(r, &mt); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.backend.CreateMeetingType(r.Context(), token, mt)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateMeetingType updates a meeting type by id.
func (h *DashboardHandler) UpdateMeetingType(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}
	var mt meetslot.MeetingType
	if err := decodeJSON(r, &mt); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mt.ID = chi.URLParam(r, "meetingTypeID")
	updated, err := h.backend.UpdateMeetingType(r.Context(), token, mt)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteMeetingType removes a meeting type.
func (h *DashboardHandler) DeleteMeetingType(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}
	if err := h.backend.DeleteMeetingType(r.Context(), token, chi.URLParam(r, "meetingTypeID")); err != nil {
		writeBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBookings returns one page of the host's bookings. The dashboard's
// infinite scroll maps onto the hasMore flag.
func (h *DashboardHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.backend.ListBookings(r.Context(), token, page, limit)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CancelBooking cancels one booking.
func (h *DashboardHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}
	if err := h.backend.CancelBooking(r.Context(), token, chi.URLParam(r, "bookingID")); err != nil {
		writeBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
