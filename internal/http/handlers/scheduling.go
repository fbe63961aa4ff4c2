package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meetslot/meetslot-web/internal/meetslot"
	"github.com/meetslot/meetslot-web/internal/observability/metrics"
	"github.com/meetslot/meetslot-web/internal/timezone"
	"github.com/meetslot/meetslot-web/internal/wizard"
	"github.com/meetslot/meetslot-web/pkg/logging"
)

// SchedulingBackend is the slice of the meetslot API the public booking
// wizard needs.
type SchedulingBackend interface {
	GetPublicMeetingType(ctx context.Context, meetingTypeID string) (*meetslot.MeetingType, error)
	FetchAvailableSlots(ctx context.Context, meetingTypeID, date, timezone string) (meetslot.AvailableSlots, error)
	SubmitBooking(ctx context.Context, req meetslot.BookingRequest) (*meetslot.BookingConfirmation, error)
}

// SchedulingHandler drives wizard sessions over JSON endpoints.
type SchedulingHandler struct {
	backend     SchedulingBackend
	tz          *timezone.Resolver
	store       wizard.SessionStore
	metrics     *metrics.WizardMetrics
	logger      *logging.Logger
	horizonDays int
}

// NewSchedulingHandler wires the wizard endpoints.
func NewSchedulingHandler(backend SchedulingBackend, tz *timezone.Resolver, store wizard.SessionStore, m *metrics.WizardMetrics, horizonDays int, logger *logging.Logger) *SchedulingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if horizonDays <= 0 {
		horizonDays = wizard.DefaultHorizonDays
	}
	return &SchedulingHandler{
		backend:     backend,
		tz:          tz,
		store:       store,
		metrics:     m,
		logger:      logger,
		horizonDays: horizonDays,
	}
}

// sessionView is the JSON snapshot rendered after every wizard operation.
type sessionView struct {
	ID                string                   `json:"id"`
	Step              wizard.Step              `json:"step"`
	MeetingType       meetslot.MeetingType     `json:"meetingType"`
	Timezones         []meetslot.TimezoneEntry `json:"timezones"`
	TimezonesMissing  bool                     `json:"timezonesMissing,omitempty"`
	Timezone          string                   `json:"timezone"`
	SelectedDate      string                   `json:"selectedDate,omitempty"`
	SelectedSlot      string                   `json:"selectedSlot,omitempty"`
	Guest             meetslot.GuestInfo       `json:"guest"`
	Slots             []string                 `json:"slots"`
	SlotsEstimated    bool                     `json:"slotsEstimated"`
	NextAvailableDate string                   `json:"nextAvailableDate,omitempty"`
	HorizonDays       int                      `json:"horizonDays"`
	BookingID         string                   `json:"bookingId,omitempty"`
	FailureReason     string                   `json:"failureReason,omitempty"`
}

func (h *SchedulingHandler) view(s *wizard.Session) sessionView {
	v := sessionView{
		ID:               s.ID,
		Step:             s.Step,
		MeetingType:      s.MeetingType,
		Timezones:        s.Timezones,
		TimezonesMissing: len(s.Timezones) == 0,
		Timezone:         s.Timezone,
		SelectedDate:     s.SelectedDate,
		SelectedSlot:     s.SelectedSlot,
		Guest:            s.Guest,
		Slots:            s.Slots,
		SlotsEstimated:   s.SlotsEstimated,
		HorizonDays:      h.horizonDays,
		BookingID:        s.BookingID,
		FailureReason:    s.FailureReason,
	}
	if next, ok := wizard.NextAvailableDate(s.MeetingType, time.Now().In(locationFor(s.Timezone)), h.horizonDays); ok {
		v.NextAvailableDate = next.Format("2006-01-02")
	}
	if v.Slots == nil {
		v.Slots = []string{}
	}
	return v
}

// locationFor resolves a timezone identifier, falling back to UTC. The
// backend remains the conversion authority; this only anchors "today" for
// the calendar predicate.
func locationFor(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CreateSession starts a wizard for a meeting type. The meeting type and
// the timezone catalog are fetched independently; neither fetch is allowed
// to block the other and both are awaited before the session is rendered.
func (h *SchedulingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MeetingTypeID string `json:"meetingTypeId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		wg    sync.WaitGroup
		mt    *meetslot.MeetingType
		mtErr error
		zones []meetslot.TimezoneEntry
		tzErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		mt, mtErr = h.backend.GetPublicMeetingType(r.Context(), body.MeetingTypeID)
	}()
	go func() {
		defer wg.Done()
		zones, tzErr = h.tz.Catalog(r.Context())
	}()
	wg.Wait()

	if mtErr != nil {
		writeBackendError(w, mtErr)
		return
	}
	if !mt.IsActive {
		writeError(w, http.StatusNotFound, "this meeting type is no longer accepting bookings")
		return
	}
	if tzErr != nil {
		// The session still opens; the empty catalog tells the frontend to
		// render a retry affordance rather than invented timezones.
		h.logger.Warn("timezone catalog unavailable at session start", "error", tzErr)
		zones = nil
	}

	s := wizard.NewSession(uuid.NewString(), *mt, zones, h.tz.ResolveDefault())
	if err := h.store.Save(r.Context(), s); err != nil {
		h.logger.Error("failed to save wizard session", "error", err)
		writeError(w, http.StatusInternalServerError, "could not start booking session")
		return
	}
	writeJSON(w, http.StatusCreated, h.view(s))
}

// GetSession returns the current wizard snapshot.
func (h *SchedulingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

// RetryTimezones re-attempts the timezone catalog fetch for a session whose
// first fetch failed.
func (h *SchedulingHandler) RetryTimezones(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	zones, err := h.tz.Catalog(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	s.Timezones = zones
	if err := h.store.Save(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update booking session")
		return
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

// SelectDate picks a calendar date (optionally switching timezone in the
// same request) and runs the availability fetch its token authorizes.
func (h *SchedulingHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date     string `json:"date"`
		Timezone string `json:"timezone"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if body.Timezone != "" && body.Timezone != s.Timezone {
		if _, err := s.SetTimezone(body.Timezone); err != nil {
			h.writeWizardError(w, err)
			return
		}
	}

	day, err := time.ParseInLocation("2006-01-02", body.Date, locationFor(s.Timezone))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}
	today := time.Now().In(locationFor(s.Timezone))
	if !wizard.IsDateAvailable(s.MeetingType, today, day, h.horizonDays) {
		writeError(w, http.StatusUnprocessableEntity, "this date is not available for booking")
		return
	}

	token, err := s.SelectDate(body.Date)
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	if err := h.store.Save(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update booking session")
		return
	}

	h.fetchAndApply(w, r, s.ID, token, s.MeetingType.ID, s.SelectedDate, s.Timezone)
}

// ChangeTimezone switches the display timezone; with a date already chosen
// this triggers exactly one slot re-fetch.
func (h *SchedulingHandler) ChangeTimezone(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Timezone string `json:"timezone"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	token, err := s.SetTimezone(body.Timezone)
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	if err := h.store.Save(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update booking session")
		return
	}
	if token == 0 {
		writeJSON(w, http.StatusOK, h.view(s))
		return
	}

	h.fetchAndApply(w, r, s.ID, token, s.MeetingType.ID, s.SelectedDate, s.Timezone)
}

// fetchAndApply performs one availability fetch and applies it under the
// last-request-wins token: the session is re-read after the fetch and the
// result is applied only if both the token and the fetched (date, timezone)
// pair still match, so a superseded fetch is discarded instead of
// overwriting fresher state.
func (h *SchedulingHandler) fetchAndApply(w http.ResponseWriter, r *http.Request, sessionID string, token uint64, meetingTypeID, date, tz string) {
	start := time.Now()
	slots, err := h.backend.FetchAvailableSlots(r.Context(), meetingTypeID, date, tz)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		h.metrics.ObserveAvailabilityFetch("error", false, elapsed)
		writeBackendError(w, err)
		return
	}
	result := "ok"
	if slots.Estimated {
		result = "fallback"
	}
	h.metrics.ObserveAvailabilityFetch(result, slots.Estimated, elapsed)

	s, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "booking session not found or expired")
		return
	}
	if !s.ApplySlots(token, date, tz, slots.Times, slots.Estimated) {
		h.metrics.ObserveStaleDiscard()
		h.logger.Debug("discarded stale availability result", "session_id", sessionID, "token", token)
		writeJSON(w, http.StatusOK, h.view(s))
		return
	}
	if err := h.store.Save(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update booking session")
		return
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

// SelectSlot picks a time slot for the selected date.
func (h *SchedulingHandler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Time string `json:"time"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.SelectSlot(body.Time); err != nil {
		h.writeWizardError(w, err)
		return
	}
	h.saveAndRender(w, r, s)
}

// SetGuest records the invitee's details.
func (h *SchedulingHandler) SetGuest(w http.ResponseWriter, r *http.Request) {
	var body meetslot.GuestInfo
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.SetGuest(body); err != nil {
		h.writeWizardError(w, err)
		return
	}
	h.saveAndRender(w, r, s)
}

// Advance moves the wizard forward one step.
func (h *SchedulingHandler) Advance(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.Advance(); err != nil {
		h.writeWizardError(w, err)
		return
	}
	h.saveAndRender(w, r, s)
}

// Back moves the wizard one step backward, preserving entered data.
func (h *SchedulingHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.Back(); err != nil {
		h.writeWizardError(w, err)
		return
	}
	h.saveAndRender(w, r, s)
}

// Confirm submits the booking. The idempotency key is persisted before the
// network call so a concurrent double-click reuses it, and a failure leaves
// the session retryable with the backend's reason verbatim.
func (h *SchedulingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	if _, err := s.BeginConfirm(); err != nil {
		h.writeWizardError(w, err)
		return
	}
	if err := h.store.Save(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update booking session")
		return
	}

	conf, err := h.backend.SubmitBooking(r.Context(), s.BookingRequest())
	if err != nil {
		if apiErr, isAPI := meetslot.AsAPIError(err); isAPI {
			s.MarkFailed(apiErr.Message)
		} else if meetslot.IsValidation(err) {
			h.writeWizardError(w, err)
			return
		} else {
			s.MarkFailed("could not reach the scheduling service, please try again")
		}
		h.metrics.ObserveSubmission("failed")
		if saveErr := h.store.Save(r.Context(), s); saveErr != nil {
			h.logger.Error("failed to save wizard session after submission failure", "error", saveErr)
		}
		writeJSON(w, http.StatusOK, h.view(s))
		return
	}

	s.MarkSubmitted(conf.ID)
	h.metrics.ObserveSubmission("confirmed")
	h.saveAndRender(w, r, s)
}

func (h *SchedulingHandler) loadSession(w http.ResponseWriter, r *http.Request) (*wizard.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, err := h.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, wizard.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "booking session not found or expired")
		} else {
			h.logger.Error("failed to load wizard session", "session_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "could not load booking session")
		}
		return nil, false
	}
	return s, true
}

func (h *SchedulingHandler) saveAndRender(w http.ResponseWriter, r *http.Request, s *wizard.Session) {
	if err := h.store.Save(r.Context(), s); err != nil {
		h.logger.Error("failed to save wizard session", "session_id", s.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not update booking session")
		return
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

func (h *SchedulingHandler) writeWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrDateTimeRequired), errors.Is(err, wizard.ErrGuestRequired):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, wizard.ErrBadTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
