package wizard

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meetslot/meetslot-web/internal/meetslot"
)

// Step is one state of the public booking wizard.
type Step string

const (
	StepSelectingDateTime Step = "selecting_date_time"
	StepEnteringDetails   Step = "entering_details"
	StepConfirming        Step = "confirming"
	StepSubmitted         Step = "submitted"
	StepFailed            Step = "failed"
)

var (
	// ErrDateTimeRequired gates the advance out of date/time selection.
	ErrDateTimeRequired = errors.New("wizard: a date and a time slot must be selected")
	// ErrGuestRequired gates the advance out of guest details. Email format
	// is deliberately not checked here; only presence is.
	ErrGuestRequired = errors.New("wizard: guest name and email are required")
	// ErrBadTransition is returned for any transition the current step does
	// not allow.
	ErrBadTransition = errors.New("wizard: transition not allowed from current step")
)

// Session is one invitee's in-progress booking. It is created empty when the
// wizard mounts, mutated through the three steps, and discarded after a
// successful submission. The struct is JSON-serializable so it can live in
// the session store between requests.
type Session struct {
	ID          string                   `json:"id"`
	MeetingType meetslot.MeetingType     `json:"meetingType"`
	Timezones   []meetslot.TimezoneEntry `json:"timezones"`

	Step         Step   `json:"step"`
	Timezone     string `json:"timezone"`
	SelectedDate string `json:"selectedDate,omitempty"` // YYYY-MM-DD
	SelectedSlot string `json:"selectedSlot,omitempty"`

	Guest meetslot.GuestInfo `json:"guest"`

	// Slots shown for the current (date, timezone) pair. Empty while a fetch
	// is in flight so stale slots are never displayed.
	Slots          []string `json:"slots"`
	SlotsEstimated bool     `json:"slotsEstimated"`
	SlotsLoading   bool     `json:"slotsLoading"`

	// FetchSeq is the token of the most recently issued availability fetch.
	// Only a result carrying this token may be applied (last-request-wins).
	FetchSeq   uint64 `json:"fetchSeq"`
	AppliedSeq uint64 `json:"appliedSeq"`

	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	BookingID      string `json:"bookingId,omitempty"`
	FailureReason  string `json:"failureReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewSession starts a wizard for one meeting type. The meeting type snapshot
// and timezone catalog are read-only for the session's lifetime.
func NewSession(id string, mt meetslot.MeetingType, timezones []meetslot.TimezoneEntry, defaultTimezone string) *Session {
	return &Session{
		ID:          id,
		MeetingType: mt,
		Timezones:   timezones,
		Step:        StepSelectingDateTime,
		Timezone:    defaultTimezone,
		Slots:       []string{},
		CreatedAt:   time.Now().UTC(),
	}
}

// SelectDate records a new calendar date and returns the fetch token for the
// availability lookup it triggers. Any previously selected slot is cleared:
// a slot from another date must never survive a date change. The previous
// slot list is discarded immediately so nothing stale is shown while the
// fetch is in flight.
func (s *Session) SelectDate(date string) (uint64, error) {
	if s.Step != StepSelectingDateTime {
		return 0, ErrBadTransition
	}
	if strings.TrimSpace(date) == "" {
		return 0, errors.New("wizard: date must not be empty")
	}
	s.SelectedDate = date
	s.SelectedSlot = ""
	s.beginFetch()
	return s.FetchSeq, nil
}

// SetTimezone switches the display timezone. When a date is already selected
// this invalidates the visible slots and triggers exactly one re-fetch; the
// returned token is non-zero in that case.
func (s *Session) SetTimezone(tz string) (uint64, error) {
	if s.Step != StepSelectingDateTime {
		return 0, ErrBadTransition
	}
	if strings.TrimSpace(tz) == "" {
		return 0, errors.New("wizard: timezone must not be empty")
	}
	s.Timezone = tz
	if s.SelectedDate == "" {
		return 0, nil
	}
	s.SelectedSlot = ""
	s.beginFetch()
	return s.FetchSeq, nil
}

func (s *Session) beginFetch() {
	s.Slots = []string{}
	s.SlotsEstimated = false
	s.SlotsLoading = true
	s.FetchSeq++
}

// ApplySlots installs a fetch result. A result is discarded as stale when
// its token is not the most recently issued one, or when the (date,
// timezone) pair it was fetched for no longer matches the session's current
// selection. Overlapping requests that load the same stored snapshot can
// mint equal tokens, so the token alone does not prove freshness; the pair
// check does.
func (s *Session) ApplySlots(token uint64, date, tz string, slots []string, estimated bool) bool {
	if token != s.FetchSeq || date != s.SelectedDate || tz != s.Timezone {
		return false
	}
	if slots == nil {
		slots = []string{}
	}
	s.Slots = slots
	s.SlotsEstimated = estimated
	s.SlotsLoading = false
	s.AppliedSeq = token
	return true
}

// SelectSlot records the chosen time slot for the selected date.
func (s *Session) SelectSlot(slot string) error {
	if s.Step != StepSelectingDateTime {
		return ErrBadTransition
	}
	if s.SelectedDate == "" {
		return ErrDateTimeRequired
	}
	if strings.TrimSpace(slot) == "" {
		return errors.New("wizard: time slot must not be empty")
	}
	s.SelectedSlot = slot
	return nil
}

// SetGuest records the invitee's contact details.
func (s *Session) SetGuest(g meetslot.GuestInfo) error {
	if s.Step != StepEnteringDetails {
		return ErrBadTransition
	}
	s.Guest = g
	return nil
}

// Advance moves the wizard forward one step, enforcing the gating rules.
func (s *Session) Advance() error {
	switch s.Step {
	case StepSelectingDateTime:
		if s.SelectedDate == "" || s.SelectedSlot == "" {
			return ErrDateTimeRequired
		}
		s.Step = StepEnteringDetails
		return nil
	case StepEnteringDetails:
		if strings.TrimSpace(s.Guest.Name) == "" || strings.TrimSpace(s.Guest.Email) == "" {
			return ErrGuestRequired
		}
		s.Step = StepConfirming
		return nil
	default:
		return ErrBadTransition
	}
}

// Back moves the wizard one step backward. Backward transitions are always
// allowed from the middle steps and never clear previously entered data.
func (s *Session) Back() error {
	switch s.Step {
	case StepEnteringDetails:
		s.Step = StepSelectingDateTime
		return nil
	case StepConfirming, StepFailed:
		s.Step = StepEnteringDetails
		return nil
	default:
		return ErrBadTransition
	}
}

// BeginConfirm prepares a submission attempt and returns the idempotency
// key to send. The key is generated once per session and reused on retries,
// so a double-click or a retry after failure cannot create a duplicate
// booking. A failed session returns to Confirming here.
func (s *Session) BeginConfirm() (string, error) {
	switch s.Step {
	case StepConfirming:
	case StepFailed:
		s.Step = StepConfirming
		s.FailureReason = ""
	default:
		return "", ErrBadTransition
	}
	if s.IdempotencyKey == "" {
		s.IdempotencyKey = uuid.NewString()
	}
	return s.IdempotencyKey, nil
}

// BookingRequest assembles the finalized submission payload. It is only
// built here, at confirm time, never incrementally.
func (s *Session) BookingRequest() meetslot.BookingRequest {
	return meetslot.BookingRequest{
		MeetingTypeID:  s.MeetingType.ID,
		Date:           s.SelectedDate,
		Time:           s.SelectedSlot,
		Timezone:       s.Timezone,
		GuestInfo:      s.Guest,
		IdempotencyKey: s.IdempotencyKey,
	}
}

// MarkSubmitted finalizes the session after a successful submission.
func (s *Session) MarkSubmitted(bookingID string) {
	s.Step = StepSubmitted
	s.BookingID = bookingID
	s.FailureReason = ""
}

// MarkFailed records a submission failure; the session remains retryable
// and no entered data is lost.
func (s *Session) MarkFailed(reason string) {
	s.Step = StepFailed
	s.FailureReason = reason
}
