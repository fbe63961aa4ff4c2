package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetslot/meetslot-web/internal/meetslot"
	"github.com/meetslot/meetslot-web/internal/timezone"
	"github.com/meetslot/meetslot-web/internal/wizard"
	"github.com/meetslot/meetslot-web/pkg/logging"
)

type fakeBackend struct {
	meetingType *meetslot.MeetingType
	meetingErr  error

	slots    meetslot.AvailableSlots
	slotsErr error

	confirmation *meetslot.BookingConfirmation
	submitErr    error

	fetchCalls  atomic.Int64
	submitCalls atomic.Int64
	submitted   []meetslot.BookingRequest
}

func (f *fakeBackend) GetPublicMeetingType(ctx context.Context, meetingTypeID string) (*meetslot.MeetingType, error) {
	if f.meetingErr != nil {
		return nil, f.meetingErr
	}
	return f.meetingType, nil
}

func (f *fakeBackend) FetchAvailableSlots(ctx context.Context, meetingTypeID, date, tz string) (meetslot.AvailableSlots, error) {
	f.fetchCalls.Add(1)
	if f.slotsErr != nil {
		return meetslot.AvailableSlots{}, f.slotsErr
	}
	return f.slots, nil
}

func (f *fakeBackend) SubmitBooking(ctx context.Context, req meetslot.BookingRequest) (*meetslot.BookingConfirmation, error) {
	f.submitCalls.Add(1)
	f.submitted = append(f.submitted, req)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.confirmation, nil
}

type fakeCatalog struct {
	zones []meetslot.TimezoneEntry
	err   error
}

func (f *fakeCatalog) FetchTimezones(ctx context.Context) ([]meetslot.TimezoneEntry, error) {
	return f.zones, f.err
}

func activeMeetingType() *meetslot.MeetingType {
	return &meetslot.MeetingType{
		ID:              "mt-30min",
		Name:            "Intro Call",
		DurationMinutes: 30,
		IsActive:        true,
	}
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{zones: []meetslot.TimezoneEntry{
		{Value: "Asia/Kolkata", Label: "India Standard Time"},
		{Value: "America/New_York", Label: "Eastern Time"},
	}}
}

func newTestHandler(backend SchedulingBackend, catalog *fakeCatalog) http.Handler {
	return newTestHandlerWithStore(backend, catalog, wizard.NewMemoryStore())
}

func newTestHandlerWithStore(backend SchedulingBackend, catalog *fakeCatalog, store wizard.SessionStore) http.Handler {
	logger := logging.New("error", "development")
	resolver := timezone.NewResolver(catalog, "Asia/Kolkata", []string{"Asia/Kolkata"}, logger)
	h := NewSchedulingHandler(backend, resolver, store, nil, 60, logger)

	r := chi.NewRouter()
	r.Post("/api/sessions", h.CreateSession)
	r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/timezones/retry", h.RetryTimezones)
		r.Post("/date", h.SelectDate)
		r.Post("/timezone", h.ChangeTimezone)
		r.Post("/slot", h.SelectSlot)
		r.Post("/guest", h.SetGuest)
		r.Post("/advance", h.Advance)
		r.Post("/back", h.Back)
		r.Post("/confirm", h.Confirm)
	})
	return r
}

func doJSONRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) sessionView {
	t.Helper()
	var v sessionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, handler http.Handler) sessionView {
	t.Helper()
	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions",
		map[string]string{"meetingTypeId": "mt-30min"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeView(t, rec)
}

// tomorrow is always inside the booking horizon regardless of when the
// tests run.
func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func TestCreateSession(t *testing.T) {
	backend := &fakeBackend{meetingType: activeMeetingType()}
	handler := newTestHandler(backend, defaultCatalog())

	view := createSession(t, handler)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, wizard.StepSelectingDateTime, view.Step)
	assert.Equal(t, "Intro Call", view.MeetingType.Name)
	assert.Len(t, view.Timezones, 2)
	assert.False(t, view.TimezonesMissing)
	assert.NotEmpty(t, view.Timezone)
	assert.Equal(t, 60, view.HorizonDays)
}

func TestCreateSession_InactiveMeetingType(t *testing.T) {
	mt := activeMeetingType()
	mt.IsActive = false
	backend := &fakeBackend{meetingType: mt}
	handler := newTestHandler(backend, defaultCatalog())

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions",
		map[string]string{"meetingTypeId": "mt-30min"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no longer accepting bookings")
}

func TestCreateSession_MeetingTypeNotFound(t *testing.T) {
	backend := &fakeBackend{meetingErr: &meetslot.APIError{StatusCode: http.StatusNotFound, Message: "meeting not found"}}
	handler := newTestHandler(backend, defaultCatalog())

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions",
		map[string]string{"meetingTypeId": "nope"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "meeting not found")
}

func TestCreateSession_TimezoneCatalogDown(t *testing.T) {
	backend := &fakeBackend{meetingType: activeMeetingType()}
	catalog := &fakeCatalog{err: errors.New("connection refused")}
	handler := newTestHandler(backend, catalog)

	view := createSession(t, handler)

	// The session still opens: the missing catalog is flagged instead of
	// replaced with invented entries.
	assert.True(t, view.TimezonesMissing)
	assert.Empty(t, view.Timezones)

	// After the backend recovers, an explicit retry fills the catalog in.
	catalog.err = nil
	catalog.zones = defaultCatalog().zones
	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/timezones/retry", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	retried := decodeView(t, rec)
	assert.False(t, retried.TimezonesMissing)
	assert.Len(t, retried.Timezones, 2)
}

func TestSelectDate_FetchesSlots(t *testing.T) {
	backend := &fakeBackend{
		meetingType: activeMeetingType(),
		slots:       meetslot.AvailableSlots{Times: []string{"10:00", "10:30", "11:00"}},
	}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
		map[string]string{"date": tomorrow()})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeView(t, rec)
	assert.Equal(t, tomorrow(), updated.SelectedDate)
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, updated.Slots)
	assert.False(t, updated.SlotsEstimated)
	assert.Equal(t, int64(1), backend.fetchCalls.Load())
}

func TestSelectDate_EstimatedFallbackFlagged(t *testing.T) {
	backend := &fakeBackend{
		meetingType: activeMeetingType(),
		slots:       meetslot.AvailableSlots{Times: meetslot.FallbackSlots(), Estimated: true},
	}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
		map[string]string{"date": tomorrow()})

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeView(t, rec)
	assert.True(t, updated.SlotsEstimated)
	assert.Len(t, updated.Slots, 14)
}

func TestSelectDate_OutOfHorizonRejected(t *testing.T) {
	backend := &fakeBackend{meetingType: activeMeetingType()}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	past := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	farOut := time.Now().AddDate(0, 0, 90).Format("2006-01-02")

	for _, d := range []string{past, farOut} {
		rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
			map[string]string{"date": d})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, d)
	}
	assert.Equal(t, int64(0), backend.fetchCalls.Load())
}

func TestSelectDate_BadFormatRejected(t *testing.T) {
	backend := &fakeBackend{meetingType: activeMeetingType()}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
		map[string]string{"date": "next tuesday"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestChangeTimezone_NoDateNoFetch(t *testing.T) {
	backend := &fakeBackend{meetingType: activeMeetingType()}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/timezone",
		map[string]string{"timezone": "America/New_York"})

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeView(t, rec)
	assert.Equal(t, "America/New_York", updated.Timezone)
	assert.Equal(t, int64(0), backend.fetchCalls.Load())
}

func TestChangeTimezone_WithDateRefetches(t *testing.T) {
	backend := &fakeBackend{
		meetingType: activeMeetingType(),
		slots:       meetslot.AvailableSlots{Times: []string{"10:00"}},
	}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
		map[string]string{"date": tomorrow()})
	require.Equal(t, http.StatusOK, rec.Code)

	backend.slots = meetslot.AvailableSlots{Times: []string{"15:00", "15:30"}}
	rec = doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/timezone",
		map[string]string{"timezone": "America/New_York"})

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeView(t, rec)
	assert.Equal(t, []string{"15:00", "15:30"}, updated.Slots)
	assert.Equal(t, int64(2), backend.fetchCalls.Load())
}

// slowFetchBackend lets a test script each availability fetch, including
// holding one open while other requests proceed.
type slowFetchBackend struct {
	meetingType *meetslot.MeetingType
	fetch       func(date, tz string) meetslot.AvailableSlots
}

func (b *slowFetchBackend) GetPublicMeetingType(ctx context.Context, meetingTypeID string) (*meetslot.MeetingType, error) {
	return b.meetingType, nil
}

func (b *slowFetchBackend) FetchAvailableSlots(ctx context.Context, meetingTypeID, date, tz string) (meetslot.AvailableSlots, error) {
	return b.fetch(date, tz), nil
}

func (b *slowFetchBackend) SubmitBooking(ctx context.Context, req meetslot.BookingRequest) (*meetslot.BookingConfirmation, error) {
	return nil, errors.New("unexpected submission")
}

// raceStore forces the first two session loads after arming to observe the
// same persisted snapshot, then serializes the saves that follow so the
// interleaving under test is deterministic.
type raceStore struct {
	wizard.SessionStore

	armed   atomic.Bool
	loads   atomic.Int64
	barrier sync.WaitGroup

	firstDate  string
	firstSaved chan struct{}
	saveOnce   sync.Once
}

func (st *raceStore) Load(ctx context.Context, id string) (*wizard.Session, error) {
	s, err := st.SessionStore.Load(ctx, id)
	if err == nil && st.armed.Load() && st.loads.Add(1) <= 2 {
		st.barrier.Done()
		st.barrier.Wait()
	}
	return s, err
}

func (st *raceStore) Save(ctx context.Context, s *wizard.Session) error {
	if st.armed.Load() && s.SelectedDate != st.firstDate {
		<-st.firstSaved
	}
	err := st.SessionStore.Save(ctx, s)
	if st.armed.Load() && s.SelectedDate == st.firstDate {
		st.saveOnce.Do(func() { close(st.firstSaved) })
	}
	return err
}

func TestSelectDate_OverlappingDoubleFireKeepsLatestSelection(t *testing.T) {
	staleDate := tomorrow()
	freshDate := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	release := make(chan struct{})
	backend := &slowFetchBackend{
		meetingType: activeMeetingType(),
		fetch: func(date, tz string) meetslot.AvailableSlots {
			if date == staleDate {
				<-release
				return meetslot.AvailableSlots{Times: []string{"09:00"}}
			}
			return meetslot.AvailableSlots{Times: []string{"14:00", "14:30"}}
		},
	}
	store := &raceStore{
		SessionStore: wizard.NewMemoryStore(),
		firstDate:    staleDate,
		firstSaved:   make(chan struct{}),
	}
	store.barrier.Add(2)
	handler := newTestHandlerWithStore(backend, defaultCatalog(), store)
	view := createSession(t, handler)
	store.armed.Store(true)

	// A double-fired date click: both requests read the session before
	// either writes it back, so both carry the same fetch token. The
	// request for the later date finishes first; the other fetch resolves
	// only after it.
	var (
		wg                 sync.WaitGroup
		staleRec, freshRec *httptest.ResponseRecorder
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		staleRec = doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
			map[string]string{"date": staleDate})
	}()
	go func() {
		defer wg.Done()
		freshRec = doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
			map[string]string{"date": freshDate})
		close(release)
	}()
	wg.Wait()

	require.Equal(t, http.StatusOK, freshRec.Code, freshRec.Body.String())
	fresh := decodeView(t, freshRec)
	assert.Equal(t, freshDate, fresh.SelectedDate)
	assert.Equal(t, []string{"14:00", "14:30"}, fresh.Slots)

	require.Equal(t, http.StatusOK, staleRec.Code, staleRec.Body.String())

	// The slower fetch must not install its slots into the session the
	// later selection now owns.
	rec := doJSONRequest(t, handler, http.MethodGet, "/api/sessions/"+view.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	final := decodeView(t, rec)
	assert.Equal(t, freshDate, final.SelectedDate)
	assert.Equal(t, []string{"14:00", "14:30"}, final.Slots)
}

func TestSelectDate_SupersededFetchDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &slowFetchBackend{
		meetingType: activeMeetingType(),
		fetch: func(date, tz string) meetslot.AvailableSlots {
			if tz == "Asia/Kolkata" {
				close(started)
				<-release
				return meetslot.AvailableSlots{Times: []string{"09:00"}}
			}
			return meetslot.AvailableSlots{Times: []string{"18:30", "19:00"}}
		},
	}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	var (
		wg      sync.WaitGroup
		dateRec *httptest.ResponseRecorder
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		dateRec = doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
			map[string]string{"date": tomorrow()})
	}()

	// The timezone change lands while the first availability fetch is
	// still in flight, superseding its token.
	<-started
	tzRec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/timezone",
		map[string]string{"timezone": "America/New_York"})
	close(release)
	wg.Wait()

	require.Equal(t, http.StatusOK, tzRec.Code, tzRec.Body.String())
	assert.Equal(t, []string{"18:30", "19:00"}, decodeView(t, tzRec).Slots)

	// The superseded request still answers 200, rendering the fresher
	// state instead of its own result.
	require.Equal(t, http.StatusOK, dateRec.Code, dateRec.Body.String())
	stale := decodeView(t, dateRec)
	assert.Equal(t, "America/New_York", stale.Timezone)
	assert.Equal(t, []string{"18:30", "19:00"}, stale.Slots)

	rec := doJSONRequest(t, handler, http.MethodGet, "/api/sessions/"+view.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"18:30", "19:00"}, decodeView(t, rec).Slots)
}

func TestAdvance_GatedUntilSlotSelected(t *testing.T) {
	backend := &fakeBackend{
		meetingType: activeMeetingType(),
		slots:       meetslot.AvailableSlots{Times: []string{"10:00"}},
	}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/advance", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
		map[string]string{"date": tomorrow()})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/slot",
		map[string]string{"time": "10:00"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wizard.StepEnteringDetails, decodeView(t, rec).Step)
}

func TestBack_PreservesSelection(t *testing.T) {
	backend := &fakeBackend{
		meetingType: activeMeetingType(),
		slots:       meetslot.AvailableSlots{Times: []string{"10:00"}},
	}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/date",
		map[string]string{"date": tomorrow()})
	doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/slot",
		map[string]string{"time": "10:00"})
	doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/advance", nil)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeView(t, rec)
	assert.Equal(t, wizard.StepSelectingDateTime, updated.Step)
	assert.Equal(t, tomorrow(), updated.SelectedDate)
	assert.Equal(t, "10:00", updated.SelectedSlot)
}

func TestBack_FromInitialStepConflicts(t *testing.T) {
	backend := &fakeBackend{meetingType: activeMeetingType()}
	handler := newTestHandler(backend, defaultCatalog())
	view := createSession(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/back", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// walkToConfirm drives a fresh session through a complete valid selection up
// to the confirmation step.
func walkToConfirm(t *testing.T, handler http.Handler) sessionView {
	t.Helper()
	view := createSession(t, handler)
	steps := []struct {
		path string
		body interface{}
	}{
		{"/date", map[string]string{"date": tomorrow()}},
		{"/slot", map[string]string{"time": "10:00"}},
		{"/advance", nil},
		{"/guest", meetslot.GuestInfo{Name: "Priya Sharma", Email: "priya@example.com"}},
		{"/advance", nil},
	}
	for _, step := range steps {
		rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+step.path, step.body)
		require.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("%s: %s", step.path, rec.Body.String()))
		view = decodeView(t, rec)
	}
	require.Equal(t, wizard.StepConfirming, view.Step)
	return view
}

func TestConfirm_FullFlow(t *testing.T) {
	backend := &fakeBackend{
		meetingType:  activeMeetingType(),
		slots:        meetslot.AvailableSlots{Times: []string{"10:00", "10:30"}},
		confirmation: &meetslot.BookingConfirmation{ID: "bk-991", Status: "confirmed"},
	}
	handler := newTestHandler(backend, defaultCatalog())
	view := walkToConfirm(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/confirm", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	final := decodeView(t, rec)
	assert.Equal(t, wizard.StepSubmitted, final.Step)
	assert.Equal(t, "bk-991", final.BookingID)

	require.Len(t, backend.submitted, 1)
	req := backend.submitted[0]
	assert.Equal(t, "mt-30min", req.MeetingTypeID)
	assert.Equal(t, tomorrow(), req.Date)
	assert.Equal(t, "10:00", req.Time)
	assert.Equal(t, "priya@example.com", req.GuestInfo.Email)
	assert.NotEmpty(t, req.IdempotencyKey)
}

func TestConfirm_FailureSurfacedVerbatimAndRetryable(t *testing.T) {
	backend := &fakeBackend{
		meetingType:  activeMeetingType(),
		slots:        meetslot.AvailableSlots{Times: []string{"10:00"}},
		submitErr:    &meetslot.APIError{StatusCode: http.StatusConflict, Message: "This slot was just booked by someone else"},
		confirmation: &meetslot.BookingConfirmation{ID: "bk-2"},
	}
	handler := newTestHandler(backend, defaultCatalog())
	view := walkToConfirm(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	failed := decodeView(t, rec)
	assert.Equal(t, wizard.StepFailed, failed.Step)
	assert.Equal(t, "This slot was just booked by someone else", failed.FailureReason)

	// Retry succeeds and reuses the idempotency key from the first attempt.
	backend.submitErr = nil
	rec = doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wizard.StepSubmitted, decodeView(t, rec).Step)

	require.Len(t, backend.submitted, 2)
	assert.Equal(t, backend.submitted[0].IdempotencyKey, backend.submitted[1].IdempotencyKey)
}

func TestConfirm_ConnectivityFailureUsesGenericMessage(t *testing.T) {
	backend := &fakeBackend{
		meetingType: activeMeetingType(),
		slots:       meetslot.AvailableSlots{Times: []string{"10:00"}},
		submitErr:   errors.New("dial tcp: connection refused"),
	}
	handler := newTestHandler(backend, defaultCatalog())
	view := walkToConfirm(t, handler)

	rec := doJSONRequest(t, handler, http.MethodPost, "/api/sessions/"+view.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	failed := decodeView(t, rec)
	assert.Equal(t, wizard.StepFailed, failed.Step)
	assert.Equal(t, "could not reach the scheduling service, please try again", failed.FailureReason)
	assert.NotContains(t, failed.FailureReason, "dial tcp")
}

func TestSessionNotFound(t *testing.T) {
	backend := &fakeBackend{meetingType: activeMeetingType()}
	handler := newTestHandler(backend, defaultCatalog())

	rec := doJSONRequest(t, handler, http.MethodGet, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
