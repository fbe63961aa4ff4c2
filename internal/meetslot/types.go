package meetslot

// MeetingType is a bookable meeting template owned by a host user. The
// wizard fetches it once per session and treats it as read-only.
type MeetingType struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Description     string `json:"description,omitempty"`
	Color           string `json:"color,omitempty"`
	// AvailableDays holds weekday numbers 0 (Sunday) through 6 (Saturday).
	// Empty means every weekday is allowed.
	AvailableDays []int  `json:"availableDays,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
	IsActive      bool   `json:"isActive"`
}

// TimezoneEntry is one row of the backend's timezone catalog. Order is
// server-defined and preserved.
type TimezoneEntry struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// GuestInfo is the invitee's contact details collected by the wizard.
type GuestInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message,omitempty"`
}

// BookingRequest is the finalized submission payload. It is constructed only
// at confirm time and never partially submitted.
type BookingRequest struct {
	MeetingTypeID  string    `json:"-"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Timezone       string    `json:"timezone"`
	GuestInfo      GuestInfo `json:"guestInfo"`
	IdempotencyKey string    `json:"-"`
}

// BookingConfirmation is the backend's acknowledgement of a created booking.
type BookingConfirmation struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Timezone string `json:"timezone"`
	Status   string `json:"status,omitempty"`
}

// AvailableSlots is the normalized result of an availability lookup.
// Estimated is true when the static fallback list was substituted because
// the backend could not be reached.
type AvailableSlots struct {
	Times     []string `json:"times"`
	Estimated bool     `json:"estimated"`
}

// User is the authenticated account as reported by the backend.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthSession carries the backend-issued token for dashboard calls. The
// token is opaque to this client.
type AuthSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Booking is one row of a host's booking list on the dashboard.
type Booking struct {
	ID            string    `json:"id"`
	MeetingTypeID string    `json:"meetingTypeId"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Timezone      string    `json:"timezone"`
	GuestInfo     GuestInfo `json:"guestInfo"`
	Status        string    `json:"status,omitempty"`
}

// BookingPage is one page of the dashboard booking list.
type BookingPage struct {
	Bookings []Booking `json:"bookings"`
	Page     int       `json:"page"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"hasMore"`
}
