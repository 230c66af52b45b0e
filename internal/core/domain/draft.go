package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type ActivityType string

const (
	ActivityGame  ActivityType = "game"
	ActivityEvent ActivityType = "event"
)

type Area string

const (
	AreaActive Area = "active"
	AreaLaser  Area = "laser"
	AreaMixed  Area = "mixed"
)

type EventSubType string

const (
	EventBirthday   EventSubType = "birthday"
	EventBarMitzvah EventSubType = "bar_mitzvah"
	EventCorporate  EventSubType = "corporate"
	EventParty      EventSubType = "party"
	EventOther      EventSubType = "other"
)

const (
	MinPlayersGame  = 1
	MinPlayersEvent = 15
	MaxPlayers      = 100

	// Active zone quantity is session minutes in half-hour increments,
	// starting at one hour.
	ActiveMinMinutes  = 60
	ActiveStepMinutes = 30

	DefaultActiveMinutes = 60
	DefaultLaserRounds   = 2

	// Mixed is a fixed bundle (one laser round plus a 30-minute active
	// block); its quantity value is not user-editable.
	MixedBundleQuantity = 1
)

type GameDetails struct {
	Area     Area `json:"area"`
	Quantity int  `json:"quantity"`
}

type EventDetails struct {
	SubType      EventSubType `json:"sub_type"`
	Area         Area         `json:"area"`
	Quantity     int          `json:"quantity"`
	CelebrantAge *int         `json:"celebrant_age,omitempty"`
}

// BookingDraft is the in-progress reservation record. The activity
// classification is a tagged union: exactly one of Game or Event is
// non-nil once a type has been chosen.
type BookingDraft struct {
	VenueName string `json:"venue_name"`
	VenueSlug string `json:"venue_slug"`

	Type  ActivityType  `json:"type,omitempty"`
	Game  *GameDetails  `json:"game,omitempty"`
	Event *EventDetails `json:"event,omitempty"`

	Participants int `json:"participants"`

	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM, half-hour slot

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Note      string `json:"note"`

	TermsAccepted bool `json:"terms_accepted"`
}

func (d *BookingDraft) SelectVenue(name, slug string) {
	d.VenueName = name
	d.VenueSlug = slug
}

// SelectType switches the activity classification. Participant count and
// the area branch are reset: their meaning depends on the type.
func (d *BookingDraft) SelectType(t ActivityType) error {
	if t != ActivityGame && t != ActivityEvent {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown activity type %q", t)}
	}

	if d.Type == t {
		return nil
	}

	d.Type = t
	d.Participants = 0

	switch t {
	case ActivityGame:
		d.Game = &GameDetails{}
		d.Event = nil
	case ActivityEvent:
		d.Event = &EventDetails{}
		d.Game = nil
	}

	return nil
}

func (d *BookingDraft) SetParticipants(n int) error {
	min := d.MinParticipants()

	if n < min {
		return &ValidationError{Field: "participants", Message: fmt.Sprintf("minimum %d participants", min)}
	}

	if n > MaxPlayers {
		return &ValidationError{Field: "participants", Message: fmt.Sprintf("maximum %d participants", MaxPlayers)}
	}

	d.Participants = n

	return nil
}

func (d *BookingDraft) MinParticipants() int {
	if d.Type == ActivityEvent {
		return MinPlayersEvent
	}

	return MinPlayersGame
}

// SelectArea sets the sub-type/area and resets the quantity to the new
// area's default, keeping the quantity dimension consistent with the area.
func (d *BookingDraft) SelectArea(a Area) error {
	if a != AreaActive && a != AreaLaser && a != AreaMixed {
		return &ValidationError{Field: "area", Message: fmt.Sprintf("unknown area %q", a)}
	}

	switch {
	case d.Game != nil:
		d.Game.Area = a
		d.Game.Quantity = DefaultQuantity(a)
	case d.Event != nil:
		d.Event.Area = a
		d.Event.Quantity = DefaultQuantity(a)
	default:
		return errors.New("select an activity type before an area")
	}

	return nil
}

func (d *BookingDraft) SetQuantity(q int) error {
	area := d.Area()

	switch area {
	case AreaActive:
		if q < ActiveMinMinutes || q%ActiveStepMinutes != 0 {
			return &ValidationError{Field: "quantity", Message: "active sessions run in 30-minute increments starting at one hour"}
		}
	case AreaLaser:
		if q < 1 {
			return &ValidationError{Field: "quantity", Message: "at least one laser round"}
		}
	case AreaMixed:
		return &ValidationError{Field: "quantity", Message: "the mixed bundle has a fixed quantity"}
	default:
		return errors.New("select an area before a quantity")
	}

	if d.Game != nil {
		d.Game.Quantity = q
	} else if d.Event != nil {
		d.Event.Quantity = q
	}

	return nil
}

func DefaultQuantity(a Area) int {
	switch a {
	case AreaActive:
		return DefaultActiveMinutes
	case AreaLaser:
		return DefaultLaserRounds
	case AreaMixed:
		return MixedBundleQuantity
	}

	return 0
}

func (d *BookingDraft) Area() Area {
	if d.Game != nil {
		return d.Game.Area
	}

	if d.Event != nil {
		return d.Event.Area
	}

	return ""
}

func (d *BookingDraft) Quantity() int {
	if d.Game != nil {
		return d.Game.Quantity
	}

	if d.Event != nil {
		return d.Event.Quantity
	}

	return 0
}

func (d *BookingDraft) EventSubType() EventSubType {
	if d.Event != nil {
		return d.Event.SubType
	}

	return ""
}

func (d *BookingDraft) SetEventSubType(s EventSubType) error {
	if d.Event == nil {
		return errors.New("event sub-type applies to event bookings only")
	}

	d.Event.SubType = s

	return nil
}

func (d *BookingDraft) SetCelebrantAge(age *int) error {
	if d.Event == nil {
		return errors.New("celebrant age applies to event bookings only")
	}

	d.Event.CelebrantAge = age

	return nil
}

// AreaChosen reports whether the area step is complete: a chosen area for
// games, area plus event sub-type for events.
func (d *BookingDraft) AreaChosen() bool {
	switch {
	case d.Game != nil:
		return d.Game.Area != ""
	case d.Event != nil:
		return d.Event.Area != "" && d.Event.SubType != ""
	}

	return false
}

var mobilePattern = regexp.MustCompile(`^05\d{8}$`)

func stripPhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
}

// ValidPhone checks the pre-normalization regional mobile format,
// tolerating separators.
func ValidPhone(phone string) bool {
	return mobilePattern.MatchString(stripPhone(phone))
}

// NormalizePhone converts a valid local mobile number to its
// international form. The normalized form is what gets submitted.
func NormalizePhone(phone string) (string, error) {
	stripped := stripPhone(phone)
	if !mobilePattern.MatchString(stripped) {
		return "", &ValidationError{Field: "phone", Message: "invalid mobile number"}
	}

	return "+972" + stripped[1:], nil
}

// ValidateContact gates the contact-info step. Email is required for
// event bookings only.
func (d *BookingDraft) ValidateContact() error {
	if strings.TrimSpace(d.FirstName) == "" {
		return &ValidationError{Field: "first_name", Message: "first name is required"}
	}

	if strings.TrimSpace(d.LastName) == "" {
		return &ValidationError{Field: "last_name", Message: "last name is required"}
	}

	if !ValidPhone(d.Phone) {
		return &ValidationError{Field: "phone", Message: "invalid mobile number"}
	}

	if d.Type == ActivityEvent {
		if strings.TrimSpace(d.Email) == "" {
			return &ValidationError{Field: "email", Message: "email is required for events"}
		}
	}

	if d.Email != "" && !strings.Contains(d.Email, "@") {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}

	return nil
}
