package services

import (
	"strings"

	"github.com/activegames/reservation/internal/core/domain"
)

const mixedAreaAnnotation = "Mixed bundle requested: 1 laser round + 30 min active zone"

// buildSubmission normalizes a draft into the backend order payload:
// phone in international form and the mixed area mapped to laser, which
// is the backend-recognized area nearest the laser-led bundle, with the
// bundle spelled out in the note.
func buildSubmission(draft *domain.BookingDraft, venueID, source string) (domain.OrderSubmission, error) {
	phone, err := domain.NormalizePhone(draft.Phone)
	if err != nil {
		return domain.OrderSubmission{}, err
	}

	area := draft.Area()
	quantity := draft.Quantity()
	note := draft.Note

	if area == domain.AreaMixed {
		area = domain.AreaLaser
		quantity = 1

		if note != "" {
			note += "\n"
		}
		note += mixedAreaAnnotation
	}

	sub := domain.OrderSubmission{
		VenueID:      venueID,
		Type:         draft.Type,
		Area:         area,
		Quantity:     quantity,
		EventSubType: draft.EventSubType(),
		Date:         draft.Date,
		Time:         draft.Time,
		Participants: draft.Participants,
		FirstName:    strings.TrimSpace(draft.FirstName),
		LastName:     strings.TrimSpace(draft.LastName),
		Phone:        phone,
		Email:        strings.TrimSpace(draft.Email),
		Note:         note,
		Source:       source,
	}

	if draft.Event != nil {
		sub.CelebrantAge = draft.Event.CelebrantAge
	}

	return sub, nil
}
