package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/activegames/reservation/internal/core/domain"
)

func TestMatchVenue(t *testing.T) {
	venues := []domain.Venue{
		{ID: "1", Slug: "rishon-lezion", Name: "Rishon LeZion"},
		{ID: "2", Slug: "tel-aviv", Name: "Tel Aviv"},
	}

	t.Run("slug match wins", func(t *testing.T) {
		venue, err := domain.MatchVenue(venues, "tel-aviv", "Rishon LeZion")
		assert.NoError(t, err)
		assert.Equal(t, "2", venue.ID)
	})

	t.Run("name fallback folds case and whitespace", func(t *testing.T) {
		venue, err := domain.MatchVenue(venues, "", "  rishon   LEZION ")
		assert.NoError(t, err)
		assert.Equal(t, "1", venue.ID)
	})

	t.Run("unknown venue", func(t *testing.T) {
		_, err := domain.MatchVenue(venues, "haifa", "Haifa")
		assert.ErrorIs(t, err, domain.ErrVenueNotFound)
	})

	t.Run("empty draft fields", func(t *testing.T) {
		_, err := domain.MatchVenue(venues, "", "")
		assert.ErrorIs(t, err, domain.ErrVenueNotFound)
	})
}
