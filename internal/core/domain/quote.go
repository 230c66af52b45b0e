package domain

// QuoteInput is the snapshot of pricing-relevant draft fields a quote was
// computed for. It is comparable so the orchestrator can refuse to submit
// a capture against an input set that no longer matches the draft.
type QuoteInput struct {
	VenueID      string       `json:"venue_id"`
	Type         ActivityType `json:"type"`
	Participants int          `json:"participants"`
	Area         Area         `json:"area"`
	Quantity     int          `json:"quantity"`
	EventSubType EventSubType `json:"event_sub_type"`
	Locale       string       `json:"locale"`
}

// PricingInput derives the quote input from the draft's current state.
func (d *BookingDraft) PricingInput(venueID, locale string) QuoteInput {
	return QuoteInput{
		VenueID:      venueID,
		Type:         d.Type,
		Participants: d.Participants,
		Area:         d.Area(),
		Quantity:     d.Quantity(),
		EventSubType: d.EventSubType(),
		Locale:       locale,
	}
}

// DepositQuote is the server-computed price and required deposit.
// Amount is always <= Total; zero means no payment collection is needed.
type DepositQuote struct {
	Amount      int     `json:"amount"`
	Total       float64 `json:"total"`
	UnitPrice   float64 `json:"unit_price"`
	RoomPrice   float64 `json:"room_price"`
	RoomName    string  `json:"room_name"`
	Breakdown   string  `json:"breakdown"`
	Explanation string  `json:"explanation"`
}
