package domain

import "strings"

// CardInput exists only for the duration of one capture call. It is never
// persisted or logged by this layer.
type CardInput struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"` // entered MM/YY, submitted as 4 digits
	CVV        string `json:"cvv"`
	HolderID   string `json:"holder_id"`
	HolderName string `json:"holder_name,omitempty"`
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Validate applies this surface's client-side bounds before a capture is
// attempted. The administrative payment surface carries its own, slightly
// different bounds; the two are deliberately not unified.
func (c CardInput) Validate() error {
	number := digitsOnly(c.Number)
	if len(number) < 13 || len(number) > 19 {
		return &ValidationError{Field: "card_number", Message: "card number must be 13-19 digits"}
	}

	if len(digitsOnly(c.Expiry)) != 4 {
		return &ValidationError{Field: "card_expiry", Message: "expiry must be 4 digits (MM/YY)"}
	}

	cvv := digitsOnly(c.CVV)
	if len(cvv) < 3 || len(cvv) > 4 {
		return &ValidationError{Field: "card_cvv", Message: "cvv must be 3-4 digits"}
	}

	if len(digitsOnly(c.HolderID)) < 7 {
		return &ValidationError{Field: "card_holder_id", Message: "holder id must be at least 7 digits"}
	}

	return nil
}

// Normalized returns a copy with separators stripped from the numeric
// fields, ready for the capture call.
func (c CardInput) Normalized() CardInput {
	return CardInput{
		Number:     digitsOnly(c.Number),
		Expiry:     digitsOnly(c.Expiry),
		CVV:        digitsOnly(c.CVV),
		HolderID:   digitsOnly(c.HolderID),
		HolderName: strings.TrimSpace(c.HolderName),
	}
}
