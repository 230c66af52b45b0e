package domain

import "strings"

type Venue struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func foldName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// MatchVenue resolves the draft's stored venue against the authoritative
// catalog: slug match first, then case/whitespace-insensitive name match.
func MatchVenue(venues []Venue, slug, name string) (*Venue, error) {
	for i := range venues {
		if slug != "" && venues[i].Slug == slug {
			return &venues[i], nil
		}
	}

	folded := foldName(name)
	if folded != "" {
		for i := range venues {
			if foldName(venues[i].Name) == folded {
				return &venues[i], nil
			}
		}
	}

	return nil, ErrVenueNotFound
}
