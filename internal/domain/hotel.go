package domain

import "encoding/json"

// Offering is a hotel candidate from the locally curated dataset.
// Rows without a street address or postal code are dropped at load time.
type Offering struct {
	ID            int64
	Name          string
	StreetAddress string
	PostalCode    string
	Locality      string
	Region        string
}

// ExternalHotel is a hotel candidate returned by the inventory API
// for a city query.
type ExternalHotel struct {
	HotelID     string
	Name        string
	AddressLine string
	PostalCode  string
}

// LinkedHotel pairs one Offering with at most one ExternalHotel.
// HotelID is empty when no candidate cleared the acceptance threshold;
// that is an expected outcome, not an error. Several offerings may claim
// the same external hotel — uniqueness is not enforced on the API side.
type LinkedHotel struct {
	Offering  Offering
	HotelID   string
	HotelName string
	Score     float64
}

// Linked reports whether the offering was matched to an external hotel.
func (l LinkedHotel) Linked() bool { return l.HotelID != "" }

// ScoredHotel is one entry of the scorer's response. Score stays raw so a
// malformed value ("bad", null, absent) never fails decoding; ScoreValue
// collapses those to 0 for ranking.
type ScoredHotel struct {
	HotelID   string          `json:"hotel_id"`
	Score     json.RawMessage `json:"score,omitempty"`
	KeyPoints []string        `json:"key_points,omitempty"`
}

// ScoreValue returns the numeric score, accepting either a JSON number or
// a number wrapped in a string. Anything else counts as 0.
func (s ScoredHotel) ScoreValue() float64 {
	if len(s.Score) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(s.Score, &f); err == nil {
		return f
	}
	var str string
	if err := json.Unmarshal(s.Score, &str); err == nil {
		if err := json.Unmarshal([]byte(str), &f); err == nil {
			return f
		}
	}
	return 0
}

// PriceQuote is the lowest available offer for one night.
type PriceQuote struct {
	Total    string  `json:"total"`
	Currency string  `json:"currency"`
	Value    float64 `json:"-"`
}

// RankedHotel is one row of the final top-K result, enriched with the
// resolved display name and, when available, the lowest nightly price.
type RankedHotel struct {
	HotelID   string      `json:"hotel_id"`
	Name      string      `json:"name"`
	Score     float64     `json:"score"`
	KeyPoints []string    `json:"key_points,omitempty"`
	Price     *PriceQuote `json:"price,omitempty"`
}
