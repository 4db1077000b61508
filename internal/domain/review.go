package domain

import "encoding/json"

// Review is one row of the review dataset, keyed by the offering it
// belongs to. Ratings holds the category→value mapping as JSON when the
// source cell could be normalized, or a JSON string with the verbatim
// cell otherwise.
type Review struct {
	OfferingID int64
	Title      string
	Text       string
	Ratings    json.RawMessage
}

// EvidenceItem carries whichever of title/text/rating a review provides.
type EvidenceItem struct {
	Title  string          `json:"title,omitempty"`
	Text   string          `json:"text,omitempty"`
	Rating json.RawMessage `json:"rating,omitempty"`
}

// Empty reports whether the item carries no usable fields.
func (e EvidenceItem) Empty() bool {
	return e.Title == "" && e.Text == "" && len(e.Rating) == 0
}

// ReviewEvidence is the bounded review sample sent to the scorer for one
// linked hotel.
type ReviewEvidence struct {
	HotelID string         `json:"hotel_id"`
	Reviews []EvidenceItem `json:"reviews"`
}
