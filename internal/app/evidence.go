package app

import (
	"math/rand"

	"stayscout/internal/domain"
)

// MaxEvidencePerHotel bounds the review payload sent to the scorer for a
// single hotel.
const MaxEvidencePerHotel = 10

// EvidenceBuilder assembles per-hotel review evidence for linked hotels.
// The random source is injected so sampling is deterministic under a fixed
// seed; an unseeded source would make runs non-reproducible.
type EvidenceBuilder struct {
	rng *rand.Rand
	max int
}

func NewEvidenceBuilder(rng *rand.Rand) *EvidenceBuilder {
	return &EvidenceBuilder{rng: rng, max: MaxEvidencePerHotel}
}

// Build returns one ReviewEvidence per linked hotel (unlinked entries are
// skipped), preserving link order. Reviews are grouped by the offering's
// original ID; when a hotel has more than the per-hotel cap, a uniform
// sample without replacement of exactly the cap is drawn.
func (b *EvidenceBuilder) Build(links []domain.LinkedHotel, reviews []domain.Review) []domain.ReviewEvidence {
	byOffering := make(map[int64][]domain.Review, len(links))
	for _, r := range reviews {
		byOffering[r.OfferingID] = append(byOffering[r.OfferingID], r)
	}

	out := make([]domain.ReviewEvidence, 0, len(links))
	for _, l := range links {
		if !l.Linked() {
			continue
		}
		items := make([]domain.EvidenceItem, 0, b.max)
		for _, r := range byOffering[l.Offering.ID] {
			it := domain.EvidenceItem{Title: r.Title, Text: r.Text, Rating: r.Ratings}
			if it.Empty() {
				continue
			}
			items = append(items, it)
		}
		if len(items) > b.max {
			items = b.sample(items)
		}
		out = append(out, domain.ReviewEvidence{HotelID: l.HotelID, Reviews: items})
	}
	return out
}

func (b *EvidenceBuilder) sample(items []domain.EvidenceItem) []domain.EvidenceItem {
	picked := make([]domain.EvidenceItem, 0, b.max)
	for _, idx := range b.rng.Perm(len(items))[:b.max] {
		picked = append(picked, items[idx])
	}
	return picked
}
