package app

import (
	"sort"

	"stayscout/internal/domain"
)

// DefaultTopK is how many hotels the final ranking keeps.
const DefaultTopK = 10

// SelectTopK orders scored hotels by descending score and truncates to k.
// Missing or non-numeric scores rank as 0; ties keep aggregate order
// (stable sort), which makes the selection deterministic for a fixed
// aggregate.
func SelectTopK(scored []domain.ScoredHotel, k int) []domain.ScoredHotel {
	out := make([]domain.ScoredHotel, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScoreValue() > out[j].ScoreValue()
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// JoinResults resolves each surviving scored hotel back to its display
// name by external-ID lookup over the link set. Identifiers with no known
// hotel fall back to showing the identifier itself.
func JoinResults(top []domain.ScoredHotel, links []domain.LinkedHotel) []domain.RankedHotel {
	names := make(map[string]string, len(links))
	for _, l := range links {
		if l.Linked() && l.HotelName != "" {
			names[l.HotelID] = l.HotelName
		}
	}
	out := make([]domain.RankedHotel, 0, len(top))
	for _, s := range top {
		name := names[s.HotelID]
		if name == "" {
			name = s.HotelID
		}
		out = append(out, domain.RankedHotel{
			HotelID:   s.HotelID,
			Name:      name,
			Score:     s.ScoreValue(),
			KeyPoints: s.KeyPoints,
		})
	}
	return out
}

// AttachPrices decorates ranked hotels with their lowest quote, when one
// exists. Hotels without a quote stay untouched.
func AttachPrices(results []domain.RankedHotel, quotes map[string]domain.PriceQuote) {
	for i := range results {
		if q, ok := quotes[results[i].HotelID]; ok {
			quote := q
			results[i].Price = &quote
		}
	}
}
