package app

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/rs/zerolog/log"

	"stayscout/internal/adapters/observability"
	"stayscout/internal/domain"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]`)

// Normalize canonicalizes a free-text field for comparison: lower-case,
// non-alphanumerics stripped (spaces kept), surrounding whitespace removed.
// Trimming happens after the strip: a leading or trailing symbol must not
// leave residual whitespace behind. Pure and idempotent; empty input
// yields "".
func Normalize(text string) string {
	return strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(text), ""))
}

// MatchWeights is the convex combination applied to the per-field
// similarities. The defaults favor the name, then the street address,
// with the postal code as a tie-nudger.
type MatchWeights struct {
	Name    float64
	Address float64
	Postal  float64
}

var DefaultMatchWeights = MatchWeights{Name: 0.5, Address: 0.4, Postal: 0.1}

// DefaultAcceptThreshold is the minimum combined score (0–100) for a
// candidate to be accepted as a link. The comparison is inclusive.
const DefaultAcceptThreshold = 80.0

// Matcher links offerings to external hotels with a greedy best-match per
// offering. It does not solve a global assignment: two offerings can claim
// the same external hotel.
type Matcher struct {
	weights   MatchWeights
	threshold float64

	// token-set fuzzy ratio over normalized text; swapped out in tests
	ratio func(a, b string) int
}

func NewMatcher() *Matcher {
	return &Matcher{
		weights:   DefaultMatchWeights,
		threshold: DefaultAcceptThreshold,
		ratio:     func(a, b string) int { return fuzzy.TokenSetRatio(a, b) },
	}
}

func (m *Matcher) accepts(total float64) bool { return total >= m.threshold }

type normHotel struct {
	hotel  domain.ExternalHotel
	name   string
	addr   string
	postal string
}

// Link resolves every offering against the candidate set and returns one
// LinkedHotel per offering, in input order. Offerings with no candidate at
// or above the threshold come back with an empty HotelID. Missing fields
// on either side degrade to comparison against "" and score naturally low.
func (m *Matcher) Link(offerings []domain.Offering, hotels []domain.ExternalHotel) []domain.LinkedHotel {
	normed := make([]normHotel, len(hotels))
	for i, h := range hotels {
		normed[i] = normHotel{
			hotel:  h,
			name:   Normalize(h.Name),
			addr:   Normalize(h.AddressLine),
			postal: Normalize(h.PostalCode),
		}
	}

	out := make([]domain.LinkedHotel, 0, len(offerings))
	claimed := make(map[string]int64, len(hotels))
	for _, o := range offerings {
		oName := Normalize(o.Name)
		oAddr := Normalize(o.StreetAddress)
		oPostal := Normalize(o.PostalCode)

		best := 0.0
		var bestHotel *normHotel
		for i := range normed {
			h := &normed[i]
			nameScore := float64(m.ratio(oName, h.name))
			addrScore := float64(m.ratio(oAddr, h.addr))
			postalScore := 0.0
			if oPostal != "" && oPostal == h.postal {
				postalScore = 100
			}
			total := m.weights.Name*nameScore + m.weights.Address*addrScore + m.weights.Postal*postalScore
			// strict > keeps the first candidate on ties
			if total > best {
				best = total
				bestHotel = h
			}
		}

		link := domain.LinkedHotel{Offering: o, Score: best}
		if bestHotel != nil && m.accepts(best) {
			link.HotelID = bestHotel.hotel.HotelID
			link.HotelName = bestHotel.hotel.Name
			if prev, ok := claimed[link.HotelID]; ok {
				log.Debug().
					Str("hotel_id", link.HotelID).
					Int64("offering_id", o.ID).
					Int64("also_claimed_by", prev).
					Msg("external hotel claimed by multiple offerings")
			}
			claimed[link.HotelID] = o.ID
			observability.ObserveMatch("linked")
		} else {
			observability.ObserveMatch("unlinked")
		}
		out = append(out, link)
	}
	return out
}

// LinkedOnly filters a link set down to the entries that carry an
// external hotel ID.
func LinkedOnly(links []domain.LinkedHotel) []domain.LinkedHotel {
	out := make([]domain.LinkedHotel, 0, len(links))
	for _, l := range links {
		if l.Linked() {
			out = append(out, l)
		}
	}
	return out
}
