package dataset

import (
	"encoding/json"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"

	"stayscout/internal/domain"
)

type offeringRow struct {
	ID      int64  `csv:"id"`
	Name    string `csv:"name"`
	Address string `csv:"address"`
}

type offeringAddress struct {
	Locality      string `json:"locality"`
	Region        string `json:"region"`
	StreetAddress string `json:"street-address"`
	PostalCode    string `json:"postal-code"`
}

// LoadOfferings reads the offerings CSV. The address cell is a
// python-literal dict; unparseable cells degrade to empty fields. Rows
// without a street address or postal code are dropped before they reach
// the matcher.
func LoadOfferings(path string) ([]domain.Offering, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []offeringRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Offering, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		var addr offeringAddress
		if raw, ok := pyLiteralToJSON(row.Address); ok {
			_ = json.Unmarshal(raw, &addr)
		}
		if addr.StreetAddress == "" || addr.PostalCode == "" {
			dropped++
			continue
		}
		out = append(out, domain.Offering{
			ID:            row.ID,
			Name:          row.Name,
			StreetAddress: addr.StreetAddress,
			PostalCode:    addr.PostalCode,
			Locality:      addr.Locality,
			Region:        addr.Region,
		})
	}
	log.Info().
		Str("path", path).
		Int("loaded", len(out)).
		Int("dropped", dropped).
		Msg("offerings loaded")
	return out, nil
}

// Localities returns the distinct localities in first-seen order.
func Localities(offerings []domain.Offering) []string {
	seen := make(map[string]struct{}, 32)
	out := make([]string, 0, 32)
	for _, o := range offerings {
		if o.Locality == "" {
			continue
		}
		if _, ok := seen[o.Locality]; ok {
			continue
		}
		seen[o.Locality] = struct{}{}
		out = append(out, o.Locality)
	}
	return out
}

// FilterLocality subsets offerings to one locality, preserving order.
func FilterLocality(offerings []domain.Offering, locality string) []domain.Offering {
	out := make([]domain.Offering, 0, len(offerings))
	for _, o := range offerings {
		if o.Locality == locality {
			out = append(out, o)
		}
	}
	return out
}
