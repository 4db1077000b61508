package dataset

import (
	"encoding/json"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"

	"stayscout/internal/domain"
)

type reviewRow struct {
	OfferingID int64  `csv:"offering_id"`
	Title      string `csv:"title"`
	Text       string `csv:"text"`
	Ratings    string `csv:"ratings"`
}

// LoadReviews reads the reviews CSV. The ratings cell (a python-literal
// category→value dict) is normalized to JSON when possible; otherwise the
// verbatim cell is carried as a JSON string so the scorer still sees it.
func LoadReviews(path string) ([]domain.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []reviewRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Review{
			OfferingID: row.OfferingID,
			Title:      row.Title,
			Text:       row.Text,
			Ratings:    ratingsJSON(row.Ratings),
		})
	}
	log.Info().Str("path", path).Int("loaded", len(out)).Msg("reviews loaded")
	return out, nil
}

func ratingsJSON(cell string) json.RawMessage {
	if cell == "" {
		return nil
	}
	if raw, ok := pyLiteralToJSON(cell); ok {
		return raw
	}
	b, err := json.Marshal(cell)
	if err != nil {
		return nil
	}
	return json.RawMessage(b)
}
