package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// InventoryClient is the travel-inventory API boundary. Payloads come back
// as raw maps; the app layer owns the flexible field extraction, since the
// provider is loose about shapes (name as string or {text}, address lines
// as an array, and so on).
type InventoryClient interface {
	Cities(ctx context.Context, keyword, countryCode string) ([]map[string]any, error)
	HotelsByCity(ctx context.Context, cityCode string, radiusMiles int) ([]map[string]any, error)
	HotelOffers(ctx context.Context, hotelIDs []string, checkIn, checkOut string, adults int) ([]map[string]any, error)
}

// PreferenceScorer scores one batch of review evidence against a free-text
// user query. Any structured-output-capable language model satisfies this;
// nothing outside the adapter may depend on a specific provider.
type PreferenceScorer interface {
	ScoreBatch(ctx context.Context, query string, batch []ReviewEvidence) ([]ScoredHotel, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Run is one persisted pipeline execution.
type Run struct {
	ID        int64
	Locality  string
	Query     string
	CreatedAt time.Time
}

type RunRepository interface {
	// Write paths
	InsertRun(ctx context.Context, r Run) (int64, error)
	InsertLinks(ctx context.Context, runID int64, links []LinkedHotel) error
	InsertResults(ctx context.Context, runID int64, results []RankedHotel) error

	// Read paths
	LatestRun(ctx context.Context) (Run, error)
	RunResults(ctx context.Context, runID int64) ([]RankedHotel, error)
}
