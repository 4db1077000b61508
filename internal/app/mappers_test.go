package app_test

import (
	"testing"

	"stayscout/internal/app"
)

func TestMapHotels_AliasShapes(t *testing.T) {
	in := []map[string]any{
		{
			"hotelId": "GRHNYC",
			"name":    map[string]any{"text": "The Grand Hotel"},
			"address": map[string]any{
				"lines":      []any{"123 Main Street", "Floor 2"},
				"postalCode": "10001",
			},
		},
		{
			"hotel_id":       float64(42),
			"hotel_name":     "City Inn",
			"street_address": "456 Elm Street",
			"postal_code":    "10002",
		},
		{
			// no identifier anywhere, must be dropped
			"name": "Ghost Hotel",
		},
	}

	got := app.MapHotels(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 hotels (one dropped), got %d", len(got))
	}
	if got[0].HotelID != "GRHNYC" || got[0].Name != "The Grand Hotel" ||
		got[0].AddressLine != "123 Main Street" || got[0].PostalCode != "10001" {
		t.Fatalf("nested payload mapped wrong: %+v", got[0])
	}
	if got[1].HotelID != "42" || got[1].Name != "City Inn" ||
		got[1].AddressLine != "456 Elm Street" || got[1].PostalCode != "10002" {
		t.Fatalf("flat payload mapped wrong: %+v", got[1])
	}
}

func TestMapHotels_MissingFieldsDegrade(t *testing.T) {
	got := app.MapHotels([]map[string]any{{"hotelId": "BARE"}})
	if len(got) != 1 {
		t.Fatalf("expected the bare hotel kept, got %d", len(got))
	}
	h := got[0]
	if h.Name != "" || h.AddressLine != "" || h.PostalCode != "" {
		t.Fatalf("missing fields must degrade to empty, got %+v", h)
	}
}

func TestResolveCityCode(t *testing.T) {
	cities := []map[string]any{
		{"iataCode": "nyc", "address": map[string]any{"stateCode": "NY"}},
		{"iataCode": "EWR", "address": map[string]any{"stateCode": "NJ"}},
	}

	if got := app.ResolveCityCode(cities, "Newark", "NJ"); got != "EWR" {
		t.Fatalf("region match should win, got %s", got)
	}
	if got := app.ResolveCityCode(cities, "New York City", "CA"); got != "NYC" {
		t.Fatalf("no region match should take the first code uppercased, got %s", got)
	}
	if got := app.ResolveCityCode(nil, "New York City", "NY"); got != "NEW" {
		t.Fatalf("empty payload should derive a fallback code, got %s", got)
	}
}

func TestFallbackCityCode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"New York City", "NEW"},
		{"ab", "AB"},
		{"  3 rivers ", "RIV"},
		{"", ""},
	}
	for _, c := range cases {
		if got := app.FallbackCityCode(c.in); got != c.want {
			t.Fatalf("FallbackCityCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMapLowestOffers(t *testing.T) {
	in := []map[string]any{
		{
			"hotel": map[string]any{"hotelId": "H1"},
			"offers": []any{
				map[string]any{"price": map[string]any{"total": "199.00", "currency": "USD"}},
				map[string]any{"price": map[string]any{"total": "149.50", "currency": "USD"}},
				map[string]any{"price": map[string]any{"total": "not-a-price"}},
			},
		},
		{
			// no identifier, skipped entirely
			"offers": []any{map[string]any{"price": map[string]any{"total": "10.00"}}},
		},
	}

	got := app.MapLowestOffers(in)
	if len(got) != 1 {
		t.Fatalf("expected quotes for one hotel, got %d", len(got))
	}
	q, ok := got["H1"]
	if !ok || q.Total != "149.50" || q.Currency != "USD" || q.Value != 149.5 {
		t.Fatalf("cheapest offer should win, got %+v", q)
	}
}
