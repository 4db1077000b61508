package app_test

import (
	"encoding/json"
	"testing"

	"stayscout/internal/app"
	"stayscout/internal/domain"
)

func scoredWith(id string, rawScore string) domain.ScoredHotel {
	s := domain.ScoredHotel{HotelID: id}
	if rawScore != "" {
		s.Score = json.RawMessage(rawScore)
	}
	return s
}

func TestSelectTopK_OrderingAndTruncation(t *testing.T) {
	// scores 55.0, "bad", 90.0, null — malformed and missing rank as 0,
	// stable for the two zeros
	in := []domain.ScoredHotel{
		scoredWith("A", "55.0"),
		scoredWith("B", `"bad"`),
		scoredWith("C", "90.0"),
		scoredWith("D", "null"),
	}

	got := app.SelectTopK(in, 10)
	wantOrder := []string{"C", "A", "B", "D"}
	for i, id := range wantOrder {
		if got[i].HotelID != id {
			t.Fatalf("position %d = %s, want %s (full: %+v)", i, got[i].HotelID, id, got)
		}
	}

	top2 := app.SelectTopK(in, 2)
	if len(top2) != 2 || top2[0].HotelID != "C" || top2[1].HotelID != "A" {
		t.Fatalf("top-2 = %+v, want [C A]", top2)
	}

	// input must not be reordered in place
	if in[0].HotelID != "A" {
		t.Fatal("SelectTopK mutated its input")
	}
}

func TestSelectTopK_Empty(t *testing.T) {
	if got := app.SelectTopK(nil, 10); len(got) != 0 {
		t.Fatalf("empty input must yield empty ranking, got %+v", got)
	}
}

func TestJoinResults_NameLookupWithFallback(t *testing.T) {
	links := []domain.LinkedHotel{
		{Offering: domain.Offering{ID: 1}, HotelID: "H1", HotelName: "The Grand Hotel"},
	}
	top := []domain.ScoredHotel{
		scoredWith("H1", "91.25"),
		scoredWith("GHOST", "80.0"), // no link carries this ID
	}
	got := app.JoinResults(top, links)
	if got[0].Name != "The Grand Hotel" || got[0].Score != 91.25 {
		t.Fatalf("unexpected joined row: %+v", got[0])
	}
	if got[1].Name != "GHOST" {
		t.Fatalf("unknown IDs must fall back to the identifier, got %q", got[1].Name)
	}
}

func TestAttachPrices(t *testing.T) {
	results := []domain.RankedHotel{{HotelID: "H1"}, {HotelID: "H2"}}
	app.AttachPrices(results, map[string]domain.PriceQuote{
		"H1": {Total: "129.00", Currency: "USD", Value: 129},
	})
	if results[0].Price == nil || results[0].Price.Total != "129.00" {
		t.Fatalf("H1 should carry its quote, got %+v", results[0].Price)
	}
	if results[1].Price != nil {
		t.Fatal("H2 has no quote and must stay bare")
	}
}

func TestScoreValue(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"90.5", 90.5},
		{`"77.25"`, 77.25},
		{`"bad"`, 0},
		{"null", 0},
		{"", 0},
	}
	for _, c := range cases {
		s := scoredWith("X", c.raw)
		if got := s.ScoreValue(); got != c.want {
			t.Fatalf("ScoreValue(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}
