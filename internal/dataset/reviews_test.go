package dataset_test

import (
	"encoding/json"
	"testing"

	"stayscout/internal/dataset"
)

const reviewsCSV = `offering_id,title,text,ratings
1,Great stay,Loved the rooftop bar.,"{'service': 5.0, 'cleanliness': 4.0, 'overall': 5.0}"
1,Quiet rooms,Slept well.,"{'overall': None}"
2,Won't return,The elevator was broken.,"{'overall': 2.0, 'note': 'don't bother'}"
2,,,
`

func TestLoadReviews(t *testing.T) {
	path := writeCSV(t, "reviews.csv", reviewsCSV)

	got, err := dataset.LoadReviews(path)
	if err != nil {
		t.Fatalf("LoadReviews: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 reviews, got %d", len(got))
	}

	// well-formed python dict becomes a JSON object
	var ratings map[string]any
	if err := json.Unmarshal(got[0].Ratings, &ratings); err != nil {
		t.Fatalf("ratings not valid JSON: %v (%s)", err, got[0].Ratings)
	}
	if ratings["overall"] != 5.0 {
		t.Fatalf("ratings = %v", ratings)
	}

	// None maps to null
	var withNull map[string]any
	if err := json.Unmarshal(got[1].Ratings, &withNull); err != nil {
		t.Fatalf("ratings with None: %v (%s)", err, got[1].Ratings)
	}
	if v, ok := withNull["overall"]; !ok || v != nil {
		t.Fatalf("None should become null, got %v", withNull)
	}

	// an apostrophe inside a value breaks the naive rewrite; the verbatim
	// cell is carried as a JSON string instead
	var asString string
	if err := json.Unmarshal(got[2].Ratings, &asString); err != nil {
		t.Fatalf("unparseable cell should degrade to a JSON string: %v (%s)", err, got[2].Ratings)
	}
	if asString == "" {
		t.Fatal("degraded cell must keep the original text")
	}

	// empty cell carries no ratings
	if got[3].Ratings != nil {
		t.Fatalf("empty cell should yield nil ratings, got %s", got[3].Ratings)
	}
}
