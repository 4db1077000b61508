//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"stayscout/internal/domain"
	mysqlrepo "stayscout/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=stayscout",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/stayscout?parseTime=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunPersistenceRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	// idempotent: a second pass must not fail
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema (second pass): %v", err)
	}

	if _, err := repo.LatestRun(ctx); err != domain.ErrNotFound {
		t.Fatalf("empty table should report ErrNotFound, got %v", err)
	}

	runID, err := repo.InsertRun(ctx, domain.Run{Locality: "New York City", Query: "rooftop bar"})
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if runID == 0 {
		t.Fatal("InsertRun must return the generated id")
	}

	links := []domain.LinkedHotel{
		{
			Offering:  domain.Offering{ID: 1, Name: "Grand Hotel"},
			HotelID:   "GRHNYC",
			HotelName: "The Grand Hotel",
			Score:     88.4,
		},
		{Offering: domain.Offering{ID: 2, Name: "City Inn"}}, // unlinked
	}
	if err := repo.InsertLinks(ctx, runID, links); err != nil {
		t.Fatalf("InsertLinks: %v", err)
	}

	results := []domain.RankedHotel{
		{
			HotelID:   "GRHNYC",
			Name:      "The Grand Hotel",
			Score:     91.25,
			KeyPoints: []string{"rooftop bar", "quiet rooms"},
			Price:     &domain.PriceQuote{Total: "149.50", Currency: "USD", Value: 149.5},
		},
		{HotelID: "CITINN", Name: "City Inn", Score: 55},
	}
	if err := repo.InsertResults(ctx, runID, results); err != nil {
		t.Fatalf("InsertResults: %v", err)
	}

	latest, err := repo.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != runID || latest.Locality != "New York City" || latest.Query != "rooftop bar" {
		t.Fatalf("unexpected latest run: %+v", latest)
	}
	if latest.CreatedAt.IsZero() || time.Since(latest.CreatedAt) > time.Hour {
		t.Fatalf("created_at not populated: %v", latest.CreatedAt)
	}

	got, err := repo.RunResults(ctx, runID)
	if err != nil {
		t.Fatalf("RunResults: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	first := got[0]
	if first.HotelID != "GRHNYC" || first.Name != "The Grand Hotel" || first.Score != 91.25 {
		t.Fatalf("first result wrong: %+v", first)
	}
	if len(first.KeyPoints) != 2 || first.KeyPoints[0] != "rooftop bar" {
		t.Fatalf("key points lost: %+v", first.KeyPoints)
	}
	if first.Price == nil || first.Price.Total != "149.50" || first.Price.Currency != "USD" {
		t.Fatalf("price lost: %+v", first.Price)
	}
	second := got[1]
	if second.Price != nil || second.KeyPoints != nil {
		t.Fatalf("unpriced result should stay bare: %+v", second)
	}

	if _, err := repo.RunResults(ctx, runID+999); err != domain.ErrNotFound {
		t.Fatalf("unknown run should report ErrNotFound, got %v", err)
	}
}

func TestLatestRunPicksNewest(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := repo.InsertRun(ctx, domain.Run{Locality: "San Francisco", Query: "near the bay"}); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	second, err := repo.InsertRun(ctx, domain.Run{Locality: "New York City", Query: "rooftop bar"})
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	latest, err := repo.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != second || latest.Locality != "New York City" {
		t.Fatalf("expected the newest run, got %+v", latest)
	}
}
