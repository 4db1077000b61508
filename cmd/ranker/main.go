package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"stayscout/internal/adapters/amadeus"
	"stayscout/internal/adapters/deepseek"
	"stayscout/internal/adapters/observability"
	redisad "stayscout/internal/adapters/redis"
	"stayscout/internal/app"
	"stayscout/internal/dataset"
	"stayscout/internal/domain"
	"stayscout/internal/export"
	"stayscout/internal/shared"
	mysqlrepo "stayscout/internal/storage/mysql"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	var (
		localityFlag = flag.String("locality", "", "locality to rank (prompts when empty)")
		queryFlag    = flag.String("query", "", "hotel preference query (prompts when empty)")
	)
	flag.Parse()

	ctx := context.Background()

	offerings, err := dataset.LoadOfferings(filepath.Join(cfg.DataDir, "offerings.csv"))
	if err != nil {
		log.Fatal().Err(err).Msg("load offerings failed")
	}
	localities := dataset.Localities(offerings)
	if len(localities) == 0 {
		log.Fatal().Msg("no localities in offerings dataset")
	}

	locality := *localityFlag
	if locality == "" {
		locality = promptLocality(localities)
	}
	subset := dataset.FilterLocality(offerings, locality)
	if len(subset) == 0 {
		log.Fatal().Str("locality", locality).Msg("no offerings for locality")
	}
	region := subset[0].Region
	log.Info().Str("locality", locality).Str("region", region).Int("offerings", len(subset)).Msg("locality selected")

	inv, err := amadeus.New(cfg.AmadeusBase, cfg.AmadeusID, cfg.AmadeusSecret, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize inventory client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	cityCode := resolveCity(ctx, inv, locality, region)
	log.Info().Str("city_code", cityCode).Msg("city code resolved")

	rawHotels := fetchHotels(ctx, inv, cache, cityCode, cfg)
	hotels := app.MapHotels(rawHotels)
	log.Info().Int("hotels", len(hotels)).Msg("inventory hotels loaded")

	links := app.NewMatcher().Link(subset, hotels)
	linked := app.LinkedOnly(links)
	log.Info().Int("linked", len(linked)).Int("offerings", len(subset)).Msg("matching done")
	if len(linked) == 0 {
		log.Fatal().Msg("no offerings could be linked to inventory hotels")
	}

	reviews, err := dataset.LoadReviews(filepath.Join(cfg.DataDir, "reviews.csv"))
	if err != nil {
		log.Fatal().Err(err).Msg("load reviews failed")
	}

	seed := cfg.EvidenceSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info().Int64("seed", seed).Msg("evidence sampling seed")
	evidence := app.NewEvidenceBuilder(rand.New(rand.NewSource(seed))).Build(links, reviews)

	evPath := export.EvidencePath(cfg.DataDir, locality)
	if err := export.WriteJSON(evPath, evidence); err != nil {
		log.Warn().Err(err).Str("path", evPath).Msg("evidence snapshot failed")
	} else {
		log.Info().Str("path", evPath).Msg("evidence snapshot written")
	}

	query := *queryFlag
	if query == "" {
		query = prompt("What are you looking for in a hotel? (e.g., quiet, good breakfast, family-friendly): ")
	}
	if query == "" {
		log.Fatal().Msg("a preference query is required")
	}

	scorer, err := deepseek.New(cfg.DeepSeekBase, cfg.DeepSeekKey, cfg.DeepSeekModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize scorer")
	}
	scoring := app.NewScoringService(scorer, app.ScoringConfig{
		BatchSize:    cfg.BatchSize,
		Concurrency:  cfg.ScoreConcurrency,
		BatchTimeout: cfg.BatchTimeout,
	})
	scored, scoreErr := scoring.ScoreAll(ctx, query, evidence)
	if scoreErr != nil {
		log.Warn().Err(scoreErr).Msg("some scoring batches failed")
	}
	if len(scored) == 0 {
		log.Error().Msg("no hotels were scored; nothing to rank")
		return
	}

	scPath := export.ScoresPath(cfg.ExportDir, locality, time.Now())
	if err := export.WriteJSON(scPath, scored); err != nil {
		log.Warn().Err(err).Str("path", scPath).Msg("scores snapshot failed")
	} else {
		log.Info().Str("path", scPath).Msg("scores snapshot written")
	}

	top := app.SelectTopK(scored, cfg.TopK)
	results := app.JoinResults(top, links)

	checkIn := time.Now().AddDate(0, 0, 60)
	checkOut := checkIn.AddDate(0, 0, 1)
	attachPrices(ctx, inv, results, checkIn, checkOut)

	printReport(results, query, checkIn, checkOut)

	if cfg.MySQLDSN != "" {
		persistRun(ctx, cfg.MySQLDSN, locality, query, links, results)
	} else {
		log.Warn().Msg("MYSQL_DSN not set; run not persisted")
	}
}

func resolveCity(ctx context.Context, inv domain.InventoryClient, locality, region string) string {
	countryCode := ""
	if len(region) == 2 {
		countryCode = "US"
	}
	cities, err := inv.Cities(ctx, locality, countryCode)
	if err != nil {
		log.Warn().Err(err).Msg("city lookup failed, using fallback code")
		return app.FallbackCityCode(locality)
	}
	return app.ResolveCityCode(cities, locality, region)
}

func fetchHotels(ctx context.Context, inv domain.InventoryClient, cache domain.Cache, cityCode string, cfg shared.Config) []map[string]any {
	key := fmt.Sprintf("hotels:%s:%d", cityCode, cfg.RadiusMiles)
	var cached []map[string]any
	if ok, _ := cache.Get(ctx, key, &cached); ok {
		log.Info().Str("city_code", cityCode).Msg("hotel list served from cache")
		return cached
	}
	raw, err := inv.HotelsByCity(ctx, cityCode, cfg.RadiusMiles)
	if err != nil {
		log.Fatal().Err(err).Str("city_code", cityCode).Msg("hotel search failed")
	}
	_ = cache.Set(ctx, key, raw, int(cfg.CacheTTL.Seconds()))
	return raw
}

func attachPrices(ctx context.Context, inv domain.InventoryClient, results []domain.RankedHotel, checkIn, checkOut time.Time) {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.HotelID)
	}
	offers, err := inv.HotelOffers(ctx, ids, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"), 1)
	if err != nil {
		log.Warn().Err(err).Msg("price lookup failed; ranking shown without prices")
		return
	}
	app.AttachPrices(results, app.MapLowestOffers(offers))
}

func printReport(results []domain.RankedHotel, query string, checkIn, checkOut time.Time) {
	fmt.Printf("\nTop %d hotels matching %q (with current price offers and key review points):\n", len(results), query)
	for i, h := range results {
		fmt.Printf("%d. %s | Score: %.2f\n", i+1, h.Name, h.Score)
		if h.Price != nil {
			fmt.Printf("   Lowest price for 1 night (%s to %s): %s %s\n",
				checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"), h.Price.Total, h.Price.Currency)
		} else {
			fmt.Println("   No price offers found.")
		}
		if len(h.KeyPoints) > 0 {
			fmt.Printf("   Key Points: %s\n", strings.Join(h.KeyPoints, ", "))
		} else {
			fmt.Println("   No key points found.")
		}
	}
}

func persistRun(ctx context.Context, dsn, locality, query string, links []domain.LinkedHotel, results []domain.RankedHotel) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Warn().Err(err).Msg("sql.Open failed; run not persisted")
		return
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("db ping failed; run not persisted")
		return
	}
	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("schema setup failed; run not persisted")
		return
	}
	runID, err := repo.InsertRun(ctx, domain.Run{Locality: locality, Query: query})
	if err != nil {
		log.Warn().Err(err).Msg("insert run failed")
		return
	}
	if err := repo.InsertLinks(ctx, runID, links); err != nil {
		log.Warn().Err(err).Msg("insert links failed")
	}
	if err := repo.InsertResults(ctx, runID, results); err != nil {
		log.Warn().Err(err).Msg("insert results failed")
	}
	log.Info().Int64("run_id", runID).Msg("run persisted")
}

func promptLocality(localities []string) string {
	fmt.Println("Available localities:")
	for i, loc := range localities {
		fmt.Printf("%d. %s\n", i+1, loc)
	}
	for {
		sel := prompt(fmt.Sprintf("Please enter the number of your chosen locality (1-%d): ", len(localities)))
		n, err := strconv.Atoi(sel)
		if err != nil || n < 1 || n > len(localities) {
			fmt.Println("Invalid selection. Please try again.")
			continue
		}
		return localities[n-1]
	}
}

func prompt(msg string) string {
	fmt.Print(msg)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}
