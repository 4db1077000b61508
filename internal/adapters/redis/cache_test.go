package redisad_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "stayscout/internal/adapters/redis"
	"stayscout/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	hotels := []domain.ExternalHotel{
		{HotelID: "H1", Name: "The Grand Hotel", AddressLine: "123 Main Street", PostalCode: "10001"},
	}
	if err := cache.Set(ctx, "hotels:NYC:30", hotels, 900); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got []domain.ExternalHotel
	ok, err := cache.Get(ctx, "hotels:NYC:30", &got)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, hotels) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	cache, _ := newCache(t)

	var got []domain.ExternalHotel
	ok, err := cache.Get(context.Background(), "hotels:SFO:30", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("missing key must report a miss, not an error")
	}
}

func TestCacheDel(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cache.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if mr.Exists("k") {
		t.Fatal("key should be gone after Del")
	}
}

func TestCacheTTLExpires(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "quote:H1", domain.PriceQuote{Total: "149.50", Currency: "USD", Value: 149.5}, 10); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(11 * time.Second)

	var got domain.PriceQuote
	ok, err := cache.Get(ctx, "quote:H1", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expired key must be a miss")
	}
}
