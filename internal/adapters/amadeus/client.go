package amadeus

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stayscout/internal/adapters/observability"
)

// Client talks to the Amadeus self-service APIs: city lookup, hotel lists
// by city, and hotel offers. Authentication is OAuth2 client-credentials;
// the bearer token is cached until shortly before expiry.
type Client struct {
	base   string
	hc     *http.Client
	id     string
	secret string
	rl     *rate.Limiter

	mu      sync.Mutex
	token   string
	expires time.Time
}

func New(base, clientID, clientSecret string, rps int) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("client credentials are required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     &http.Client{Timeout: 20 * time.Second},
		id:     clientID,
		secret: clientSecret,
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) Cities(ctx context.Context, keyword, countryCode string) ([]map[string]any, error) {
	q := url.Values{"keyword": {keyword}}
	if countryCode != "" {
		q.Set("countryCode", countryCode)
	}
	return c.getData(ctx, "cities", c.base+"/v1/reference-data/locations/cities?"+q.Encode())
}

func (c *Client) HotelsByCity(ctx context.Context, cityCode string, radiusMiles int) ([]map[string]any, error) {
	q := url.Values{
		"cityCode":   {cityCode},
		"radius":     {strconv.Itoa(radiusMiles)},
		"radiusUnit": {"MILE"},
	}
	return c.getData(ctx, "hotels-by-city", c.base+"/v1/reference-data/locations/hotels/by-city?"+q.Encode())
}

func (c *Client) HotelOffers(ctx context.Context, hotelIDs []string, checkIn, checkOut string, adults int) ([]map[string]any, error) {
	if len(hotelIDs) == 0 {
		return nil, nil
	}
	q := url.Values{
		"hotelIds":     {strings.Join(hotelIDs, ",")},
		"checkInDate":  {checkIn},
		"checkOutDate": {checkOut},
		"adults":       {strconv.Itoa(adults)},
	}
	return c.getData(ctx, "hotel-offers", c.base+"/v3/shopping/hotel-offers?"+q.Encode())
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("amadeus: not found")
	ErrUnauthorized = errors.New("amadeus: unauthorized")
	ErrForbidden    = errors.New("amadeus: forbidden")
)

// dataEnvelope is the common {"data": [...]} wrapper on Amadeus responses.
type dataEnvelope struct {
	Data []map[string]any `json:"data"`
}

func (c *Client) getData(ctx context.Context, endpoint, u string) ([]map[string]any, error) {
	var env dataEnvelope
	start := time.Now()
	err := c.get(ctx, u, &env)
	observability.ObserveExternal("amadeus", endpoint, statusOf(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func statusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return 0
	}
}

// bearer returns a valid access token, refreshing through the OAuth2
// client-credentials flow when the cached one is missing or stale.
func (c *Client) bearer(ctx context.Context, force bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !force && c.token != "" && time.Now().Before(c.expires) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.id},
		"client_secret": {c.secret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("token request failed: %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}
	c.token = tok.AccessToken
	// refresh a minute early
	c.expires = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

// get performs a GET with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After;
// a 401 forces one token refresh before counting as a failure.
func (c *Client) get(ctx context.Context, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	refreshed := false
	var lastErr error
	for i := 0; i < 4; i++ {
		tok, err := c.bearer(ctx, false)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "stayscout/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			if !refreshed {
				refreshed = true
				if _, err := c.bearer(ctx, true); err == nil {
					continue
				}
			}
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from a concurrency-safe source.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
