package app

import (
	"strconv"
	"strings"

	"stayscout/internal/domain"
)

/********** alias registries (single source of truth) **********/

var hotelAliases = map[string][]string{
	"id":     {"hotelId", "hotel_id", "id"},
	"name":   {"name.text", "name", "hotel_name"},
	"line":   {"address.lines", "address.line", "address_line1", "street_address", "address"},
	"postal": {"address.postalCode", "address.postal_code", "postalCode", "postal_code", "zip"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path. A []any lands on its first
// non-empty string element, which is how address.lines resolves.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case []any:
		for _, it := range v {
			if s, ok := it.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// firstAlias: first non-empty string across an alias set.
func firstAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstIDFlexible: identifier from several paths (string/float64/int).
func firstIDFlexible(m map[string]any, paths ...string) string {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

// priceFlexible: a price as float from a string or number value.
func priceFlexible(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

/********** hotel mapper **********/

// MapHotels converts raw inventory payloads into ExternalHotels. Entries
// without a usable identifier are dropped; every other missing field
// degrades to "".
func MapHotels(in []map[string]any) []domain.ExternalHotel {
	out := make([]domain.ExternalHotel, 0, len(in))
	for _, h := range in {
		id := firstIDFlexible(h, hotelAliases["id"]...)
		if id == "" {
			continue
		}
		out = append(out, domain.ExternalHotel{
			HotelID:     id,
			Name:        firstAlias(h, hotelAliases, "name"),
			AddressLine: firstAlias(h, hotelAliases, "line"),
			PostalCode:  firstAlias(h, hotelAliases, "postal"),
		})
	}
	return out
}

/********** city code mapper **********/

// ResolveCityCode picks an IATA city code out of a city-search payload,
// preferring an entry whose state matches the offering region. With no
// usable entry it falls back to the locality's first three letters.
func ResolveCityCode(cities []map[string]any, locality, region string) string {
	want := strings.ToUpper(strings.TrimSpace(region))
	var first string
	for _, c := range cities {
		code := strings.ToUpper(lookupStr(c, "iataCode"))
		if code == "" {
			continue
		}
		if first == "" {
			first = code
		}
		if want != "" && strings.ToUpper(lookupStr(c, "address.stateCode")) == want {
			return code
		}
	}
	if first != "" {
		return first
	}
	return FallbackCityCode(locality)
}

// FallbackCityCode derives a 3-letter code from the locality name.
func FallbackCityCode(locality string) string {
	letters := make([]rune, 0, 3)
	for _, r := range strings.ToUpper(locality) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
			if len(letters) == 3 {
				break
			}
		}
	}
	return string(letters)
}

/********** offers mapper **********/

// MapLowestOffers reduces an offers payload to the cheapest quote per
// hotel. Offers without a parseable price are skipped.
func MapLowestOffers(in []map[string]any) map[string]domain.PriceQuote {
	out := make(map[string]domain.PriceQuote, len(in))
	for _, entry := range in {
		hotelID := firstIDFlexible(entry, "hotel.hotelId", "hotelId")
		if hotelID == "" {
			continue
		}
		offers, _ := lookupAny(entry, "offers").([]any)
		for _, raw := range offers {
			o, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			total := lookupStr(o, "price.total")
			val, ok := priceFlexible(lookupAny(o, "price.total"))
			if !ok {
				continue
			}
			if total == "" {
				total = strconv.FormatFloat(val, 'f', 2, 64)
			}
			q := domain.PriceQuote{
				Total:    total,
				Currency: lookupStr(o, "price.currency"),
				Value:    val,
			}
			if cur, seen := out[hotelID]; !seen || q.Value < cur.Value {
				out[hotelID] = q
			}
		}
	}
	return out
}
