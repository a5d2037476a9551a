// Package country resolves display-ready country names from phone numbers or
// ISO country codes, memoizing both positive and negative results.
package country

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/ioramishvili/GuestService/internal/cache"
)

// DefaultTTL bounds how long resolution results are reused. Country mappings
// change extremely rarely, so a day of staleness is acceptable.
const DefaultTTL = 24 * time.Hour

// noResult marks a memoized failed resolution so repeated lookups for the
// same input are not retried within the TTL. The NUL byte cannot appear in a
// real country name or region code.
const noResult = "\x00"

type PhoneRegionResolver interface {
	RegionForNumber(number string) (string, error)
}

type CountryNameLookup interface {
	NameFor(code, locale string) (string, error)
}

type Resolver struct {
	cache  cache.Cache
	phones PhoneRegionResolver
	names  CountryNameLookup
	locale string
	ttl    time.Duration
	log    *slog.Logger
}

func NewResolver(c cache.Cache, phones PhoneRegionResolver, names CountryNameLookup, locale string, ttl time.Duration, log *slog.Logger) *Resolver {
	if locale == "" {
		locale = "en"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{
		cache:  c,
		phones: phones,
		names:  names,
		locale: locale,
		ttl:    ttl,
		log:    log,
	}
}

// ResolveCountryName returns the display name for countryCode, or, when the
// code is empty, for the region of phoneNumber. It returns "" when neither
// input yields a country.
//
// When both inputs are present the code wins and the phone number is ignored,
// but both still participate in the cache key, so a code+phone call and a
// phone-only call memoize independently.
func (r *Resolver) ResolveCountryName(ctx context.Context, countryCode, phoneNumber string) string {
	key := "full_country_name_" + md5Hex(countryCode+phoneNumber)
	if v, ok := r.cache.Get(ctx, key); ok {
		if v == noResult {
			return ""
		}
		return v
	}

	var name string
	switch {
	case countryCode != "":
		name = r.nameByCode(ctx, countryCode)
	case phoneNumber != "":
		if code := r.codeByPhone(ctx, phoneNumber); code != "" {
			name = r.nameByCode(ctx, code)
		}
	}

	stored := name
	if stored == "" {
		stored = noResult
	}
	r.cache.Set(ctx, key, stored, r.ttl)

	return name
}

// nameByCode resolves a country code to a display name in the configured
// locale. Only successful lookups are cached here; negative results are
// memoized by the caller under the combined key.
func (r *Resolver) nameByCode(ctx context.Context, code string) string {
	key := "country_name_" + code + "_" + r.locale
	if v, ok := r.cache.Get(ctx, key); ok {
		return v
	}

	name, err := r.names.NameFor(code, r.locale)
	if err != nil {
		r.log.WarnContext(ctx, "country name lookup failed", "code", code, "error", err)
		return ""
	}

	r.cache.Set(ctx, key, name, r.ttl)
	return name
}

func (r *Resolver) codeByPhone(ctx context.Context, phoneNumber string) string {
	key := "country_code_" + md5Hex(phoneNumber)
	if v, ok := r.cache.Get(ctx, key); ok {
		return v
	}

	code, err := r.phones.RegionForNumber(phoneNumber)
	if err != nil {
		r.log.WarnContext(ctx, "phone number parse failed", "error", err)
		return ""
	}

	r.cache.Set(ctx, key, code, r.ttl)
	return code
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
