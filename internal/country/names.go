package country

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnknownCountry is returned when a code does not resolve to a country
// display name.
var ErrUnknownCountry = errors.New("unknown country code")

// DisplayNames maps ISO 3166-1 alpha-2 codes to localized country names
// backed by the CLDR data shipped with x/text.
//
// For the default locale it also recognizes its own canonical display names,
// so a value the lookup produced earlier resolves to itself. The save
// pipeline re-resolves every country value as if it were a code; without
// this, a country derived from a phone number on the first pass would be
// rejected on the second.
type DisplayNames struct {
	defaultLocale string
	canonical     map[string]string
}

func NewDisplayNames(defaultLocale string) (*DisplayNames, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", defaultLocale, err)
	}

	namer := display.Regions(tag)
	canonical := make(map[string]string)
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			code := string(a) + string(b)
			region, err := language.ParseRegion(code)
			if err != nil || !region.IsCountry() {
				continue
			}
			if name := namer.Name(region); name != "" && name != code {
				canonical[name] = name
			}
		}
	}

	return &DisplayNames{
		defaultLocale: defaultLocale,
		canonical:     canonical,
	}, nil
}

// NameFor resolves code to a display name in locale. An empty locale falls
// back to the default locale.
func (d *DisplayNames) NameFor(code, locale string) (string, error) {
	if locale == "" {
		locale = d.defaultLocale
	}

	region, err := language.ParseRegion(code)
	if err != nil {
		if locale == d.defaultLocale {
			if name, ok := d.canonical[code]; ok {
				return name, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, code)
	}
	if !region.IsCountry() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, code)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", locale, err)
	}

	name := display.Regions(tag).Name(region)
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, code)
	}
	return name, nil
}
