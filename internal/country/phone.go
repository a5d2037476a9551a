package country

import (
	"errors"
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// ErrNoRegion is returned when a number parses but no region can be
// determined for it.
var ErrNoRegion = errors.New("no region for phone number")

// PhoneParser resolves ISO 3166-1 alpha-2 region codes from phone numbers
// using libphonenumber. Numbers are expected in international format
// (leading +); no default region is assumed.
type PhoneParser struct{}

func (PhoneParser) RegionForNumber(number string) (string, error) {
	num, err := phonenumbers.Parse(number, "")
	if err != nil {
		return "", fmt.Errorf("parse phone number: %w", err)
	}

	region := phonenumbers.GetRegionCodeForNumber(num)
	if region == "" || region == "ZZ" {
		return "", ErrNoRegion
	}
	return region, nil
}
