package internal

import "github.com/nyaruka/phonenumbers"

// Region returns the ISO 3166-1 alpha-2 region for a canonical number, or ""
// when the numbering-plan metadata cannot place it. Best-effort only; the
// normalizer never depends on it and a missing region never drops a row.
func Region(number string) string {
	num, err := phonenumbers.Parse(number, "")
	if err != nil {
		return ""
	}
	return phonenumbers.GetRegionCodeForNumber(num)
}

// IsPlausible reports whether the numbering-plan metadata considers the
// canonical number valid for its region. A false value is advisory and does
// not exclude the number from results.
func IsPlausible(number string) bool {
	num, err := phonenumbers.Parse(number, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
