package search

import (
	"regexp"
	"strings"
)

// Address is the structured postal address extracted from a detail
// record's adr markup.
type Address struct {
	StreetAddress string `json:"street_address"`
	PostalCode    string `json:"postal_code"`
	Locality      string `json:"locality"`
	Region        string `json:"region"`
	CountryName   string `json:"country_name"`
}

var adrSpanPattern = regexp.MustCompile(`<span class="([^"]+)">([^<]*)</span>`)

// ParseAdrAddress extracts address fields from the provider's
// `<span class="CLASS">VALUE</span>` markup into a map keyed by the class
// name with hyphens replaced by underscores. Markup with no matching spans
// yields an empty map; the function never fails.
func ParseAdrAddress(markup string) map[string]string {
	fields := make(map[string]string)
	for _, match := range adrSpanPattern.FindAllStringSubmatch(markup, -1) {
		key := strings.ReplaceAll(match[1], "-", "_")
		fields[key] = match[2]
	}
	return fields
}

func addressFromAdr(markup string) Address {
	fields := ParseAdrAddress(markup)
	return Address{
		StreetAddress: fields["street_address"],
		PostalCode:    fields["postal_code"],
		Locality:      fields["locality"],
		Region:        fields["region"],
		CountryName:   fields["country_name"],
	}
}
