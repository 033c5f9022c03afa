package services

import (
	"regexp"
	"strings"

	"canvasclub/models"
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	phoneCleanRe = regexp.MustCompile(`[\s\-()]`)
	zipUSRe      = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	zipCARe      = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z]\d[A-Za-z]\d$`)
	zipGBRe      = regexp.MustCompile(`^[A-Za-z]{1,2}\d[A-Za-z\d]?\s*\d[A-Za-z]{2}$`)
	zipAURe      = regexp.MustCompile(`^\d{4}$`)
	zipAnyRe     = regexp.MustCompile(`^[0-9a-zA-Z-]{3,10}$`)
)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidatePhone(phone string) bool {
	return phoneRe.MatchString(phoneCleanRe.ReplaceAllString(phone, ""))
}

// ValidateZip checks postal codes per country, with a loose fallback for
// countries without a specific rule.
func ValidateZip(zip, country string) bool {
	clean := strings.ReplaceAll(zip, " ", "")
	switch country {
	case "US":
		return zipUSRe.MatchString(clean)
	case "CA":
		return zipCARe.MatchString(clean)
	case "GB":
		return zipGBRe.MatchString(zip)
	case "AU":
		return zipAURe.MatchString(clean)
	default:
		return zipAnyRe.MatchString(clean)
	}
}

// addressFields fixes the order fields are checked and reported in.
var addressFields = []string{
	"firstName", "lastName", "address1", "city", "state", "zip", "country", "phone",
}

// ValidateAddress returns a field-to-problem map; an empty map means the
// address is acceptable for fulfillment.
func ValidateAddress(addr models.ShippingAddress) map[string]string {
	errs := map[string]string{}

	values := map[string]string{
		"firstName": addr.FirstName,
		"lastName":  addr.LastName,
		"address1":  addr.Address1,
		"city":      addr.City,
		"state":     addr.State,
		"zip":       addr.Zip,
		"country":   addr.Country,
		"phone":     addr.Phone,
	}
	for _, field := range addressFields {
		if strings.TrimSpace(values[field]) == "" {
			errs[field] = "This field is required"
		}
	}

	if addr.Phone != "" && !ValidatePhone(addr.Phone) {
		errs["phone"] = "Invalid phone number"
	}
	if addr.Zip != "" && addr.Country != "" && !ValidateZip(addr.Zip, addr.Country) {
		errs["zip"] = "Invalid postal code"
	}

	return errs
}

// FirstAddressError picks the first problem in the fixed field order so
// callers report the same message for the same input every time.
func FirstAddressError(errs map[string]string) (string, string) {
	for _, field := range addressFields {
		if msg, ok := errs[field]; ok {
			return field, msg
		}
	}
	return "", ""
}
