package service

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/prepdesk/sales-prep/api/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "US"

// ContactCleaner normalizes the contact channels a research pass surfaces.
// Research output is model-generated text, so every email and phone number is
// treated as unvalidated until it passes these rules.
type ContactCleaner struct {
	DefaultRegion string
}

// NewContactCleaner builds a cleaner for the given default dialing region.
func NewContactCleaner(defaultRegion string) *ContactCleaner {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactCleaner{DefaultRegion: region}
}

// Clean validates, normalizes and dedupes the record's contact info in place.
func (c *ContactCleaner) Clean(info entity.ContactInfo) entity.ContactInfo {
	return entity.ContactInfo{
		Emails: c.cleanEmails(info.Emails),
		Phones: c.cleanPhones(info.Phones),
	}
}

func (c *ContactCleaner) cleanEmails(emails []string) []string {
	if len(emails) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(emails))
	valid := make([]string, 0, len(emails))

	for _, raw := range emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" || !emailPattern.MatchString(email) {
			continue
		}
		parts := strings.SplitN(email, "@", 2)
		domain := parts[1]
		if !isDomainValid(domain) {
			continue
		}
		asciiDomain, err := idnaProfile.ToASCII(domain)
		if err != nil || asciiDomain == "" {
			continue
		}
		canonical := parts[0] + "@" + asciiDomain
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		valid = append(valid, canonical)
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}

func (c *ContactCleaner) cleanPhones(phones []string) []string {
	if len(phones) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(phones))
	valid := make([]string, 0, len(phones))

	for _, raw := range phones {
		normalized := normalizePhone(raw, c.DefaultRegion)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		valid = append(valid, normalized)
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
