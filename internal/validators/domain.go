// Package validators provides validation functions for configured identifiers.
package validators

import (
	"fmt"
	"regexp"
	"strings"
)

const maxDomainLength = 253

// Label pattern: must start and end with alphanumeric, can contain hyphens in the middle
var labelPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// ValidateShopDomain validates a shop hostname, e.g. "example.myshopify.com".
// The domain is interpolated into the admin API base URL, so it must be a
// bare hostname: no scheme, no path, no port.
// Returns the validated domain (trimmed) and an error if validation fails.
func ValidateShopDomain(domain string) (string, error) {
	domain = strings.TrimSpace(domain)

	if domain == "" {
		return "", fmt.Errorf("shop domain cannot be empty")
	}
	if strings.Contains(domain, "://") {
		return "", fmt.Errorf("shop domain must not include a scheme (got '%s')", domain)
	}
	if strings.ContainsAny(domain, "/?#") {
		return "", fmt.Errorf("shop domain must not include a path (got '%s')", domain)
	}
	if strings.Contains(domain, ":") {
		return "", fmt.Errorf("shop domain must not include a port (got '%s')", domain)
	}
	if len(domain) > maxDomainLength {
		return "", fmt.Errorf("shop domain exceeds maximum length of %d characters", maxDomainLength)
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return "", fmt.Errorf("shop domain must be a fully qualified hostname (e.g., 'example.myshopify.com')")
	}
	for _, label := range labels {
		if label == "" {
			return "", fmt.Errorf("shop domain contains an empty label (got '%s')", domain)
		}
		if !labelPattern.MatchString(label) {
			return "", fmt.Errorf(
				"shop domain label '%s' is invalid. Labels must start and end with alphanumeric characters, "+
					"and may contain hyphens in the middle",
				label,
			)
		}
	}

	return domain, nil
}

// IsValidShopDomain checks if a shop domain is valid.
// This is a convenience wrapper around ValidateShopDomain for boolean checks.
func IsValidShopDomain(domain string) bool {
	_, err := ValidateShopDomain(domain)
	return err == nil
}
