package cache

import "strings"

// keyPrefix namespaces every recommendation cache entry.
const keyPrefix = "rec"

// Key identifies one cached recommendation list: a subject (user ID or APT
// code), the candidate category, and an optional context qualifier such as
// "trending" or a date bucket.
type Key struct {
	Subject  string
	Category string
	Context  string
}

// String renders the composite key as "rec:{category}:{subject}[:{context}]".
// The category comes first so a whole category namespace shares one prefix.
func (k Key) String() string {
	parts := []string{keyPrefix, k.Category, k.Subject}
	if k.Context != "" {
		parts = append(parts, k.Context)
	}
	return strings.Join(parts, ":")
}

// NamespacePattern returns the glob matching every key in a category
// namespace.
func NamespacePattern(category string) string {
	return keyPrefix + ":" + category + ":*"
}

// categoryOf extracts the category segment from a rendered key. Used to
// attribute hit/miss counters. Returns "" for foreign keys.
func categoryOf(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 3 || parts[0] != keyPrefix {
		return ""
	}
	return parts[1]
}
